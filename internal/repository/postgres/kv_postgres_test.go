package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"suratapi/internal/repository"
)

func TestKVPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewKVPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"1"}]`))
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("letters").
			WillReturnRows(rows)

		value, err := store.Get(ctx, "letters")

		assert.NoError(t, err)
		assert.Equal(t, []byte(`[{"id":"1"}]`), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		value, err := store.Get(ctx, "missing")

		assert.Nil(t, value)
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("letters").
			WillReturnError(errors.New("connection refused"))

		_, err := store.Get(ctx, "letters")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKVPostgres_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewKVPostgres(db)
	ctx := context.Background()

	t.Run("upsert", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("settings", []byte(`{"theme":"dark"}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Set(ctx, "settings", []byte(`{"theme":"dark"}`))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("settings", []byte(`{}`)).
			WillReturnError(errors.New("disk full"))

		err := store.Set(ctx, "settings", []byte(`{}`))

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKVPostgres_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewKVPostgres(db)
	ctx := context.Background()

	t.Run("existing key", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM kv_store").
			WithArgs("letters").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Remove(ctx, "letters"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent key is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM kv_store").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.Remove(ctx, "missing"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
