package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"suratapi/internal/archive"
	"suratapi/internal/model"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(ctx context.Context, l *model.Letter) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockStore) All(ctx context.Context) ([]model.Letter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Letter), args.Error(1)
}

func (m *MockStore) FilteredSorted(ctx context.Context, pred archive.Predicate) ([]model.Letter, error) {
	args := m.Called(ctx, pred)
	if f, ok := args.Get(0).(func(context.Context, archive.Predicate) []model.Letter); ok {
		return f(ctx, pred), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Letter), args.Error(1)
}

func (m *MockStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
