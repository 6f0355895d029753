package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"suratapi/internal/extract"
	"suratapi/internal/letter"
	"suratapi/internal/model"
	"suratapi/internal/service"
	serviceMocks "suratapi/internal/service/mocks"
	settingsMocks "suratapi/internal/settings/mocks"
	"suratapi/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// multipartBody builds a multipart request body with an optional file part and
// extra form fields, returning the body and its content type.
func multipartBody(t *testing.T, fileName, fileType string, fileContent []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", fileType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestAnalyzeLetter(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Post("/letters/analyze", AnalyzeLetter(mockSvc))

	t.Run("media success", func(t *testing.T) {
		result := &model.AnalysisResult{
			Type:    model.TypeIncoming,
			Sender:  "Bappeda",
			Subject: "Undangan Seminar AI",
		}
		mockSvc.On("AnalyzeMedia", mock.Anything, []byte("pdf-bytes"), "application/pdf").
			Return(result, nil).Once()

		body, contentType := multipartBody(t, "scan.pdf", "application/pdf", []byte("pdf-bytes"), nil)
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", body)
		req.Header.Set("Content-Type", contentType)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got model.AnalysisResult
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "Bappeda", got.Sender)
		mockSvc.AssertExpectations(t)
	})

	t.Run("text success", func(t *testing.T) {
		result := &model.AnalysisResult{Type: model.TypeIncoming, Subject: "Perihal"}
		mockSvc.On("AnalyzeText", mock.Anything, "isi surat").Return(result, nil).Once()

		payload, _ := json.Marshal(map[string]string{"text": "isi surat"})
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing input", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"text": ""})
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INPUT_REQUIRED", body.Error.Code)
	})

	t.Run("file too large", func(t *testing.T) {
		mockSvc.On("AnalyzeMedia", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &service.SizeLimitError{Size: 25 * 1024 * 1024, Limit: 20 * 1024 * 1024}).Once()

		body, contentType := multipartBody(t, "big.pdf", "application/pdf", []byte("x"), nil)
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", body)
		req.Header.Set("Content-Type", contentType)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

		var body2 errorPayload
		json.NewDecoder(resp.Body).Decode(&body2)
		assert.Equal(t, "FILE_TOO_LARGE", body2.Error.Code)
		assert.Contains(t, body2.Error.Message, "25.00 MB")
	})

	t.Run("empty extractor response", func(t *testing.T) {
		mockSvc.On("AnalyzeText", mock.Anything, "teks kosong").
			Return(nil, extract.ErrEmptyResponse).Once()

		payload, _ := json.Marshal(map[string]string{"text": "teks kosong"})
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "EMPTY_RESPONSE", body.Error.Code)
	})

	t.Run("extraction failure", func(t *testing.T) {
		mockSvc.On("AnalyzeText", mock.Anything, "teks gagal").
			Return(nil, &extract.ServiceError{Op: "text", Err: errors.New("boom")}).Once()

		payload, _ := json.Marshal(map[string]string{"text": "teks gagal"})
		req := httptest.NewRequest(http.MethodPost, "/letters/analyze", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "EXTRACTION_FAILED", body.Error.Code)
	})
}

func TestCreateLetter(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Post("/letters", CreateLetter(mockSvc))

	t.Run("json draft", func(t *testing.T) {
		archived := &model.Letter{ID: "gen-id", Subject: "Undangan"}
		mockSvc.On("Finalize", mock.Anything, mock.MatchedBy(func(d letter.Draft) bool {
			return d.Sender == "HRD" && d.Subject == "Undangan"
		}), (*service.SourceFile)(nil)).Return(archived, nil).Once()

		payload, _ := json.Marshal(map[string]any{
			"type":    "Masuk",
			"sender":  "HRD",
			"subject": "Undangan",
		})
		req := httptest.NewRequest(http.MethodPost, "/letters", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got model.Letter
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "gen-id", got.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("multipart draft with file", func(t *testing.T) {
		archived := &model.Letter{ID: "gen-id-2"}
		mockSvc.On("Finalize", mock.Anything, mock.Anything, mock.MatchedBy(func(f *service.SourceFile) bool {
			return f != nil && f.Name == "scan.pdf" && f.ContentType == "application/pdf"
		})).Return(archived, nil).Once()

		letterJSON, _ := json.Marshal(map[string]string{"sender": "HRD", "subject": "SK"})
		body, contentType := multipartBody(t, "scan.pdf", "application/pdf", []byte("pdf"), map[string]string{
			"letter": string(letterJSON),
		})
		req := httptest.NewRequest(http.MethodPost, "/letters", body)
		req.Header.Set("Content-Type", contentType)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file without letter field", func(t *testing.T) {
		body, contentType := multipartBody(t, "scan.pdf", "application/pdf", []byte("pdf"), nil)
		req := httptest.NewRequest(http.MethodPost, "/letters", body)
		req.Header.Set("Content-Type", contentType)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "LETTER_REQUIRED", errBody.Error.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		mockSvc.On("Finalize", mock.Anything, mock.Anything, (*service.SourceFile)(nil)).
			Return(nil, &letter.ValidationError{Field: "sender"}).Once()

		payload, _ := json.Marshal(map[string]string{"subject": "no sender"})
		req := httptest.NewRequest(http.MethodPost, "/letters", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "VALIDATION_ERROR", errBody.Error.Code)
	})
}

func TestListLetters(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Get("/letters", ListLetters(mockSvc))

	t.Run("success", func(t *testing.T) {
		letters := []model.Letter{
			{ID: "1", Type: model.TypeIncoming, Date: "2023-10-26"},
			{ID: "2", Type: model.TypeIncoming, Date: "2023-10-20"},
		}
		mockSvc.On("List", mock.Anything, "Masuk", "undangan").Return(letters, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters?type=Masuk&q=undangan", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got letterListResponse
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Len(t, got.Items, 2)
		assert.Equal(t, 2, got.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/letters?type=Unknown", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "INVALID_TYPE", errBody.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "all", "").Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestLetterStats(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Get("/letters/stats", LetterStats(mockSvc))

	mockSvc.On("Stats", mock.Anything).
		Return(&service.ArchiveStats{Incoming: 2, Outgoing: 1, Total: 3}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/letters/stats", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got service.ArchiveStats
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, 3, got.Total)
	mockSvc.AssertExpectations(t)
}

func TestClearLetters(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Delete("/letters", ClearLetters(mockSvc))

	mockSvc.On("ClearArchive", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/letters", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestDownloadLetterFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Get("/letters/files/:name", DownloadLetterFile(mockSvc))

	t.Run("streams stored document", func(t *testing.T) {
		body := io.NopCloser(strings.NewReader("pdf-bytes"))
		info := storage.ObjectInfo{Size: 9, ContentType: "application/pdf"}
		mockSvc.On("Download", mock.Anything, "2023_Bappeda_001.pdf").Return(body, info, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters/files/2023_Bappeda_001.pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "2023_Bappeda_001.pdf")

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "pdf-bytes", string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing document", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, "nope.pdf").
			Return(nil, storage.ObjectInfo{}, errors.New("object not found")).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters/files/nope.pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "FILE_NOT_FOUND", errBody.Error.Code)
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/letters/files/..%5Csecrets.txt", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "INVALID_FILENAME", errBody.Error.Code)
	})
}

func TestExportLetters(t *testing.T) {
	mockSvc := new(serviceMocks.MockLetterService)
	app := fiber.New()
	app.Get("/letters/export", ExportLetters(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("ExportCSV", mock.Anything).Return(&service.ExportResult{
			FileName: "rekap_surat_2023-10-30.csv",
			Data:     []byte(`"ID","Jenis"`),
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters/export", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "rekap_surat_2023-10-30.csv")

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, `"ID","Jenis"`, string(data))
	})

	t.Run("no data", func(t *testing.T) {
		mockSvc.On("ExportCSV", mock.Anything).Return(nil, service.ErrNoData).Once()

		req := httptest.NewRequest(http.MethodGet, "/letters/export", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errBody errorPayload
		json.NewDecoder(resp.Body).Decode(&errBody)
		assert.Equal(t, "NO_DATA", errBody.Error.Code)
	})
}

func TestSettingsHandlers(t *testing.T) {
	mockStore := new(settingsMocks.MockStore)
	app := fiber.New()
	app.Get("/settings", GetSettings(mockStore))
	app.Put("/settings", UpdateSettings(mockStore))
	app.Post("/settings/reset", ResetSettings(mockStore))

	t.Run("get", func(t *testing.T) {
		mockStore.On("Load", mock.Anything).Return(model.DefaultSettings(), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/settings", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got model.AppSettings
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "light", got.Theme)
		assert.Len(t, got.SenderAbbreviations, 2)
	})

	t.Run("update", func(t *testing.T) {
		mockStore.On("Save", mock.Anything, mock.MatchedBy(func(s model.AppSettings) bool {
			return s.Theme == "dark"
		})).Return(nil).Once()

		payload, _ := json.Marshal(map[string]any{"theme": "dark"})
		req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockStore.AssertExpectations(t)
	})

	t.Run("reset", func(t *testing.T) {
		mockStore.On("Reset", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/settings/reset", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockStore.AssertExpectations(t)
	})
}
