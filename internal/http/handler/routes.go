package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"suratapi/internal/extract"
	"suratapi/internal/letter"
	"suratapi/internal/model"
	"suratapi/internal/service"
	"suratapi/internal/settings"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate transport concerns only; business rules live in the
// service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, letterSvc service.LetterService, settingsStore settings.Store) {
	// Serve the OpenAPI document and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/letters/analyze", AnalyzeLetter(letterSvc))
	app.Post("/letters", CreateLetter(letterSvc))
	app.Get("/letters", ListLetters(letterSvc))
	app.Get("/letters/stats", LetterStats(letterSvc))
	app.Get("/letters/export", ExportLetters(letterSvc))
	app.Get("/letters/files/:name", DownloadLetterFile(letterSvc))
	app.Delete("/letters", ClearLetters(letterSvc))

	app.Get("/settings", GetSettings(settingsStore))
	app.Put("/settings", UpdateSettings(settingsStore))
	app.Post("/settings/reset", ResetSettings(settingsStore))
}

// HealthCheck verifies DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type analyzeTextRequest struct {
	Text string `json:"text" form:"text"`
}

// AnalyzeLetter runs extraction on an uploaded document (multipart field
// "file") or on pasted text (field/body "text") and returns the
// post-processed analysis for the review form.
func AnalyzeLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			data, err := io.ReadAll(f)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}

			result, err := svc.AnalyzeMedia(c.UserContext(), data, ct)
			if err != nil {
				return writeAnalysisError(c, err)
			}
			return c.JSON(result)
		}

		var req analyzeTextRequest
		if err := c.BodyParser(&req); err != nil || req.Text == "" {
			return writeError(c, fiber.StatusBadRequest, "INPUT_REQUIRED", "a document file or letter text is required")
		}

		result, err := svc.AnalyzeText(c.UserContext(), req.Text)
		if err != nil {
			return writeAnalysisError(c, err)
		}
		return c.JSON(result)
	}
}

// writeAnalysisError maps extraction failures onto distinct response codes so
// clients can offer targeted retry hints.
func writeAnalysisError(c *fiber.Ctx, err error) error {
	var sizeErr *service.SizeLimitError
	if errors.As(err, &sizeErr) {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", sizeErr.Error())
	}
	if errors.Is(err, extract.ErrEmptyResponse) {
		return writeError(c, fiber.StatusBadGateway, "EMPTY_RESPONSE", "the document could not be read or was filtered; try again or use a clearer scan")
	}
	var svcErr *extract.ServiceError
	if errors.As(err, &svcErr) {
		return writeError(c, fiber.StatusBadGateway, "EXTRACTION_FAILED", "extraction failed; the file may be too large or in an unsupported format")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// createLetterRequest mirrors the editable draft fields.
type createLetterRequest struct {
	Type            model.LetterType    `json:"type"`
	ReferenceNumber string              `json:"referenceNumber"`
	Sender          string              `json:"sender"`
	Recipient       string              `json:"recipient"`
	Date            string              `json:"date"`
	Subject         string              `json:"subject"`
	EventStart      string              `json:"eventStart"`
	EventEnd        string              `json:"eventEnd"`
	Location        string              `json:"location"`
	Summary         string              `json:"summary"`
	Content         string              `json:"content"`
	DocumentURL     string              `json:"documentUrl"`
	MimeType        string              `json:"mimeType"`
	Tags            []string            `json:"tags"`
	CustomFields    []model.CustomField `json:"customFields"`
}

func (r createLetterRequest) toDraft() letter.Draft {
	return letter.Draft{
		Type:            r.Type,
		ReferenceNumber: r.ReferenceNumber,
		Sender:          r.Sender,
		Recipient:       r.Recipient,
		Date:            r.Date,
		Subject:         r.Subject,
		EventStart:      r.EventStart,
		EventEnd:        r.EventEnd,
		Location:        r.Location,
		Summary:         r.Summary,
		Content:         r.Content,
		DocumentURL:     r.DocumentURL,
		MimeType:        r.MimeType,
		Tags:            r.Tags,
		CustomFields:    r.CustomFields,
	}
}

// CreateLetter finalizes a reviewed draft into the archive. The request is
// either a JSON draft, or multipart/form-data with a JSON "letter" field plus
// the original document under "file".
func CreateLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createLetterRequest
		var src *service.SourceFile

		if fh, err := c.FormFile("file"); err == nil {
			payload := c.FormValue("letter")
			if payload == "" {
				return writeError(c, fiber.StatusBadRequest, "LETTER_REQUIRED", "letter field is required")
			}
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LETTER", "letter field is not valid JSON")
			}

			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			src = &service.SourceFile{
				Name:        fh.Filename,
				ContentType: ct,
				Size:        fh.Size,
				Reader:      f,
			}
		} else if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not a valid letter draft")
		}

		rec, err := svc.Finalize(c.UserContext(), req.toDraft(), src)
		if err != nil {
			var verr *letter.ValidationError
			if errors.As(err, &verr) {
				return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// letterListResponse wraps the filtered archive view.
type letterListResponse struct {
	Items []model.Letter `json:"data"`
	Total int            `json:"total"`
}

// ListLetters returns archived letters filtered by ?type= (Masuk/Keluar/all)
// and free-text ?q=, sorted by letter date descending.
func ListLetters(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		letterType := c.Query("type", "all")
		if letterType != "all" && !model.LetterType(letterType).Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "invalid letter type")
		}

		letters, err := svc.List(c.UserContext(), letterType, c.Query("q"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(letterListResponse{Items: letters, Total: len(letters)})
	}
}

// LetterStats returns the dashboard counters.
func LetterStats(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(stats)
	}
}

// ClearLetters empties the archive.
func ClearLetters(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.ClearArchive(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadLetterFile streams the stored original document of an archived
// letter by its synthesized file name.
func DownloadLetterFile(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" || strings.ContainsAny(name, "/\\") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		}

		rc, info, err := svc.Download(c.UserContext(), name)
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "document not found")
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.SendStream(rc, int(info.Size))
	}
}

// ExportLetters streams the CSV recap of the whole archive.
func ExportLetters(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ExportCSV(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrNoData) {
				return writeError(c, fiber.StatusNotFound, "NO_DATA", "no archive data to export")
			}
			return writeError(c, fiber.StatusInternalServerError, "EXPORT_FAILED", "failed to export archive")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
		return c.Send(res.Data)
	}
}

// GetSettings returns the saved settings merged over defaults.
func GetSettings(store settings.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := store.Load(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(cfg)
	}
}

// UpdateSettings replaces the stored settings.
func UpdateSettings(store settings.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cfg model.AppSettings
		if err := c.BodyParser(&cfg); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not a valid settings object")
		}
		if err := store.Save(c.UserContext(), cfg); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(cfg)
	}
}

// ResetSettings reverts the settings to their defaults.
func ResetSettings(store settings.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Reset(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(model.DefaultSettings())
	}
}
