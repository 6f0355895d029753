package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"suratapi/internal/archive"
	"suratapi/internal/export"
	"suratapi/internal/extract"
	"suratapi/internal/letter"
	"suratapi/internal/model"
	"suratapi/internal/settings"
	"suratapi/internal/storage"
)

// ErrNoData indicates an export was requested against an empty archive.
var ErrNoData = errors.New("no archive data to export")

// documentURLExpiry bounds the presigned download link for a stored letter
// file. Seven days is the S3 presign maximum.
const documentURLExpiry = 7 * 24 * time.Hour

// SizeLimitError reports media rejected before any network call because it
// exceeds the analysis ceiling. Size and Limit are in bytes.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file too large (%.2f MB), maximum %d MB",
		float64(e.Size)/(1024*1024), e.Limit/(1024*1024))
}

// SourceFile carries the original uploaded letter file through finalization.
type SourceFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ArchiveStats are the dashboard counters.
type ArchiveStats struct {
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
	Total    int `json:"total"`
}

// ExportResult is one rendered CSV recap ready for download.
type ExportResult struct {
	FileName string
	Data     []byte
}

// LetterService defines the use cases of the letter intake and archive.
type LetterService interface {
	// AnalyzeMedia runs extraction on inline binary content (image or PDF)
	// and returns the post-processed analysis ready to merge into a draft.
	AnalyzeMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error)

	// AnalyzeText runs extraction on pasted letter text.
	AnalyzeText(ctx context.Context, text string) (*model.AnalysisResult, error)

	// Finalize validates and assembles the draft into an immutable record,
	// optionally stores the original file, and appends to the archive.
	Finalize(ctx context.Context, draft letter.Draft, file *SourceFile) (*model.Letter, error)

	// List returns archived letters matching the type filter ("" or "all"
	// for everything) and free-text search, sorted by letter date descending.
	List(ctx context.Context, letterType, search string) ([]model.Letter, error)

	// Stats returns the archive counters.
	Stats(ctx context.Context) (*ArchiveStats, error)

	// ClearArchive empties the archive and removes the stored documents.
	ClearArchive(ctx context.Context) error

	// Download streams a stored letter document by its synthesized file name.
	Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error)

	// ExportCSV renders the whole archive as the CSV recap.
	ExportCSV(ctx context.Context) (*ExportResult, error)
}

type letterService struct {
	extractor extract.Extractor
	store     storage.Storage
	archive   archive.Store
	settings  settings.Store
	maxBytes  int64
}

// NewLetterService constructs a LetterService.
func NewLetterService(extractor extract.Extractor, store storage.Storage, arch archive.Store, set settings.Store, maxUploadBytes int64) LetterService {
	return &letterService{
		extractor: extractor,
		store:     store,
		archive:   arch,
		settings:  set,
		maxBytes:  maxUploadBytes,
	}
}

func (s *letterService) AnalyzeMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error) {
	if size := int64(len(data)); size > s.maxBytes {
		return nil, &SizeLimitError{Size: size, Limit: s.maxBytes}
	}
	result, err := s.extractor.FromMedia(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return s.postProcess(ctx, result)
}

func (s *letterService) AnalyzeText(ctx context.Context, text string) (*model.AnalysisResult, error) {
	result, err := s.extractor.FromText(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.postProcess(ctx, result)
}

// postProcess applies the merge-point normalizations to a raw extraction:
// event datetimes truncated to minute precision and the sender rewritten
// through the configured abbreviation rules.
func (s *letterService) postProcess(ctx context.Context, result *model.AnalysisResult) (*model.AnalysisResult, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	result.EventStart = letter.TruncateToMinute(result.EventStart)
	result.EventEnd = letter.TruncateToMinute(result.EventEnd)
	result.Sender = letter.ApplyAbbreviations(result.Sender, cfg.SenderAbbreviations)
	return result, nil
}

func (s *letterService) Finalize(ctx context.Context, draft letter.Draft, file *SourceFile) (*model.Letter, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	originalName := ""
	if file != nil {
		originalName = file.Name
		if draft.MimeType == "" {
			draft.MimeType = file.ContentType
		}
	}

	rec, err := letter.Finalize(draft, cfg.SenderAbbreviations, originalName)
	if err != nil {
		return nil, err
	}

	if file != nil && file.Reader != nil && cfg.AutoUploadToDrive {
		// A failed upload must not lose the record: the letter is archived
		// either way, with the document link absent.
		key := path.Join("letters", rec.FileName)
		if _, err := s.store.Put(ctx, key, file.Reader, storage.PutObjectOptions{
			Size:        file.Size,
			ContentType: file.ContentType,
			Metadata: map[string]string{
				"original-filename": file.Name,
			},
		}); err != nil {
			logWarn("document_upload_failed", err, key)
		} else if url, err := s.store.PresignGet(ctx, key, documentURLExpiry); err != nil {
			logWarn("document_presign_failed", err, key)
		} else {
			rec.DocumentURL = url
		}
	}

	if err := s.archive.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("archive letter: %w", err)
	}
	return rec, nil
}

func (s *letterService) List(ctx context.Context, letterType, search string) ([]model.Letter, error) {
	typeFilter := model.LetterType(letterType)
	q := strings.ToLower(search)

	return s.archive.FilteredSorted(ctx, func(l model.Letter) bool {
		if letterType != "" && letterType != "all" && l.Type != typeFilter {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(l.Subject), q) ||
			strings.Contains(strings.ToLower(l.Sender), q) ||
			strings.Contains(strings.ToLower(l.Recipient), q) ||
			strings.Contains(strings.ToLower(l.ReferenceNumber), q)
	})
}

func (s *letterService) Stats(ctx context.Context) (*ArchiveStats, error) {
	letters, err := s.archive.All(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ArchiveStats{Total: len(letters)}
	for _, l := range letters {
		switch l.Type {
		case model.TypeIncoming:
			stats.Incoming++
		case model.TypeOutgoing:
			stats.Outgoing++
		}
	}
	return stats, nil
}

// ClearArchive deletes the stored documents of the archived letters before
// clearing the collection, so a bulk clear does not orphan bucket objects.
// Object removal failures are logged and do not block the clear.
func (s *letterService) ClearArchive(ctx context.Context) error {
	letters, err := s.archive.All(ctx)
	if err != nil {
		return err
	}
	for _, l := range letters {
		if l.DocumentURL == "" || l.FileName == "" {
			continue
		}
		key := path.Join("letters", l.FileName)
		if err := s.store.Delete(ctx, key); err != nil {
			logWarn("document_delete_failed", err, key)
		}
	}
	return s.archive.Clear(ctx)
}

func (s *letterService) Download(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	return s.store.Get(ctx, path.Join("letters", fileName))
}

// logWarn emits one JSON log line for a tolerated storage failure so a
// missing document link stays diagnosable.
func logWarn(event string, err error, key string) {
	entry := map[string]any{
		"ts":    time.Now().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   event,
		"key":   key,
		"error": err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

func (s *letterService) ExportCSV(ctx context.Context) (*ExportResult, error) {
	letters, err := s.archive.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(letters) == 0 {
		return nil, ErrNoData
	}

	data, err := export.MarshalCSV(letters)
	if err != nil {
		return nil, fmt.Errorf("export archive: %w", err)
	}
	return &ExportResult{
		FileName: export.FileName(time.Now()),
		Data:     data,
	}, nil
}
