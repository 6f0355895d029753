// Package extract calls the generative extraction service and maps its
// response into the internal analysis shape. One outbound call per
// invocation; retry policy belongs to the caller.
package extract

import (
	"context"
	"errors"
	"fmt"

	"suratapi/internal/model"
)

// ErrEmptyResponse indicates the service answered at the transport level but
// returned no usable content, typically because the document was unreadable
// or filtered. Retryable by the caller.
var ErrEmptyResponse = errors.New("extraction service returned no content")

// ServiceError wraps a transport or response-parsing failure from the
// extraction service. Distinct from ErrEmptyResponse so callers can surface
// the two conditions differently.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("extraction %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Extractor derives structured letter metadata from a document or from raw
// text. Implementations perform exactly one network call per invocation and
// mutate no shared state; results are returned as received from the service
// (event datetimes are normalized at the merge point, not here).
type Extractor interface {
	// FromMedia analyzes inline binary content (image or PDF).
	FromMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error)
	// FromText analyzes pasted letter text.
	FromText(ctx context.Context, text string) (*model.AnalysisResult, error)
}
