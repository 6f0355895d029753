package letter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"suratapi/internal/model"
)

// DateLayout is the letter's nominal date format.
const DateLayout = "2006-01-02"

// ValidationError reports a required draft field that is missing at
// finalization. The draft is left untouched and no record is produced.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Draft holds the editable field values of a letter before finalization.
// It mirrors the review form: extraction results are merged into it and the
// user may overwrite any field by hand before submitting.
type Draft struct {
	Type            model.LetterType
	ReferenceNumber string
	Sender          string
	Recipient       string
	Date            string
	Subject         string
	EventStart      string
	EventEnd        string
	Location        string
	Summary         string
	Content         string
	DocumentURL     string
	MimeType        string
	Tags            []string
	CustomFields    []model.CustomField
}

// Finalize turns a draft into an immutable archive record:
//
//  1. sender and subject must be non-blank, otherwise a *ValidationError.
//  2. the event end falls back to start + 4 hours when absent.
//  3. the canonical filename is synthesized from the draft date, sender, and
//     reference number, re-applying the abbreviation rules here because the
//     user may have edited the sender after extraction.
//  4. a fresh ID and creation timestamp are stamped.
//  5. remaining optional fields default to their empty equivalents; the
//     reference number defaults to the "-" placeholder.
//
// Finalize is pure apart from the ID/timestamp stamping; it touches no
// storage and performs no network calls.
func Finalize(d Draft, rules []model.SenderAbbreviation, originalFileName string) (*model.Letter, error) {
	if strings.TrimSpace(d.Sender) == "" {
		return nil, &ValidationError{Field: "sender"}
	}
	if strings.TrimSpace(d.Subject) == "" {
		return nil, &ValidationError{Field: "subject"}
	}

	_, eventEnd := ResolveEventWindow(d.EventStart, d.EventEnd)

	date := d.Date
	if date == "" {
		date = time.Now().Format(DateLayout)
	}

	// The filename uses the raw reference number (NoRef default applied
	// inside synthesis); the stored record uses the "-" placeholder.
	fileName := SynthesizeFileName(date, d.Sender, d.ReferenceNumber, rules, originalFileName)

	refNumber := d.ReferenceNumber
	if refNumber == "" {
		refNumber = "-"
	}

	letterType := d.Type
	if !letterType.Valid() {
		letterType = model.TypeIncoming
	}

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	customFields := d.CustomFields
	if customFields == nil {
		customFields = []model.CustomField{}
	}

	return &model.Letter{
		ID:              uuid.NewString(),
		Type:            letterType,
		ReferenceNumber: refNumber,
		Sender:          d.Sender,
		Recipient:       d.Recipient,
		Date:            date,
		Subject:         d.Subject,
		EventStart:      d.EventStart,
		EventEnd:        eventEnd,
		Location:        d.Location,
		Summary:         d.Summary,
		Content:         d.Content,
		DocumentURL:     d.DocumentURL,
		FileName:        fileName,
		MimeType:        d.MimeType,
		Tags:            tags,
		CustomFields:    customFields,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
