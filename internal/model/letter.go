package model

import "time"

// LetterType classifies a letter as incoming or outgoing.
// The wire values match the archive's canonical Indonesian labels.
type LetterType string

const (
	TypeIncoming LetterType = "Masuk"
	TypeOutgoing LetterType = "Keluar"
)

// Valid reports whether t is one of the known letter types.
func (t LetterType) Valid() bool {
	return t == TypeIncoming || t == TypeOutgoing
}

// CustomField is one user-supplied (key, value) pair attached to a letter.
// Keys are typically seeded from the settings template; order is preserved.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SenderAbbreviation maps a full institution name to its configured short form.
type SenderAbbreviation struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

// Letter is one finalized, archived correspondence record.
// It is constructed exactly once by the assembler and never mutated afterwards.
//
// Date is the letter's nominal date (YYYY-MM-DD) and drives display ordering;
// CreatedAt is the archival timestamp and is used only for tie-breaking.
// EventStart/EventEnd are minute-precision local datetimes (YYYY-MM-DDTHH:mm).
type Letter struct {
	ID              string        `json:"id"`
	Type            LetterType    `json:"type"`
	ReferenceNumber string        `json:"referenceNumber"`
	Sender          string        `json:"sender"`
	Recipient       string        `json:"recipient"`
	Date            string        `json:"date"`
	Subject         string        `json:"subject"`
	EventStart      string        `json:"eventStart,omitempty"`
	EventEnd        string        `json:"eventEnd,omitempty"`
	Location        string        `json:"location,omitempty"`
	Summary         string        `json:"summary"`
	Content         string        `json:"content,omitempty"`
	DocumentURL     string        `json:"documentUrl,omitempty"`
	FileName        string        `json:"fileName,omitempty"`
	MimeType        string        `json:"mimeType,omitempty"`
	Tags            []string      `json:"tags"`
	CustomFields    []CustomField `json:"customFields,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// AnalysisResult is the structured output of one extraction call, as merged
// into the draft form after post-processing (sender abbreviation, minute
// truncation of event datetimes).
type AnalysisResult struct {
	Type            LetterType `json:"type"`
	ReferenceNumber string     `json:"referenceNumber"`
	Sender          string     `json:"sender"`
	Recipient       string     `json:"recipient"`
	Date            string     `json:"date"`
	Subject         string     `json:"subject"`
	EventStart      string     `json:"eventStart,omitempty"`
	EventEnd        string     `json:"eventEnd,omitempty"`
	Location        string     `json:"location,omitempty"`
	Summary         string     `json:"summary"`
	Tags            []string   `json:"tags"`
}
