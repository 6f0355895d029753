// Package export serializes the archive to the fixed-column CSV recap.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"suratapi/internal/model"
)

// headers is the fixed column order of the recap export.
var headers = []string{
	"ID", "Jenis", "No. Surat", "Tanggal", "Pengirim", "Penerima", "Perihal",
	"Awal Acara", "Akhir Acara", "Tempat/Lokasi", "Ringkasan", "Tags", "Link Dokumen",
	"Data Custom (JSON)",
}

// FileName returns the export filename for the given date:
// rekap_surat_{YYYY-MM-DD}.csv.
func FileName(now time.Time) string {
	return fmt.Sprintf("rekap_surat_%s.csv", now.Format("2006-01-02"))
}

// MarshalCSV renders the letters as the recap table. Every field is
// double-quoted; embedded quotes are doubled; newlines inside free text are
// collapsed to spaces; tags are joined with ", "; custom fields are emitted
// as a JSON array.
func MarshalCSV(letters []model.Letter) ([]byte, error) {
	var b strings.Builder

	for i, h := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(h))
	}

	for _, l := range letters {
		customFields := l.CustomFields
		if customFields == nil {
			customFields = []model.CustomField{}
		}
		customJSON, err := json.Marshal(customFields)
		if err != nil {
			return nil, fmt.Errorf("marshal custom fields for %s: %w", l.ID, err)
		}

		row := []string{
			l.ID,
			string(l.Type),
			l.ReferenceNumber,
			l.Date,
			l.Sender,
			l.Recipient,
			l.Subject,
			l.EventStart,
			l.EventEnd,
			l.Location,
			l.Summary,
			strings.Join(l.Tags, ", "),
			l.DocumentURL,
			string(customJSON),
		}

		b.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(field))
		}
	}

	return []byte(b.String()), nil
}

func quote(field string) string {
	field = strings.ReplaceAll(field, "\r\n", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	field = strings.ReplaceAll(field, "\r", " ")
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
