package letter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"suratapi/internal/model"
)

const (
	defaultSenderPart = "NoSender"
	defaultRefPart    = "NoRef"
	defaultExtension  = "pdf"
)

var (
	senderStripRe   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	refUnsafeRe     = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// SynthesizeFileName derives the canonical archive filename
// {YEAR}_{SENDER}_{REF}.{EXT} for a letter:
//
//   - YEAR: leading year segment of the letter date; current year when the
//     date is absent.
//   - SENDER: the configured short form when the sender exactly matches a
//     full abbreviation (case-insensitive), otherwise the sender as given;
//     "NoSender" when empty. Stripped of everything but letters, digits, and
//     whitespace, with whitespace runs collapsed to single underscores.
//   - REF: the reference number with filesystem-reserved characters replaced
//     by underscores; "NoRef" when empty.
//   - EXT: extension of the originally uploaded file; "pdf" when no file or
//     no extension.
//
// The function is pure: identical inputs always yield the identical name,
// which keeps record and stored document traceable to each other.
func SynthesizeFileName(date, sender, referenceNumber string, rules []model.SenderAbbreviation, originalFileName string) string {
	year := fmt.Sprintf("%d", time.Now().Year())
	if i := strings.Index(date, "-"); i > 0 {
		year = date[:i]
	} else if date != "" {
		year = date
	}

	senderPart := sender
	if senderPart == "" {
		senderPart = defaultSenderPart
	}
	senderPart = shortFormFor(senderPart, rules)
	senderPart = senderStripRe.ReplaceAllString(senderPart, "")
	senderPart = whitespaceRunRe.ReplaceAllString(senderPart, "_")

	refPart := referenceNumber
	if refPart == "" {
		refPart = defaultRefPart
	}
	refPart = refUnsafeRe.ReplaceAllString(refPart, "_")

	ext := defaultExtension
	if i := strings.LastIndex(originalFileName, "."); i >= 0 && i+1 < len(originalFileName) {
		ext = originalFileName[i+1:]
	}

	return fmt.Sprintf("%s_%s_%s.%s", year, senderPart, refPart, ext)
}
