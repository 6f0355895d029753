// Package letter contains the pure intake pipeline: sender normalization,
// event-time resolution, filename synthesis, and draft finalization.
// Nothing in this package performs I/O.
package letter

import (
	"regexp"
	"strings"

	"suratapi/internal/model"
)

// ApplyAbbreviations rewrites sender by replacing every case-insensitive
// occurrence of each rule's full name with its short form. Full names are
// matched as literal substrings, so punctuation in configured names (e.g.
// "PT. Teknologi Maju") matches exactly. Rules apply sequentially in list
// order; the output of an earlier rule is visible to later ones. Rules with
// an empty full or short value are skipped.
func ApplyAbbreviations(sender string, rules []model.SenderAbbreviation) string {
	out := sender
	for _, rule := range rules {
		if rule.Full == "" || rule.Short == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(rule.Full))
		out = re.ReplaceAllLiteralString(out, rule.Short)
	}
	return out
}

// shortFormFor returns the short form for a sender that exactly matches a
// configured full name (case-insensitive), or the sender unchanged. Used by
// filename synthesis, where only whole-name matches are abbreviated.
func shortFormFor(sender string, rules []model.SenderAbbreviation) string {
	for _, rule := range rules {
		if strings.EqualFold(rule.Full, sender) {
			return rule.Short
		}
	}
	return sender
}
