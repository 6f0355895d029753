package letter

import "time"

// EventTimeLayout is the minute-precision local datetime format used for
// event windows throughout the archive (the HTML datetime-local shape).
const EventTimeLayout = "2006-01-02T15:04"

// eventEndFallback is applied when a letter mentions a start time but no end.
const eventEndFallback = 4 * time.Hour

// ResolveEventWindow derives a concrete event window from an optional start
// and end:
//
//   - start absent: both stay absent.
//   - start and end present: both pass through unchanged.
//   - start present, end absent: end becomes start + 4 hours, computed on the
//     wall-clock value and re-expressed in the same local layout. No timezone
//     conversion is involved.
//
// An unparseable start is passed through untouched together with end; the
// caller validates datetimes before finalization.
func ResolveEventWindow(start, end string) (string, string) {
	if start == "" {
		return "", ""
	}
	if end != "" {
		return start, end
	}
	t, err := time.ParseInLocation(EventTimeLayout, TruncateToMinute(start), time.Local)
	if err != nil {
		return start, end
	}
	return start, t.Add(eventEndFallback).Format(EventTimeLayout)
}

// TruncateToMinute cuts a datetime string down to minute precision
// (YYYY-MM-DDTHH:mm). Extraction results may carry seconds or more; the
// archive stores minutes only.
func TruncateToMinute(s string) string {
	if len(s) > len(EventTimeLayout) {
		return s[:len(EventTimeLayout)]
	}
	return s
}
