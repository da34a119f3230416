package util

import "strings"

// StripQuery drops the query string and fragment from a posting URL. Card
// links carry tracking parameters we never want in the output file.
func StripQuery(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// JobIDFromURL pulls the numeric job id off the end of a posting URL,
// e.g. /jobs/view/staff-engineer-at-example-co-4012345678 -> "4012345678".
func JobIDFromURL(raw string) string {
	raw = strings.TrimSuffix(StripQuery(raw), "/")
	if raw == "" {
		return ""
	}
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.LastIndex(raw, "-"); i >= 0 {
		raw = raw[i+1:]
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return raw
}
