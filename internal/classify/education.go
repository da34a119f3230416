// Package classify standardizes free-text education requirements into a
// small set of degree tiers.
package classify

import (
	"regexp"
	"strings"
)

const (
	Associates   = "Associate's"
	Bachelors    = "Bachelor's"
	Masters      = "Master's"
	PhD          = "PhD"
	NotSpecified = "Not specified"
)

var bachelorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bachelor`),
	regexp.MustCompile(`\bbs\b`),
	regexp.MustCompile(`\bba\b`),
	regexp.MustCompile(`\bb\.s\.`),
	regexp.MustCompile(`\bb\.a\.`),
	regexp.MustCompile(`engineering graduate`),
}

var masterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`master`),
	regexp.MustCompile(`\bms\b`),
	regexp.MustCompile(`\bma\b`),
	regexp.MustCompile(`\bm\.s\.`),
	regexp.MustCompile(`\bm\.a\.`),
	regexp.MustCompile(`\bmsc\b`),
	regexp.MustCompile(`graduate degree`),
	regexp.MustCompile(`advanced degree`),
}

var phdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`phd`),
	regexp.MustCompile(`ph\.d`),
	regexp.MustCompile(`doctorate`),
}

// StandardizeEducation maps a raw requirement string to one tier. When a
// posting lists several degrees, the lowest one wins. ok reports whether the
// input was recognized; unrecognized non-empty requirements fall back to
// NotSpecified so callers can warn about them.
func StandardizeEducation(raw string) (tier string, ok bool) {
	edu := strings.ToLower(strings.TrimSpace(raw))
	if edu == "" || edu == "not specified" {
		return NotSpecified, true
	}

	if strings.Contains(edu, "associate") {
		return Associates, true
	}
	if matchesAny(edu, bachelorPatterns) {
		return Bachelors, true
	}
	if matchesAny(edu, masterPatterns) {
		return Masters, true
	}
	if matchesAny(edu, phdPatterns) {
		return PhD, true
	}
	return NotSpecified, false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
