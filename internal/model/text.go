package model

import "strings"

// NormalizeWS collapses all runs of whitespace to single spaces and trims
// the result. Claim identity (the dedupe key) is defined over
// whitespace-normalized text, so this lives with the data model.
func NormalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate normalizes whitespace and bounds s to maxLen runes, appending an
// ellipsis when text was cut. maxLen <= 0 disables truncation. Rune-based so
// CJK disclosure text is never split mid-character.
func Truncate(s string, maxLen int) string {
	s = NormalizeWS(s)
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
