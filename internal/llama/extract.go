package llama

import "strings"

// ExtractBetween returns the text strictly between the first occurrence of
// first and the next occurrence of last after it. Absent markers yield an
// empty string, not an error; callers treat empty as "nothing extracted".
func ExtractBetween(s, first, last string) string {
	start := strings.Index(s, first)
	if start < 0 {
		return ""
	}
	start += len(first)
	end := strings.Index(s[start:], last)
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}

// BetweenBackticks returns the text between the first and last backtick on
// the line, or empty when there are fewer than two.
func BetweenBackticks(s string) string {
	i := strings.Index(s, "`")
	j := strings.LastIndex(s, "`")
	if i < 0 || j <= i {
		return ""
	}
	return s[i+1 : j]
}
