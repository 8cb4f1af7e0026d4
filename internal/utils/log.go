package utils

import "strings"

// DefaultLogPreview is the rune budget for prompt and response previews.
const DefaultLogPreview = 200

// TruncateForLog flattens s onto one line and shortens it to limit runes,
// appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
