package util

import "strings"

// FormatKind converts a SCREAMING_SNAKE_CASE code like "SYMLINK_NOT_ALLOWED"
// to a human-readable "Symlink Not Allowed" format.
func FormatKind(kind string) string {
	if kind == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(kind), "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
