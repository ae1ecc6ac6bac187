// Package util provides utility functions for the CLI.
package util

import (
	"fmt"
	"strings"
)

// maxRedactedLen bounds how much of an untrusted string may appear in an
// error message or log line.
const maxRedactedLen = 256

// RedactPath makes an untrusted path string safe for display. Control
// characters (including NUL and escape sequences) are replaced with '?' so
// a hostile candidate cannot smuggle terminal control codes into error
// output, and over-long strings are truncated with a length marker.
func RedactPath(p string) string {
	redacted := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '?'
		}
		return r
	}, p)

	if len(redacted) > maxRedactedLen {
		return fmt.Sprintf("%s...[%d bytes total]", redacted[:maxRedactedLen], len(redacted))
	}
	return redacted
}
