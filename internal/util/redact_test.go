package util_test

import (
	"strings"
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/util"
)

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain path unchanged",
			input:    "employment/contract.pdf",
			expected: "employment/contract.pdf",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "escape sequence replaced",
			input:    "evil\x1b[2Jname",
			expected: "evil?[2Jname",
		},
		{
			name:     "nul byte replaced",
			input:    "file\x00.pdf",
			expected: "file?.pdf",
		},
		{
			name:     "newline and tab replaced",
			input:    "a\nb\tc",
			expected: "a?b?c",
		},
		{
			name:     "del character replaced",
			input:    "x\x7fy",
			expected: "x?y",
		},
		{
			name:     "non-ascii preserved",
			input:    "תבניות/חוזה.pdf",
			expected: "תבניות/חוזה.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := util.RedactPath(tt.input)
			if result != tt.expected {
				t.Errorf("util.RedactPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRedactPathTruncation(t *testing.T) {
	input := strings.Repeat("a", 1000)
	result := util.RedactPath(input)

	if !strings.HasPrefix(result, strings.Repeat("a", 256)) {
		t.Errorf("util.RedactPath truncated output does not start with original prefix")
	}
	if !strings.Contains(result, "[1000 bytes total]") {
		t.Errorf("util.RedactPath truncated output missing length marker: %q", result)
	}
	if len(result) > 300 {
		t.Errorf("util.RedactPath truncated output too long: %d bytes", len(result))
	}
}
