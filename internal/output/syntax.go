// Package output provides formatters for audit reports.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/TavnitForms/tavnit-cli/internal/cli"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// GetLexer returns the appropriate chroma lexer for a filename.
// Template sources are JSON documents; falls back to plaintext if the
// language cannot be detected.
func GetLexer(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	// Coalesce merges adjacent tokens of the same type for cleaner output
	return chroma.Coalesce(lexer)
}

// GetChromaStyle returns the chroma style based on terminal theme settings.
// Returns nil when colors are disabled.
func GetChromaStyle() *chroma.Style {
	if !cli.ColorsEnabled() {
		return nil
	}
	if lipgloss.HasDarkBackground() {
		return styles.Get("monokai")
	}
	return styles.Get("github")
}

// HighlightCode tokenizes and highlights code, returning lines with ANSI formatting.
// Returns plain lines if colors are disabled or highlighting fails.
func HighlightCode(code, filename string) []string {
	style := GetChromaStyle()
	if style == nil {
		return strings.Split(code, "\n")
	}

	lexer := GetLexer(filename)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return strings.Split(code, "\n")
	}

	formatter := getTerminalFormatter()

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return strings.Split(code, "\n")
	}

	return strings.Split(buf.String(), "\n")
}

// RenderSource writes highlighted source with line numbers, for `template show`.
func RenderSource(w io.Writer, code, filename string) error {
	st := GetStyles()
	lines := HighlightCode(code, filename)

	// Drop a single trailing empty line from a trailing newline in the source
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for i, line := range lines {
		num := st.CodeLineNumber.Render(fmt.Sprintf("%d", i+1))
		if _, err := fmt.Fprintf(w, "%s  %s\n", num, line); err != nil {
			return err
		}
	}
	return nil
}

// getTerminalFormatter returns the appropriate chroma formatter for terminal color depth.
func getTerminalFormatter() chroma.Formatter {
	profile := lipgloss.ColorProfile()
	switch profile {
	case termenv.TrueColor:
		return formatters.Get("terminal16m")
	case termenv.ANSI256:
		return formatters.Get("terminal256")
	default:
		return formatters.Get("terminal")
	}
}
