// Package cli provides CLI utilities including colored output with TTY detection.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode represents the color output strategy.
type ColorMode string

const (
	ColorModeAuto   ColorMode = "auto"
	ColorModeAlways ColorMode = "always"
	ColorModeNever  ColorMode = "never"
)

var (
	colorsEnabled = true
	colorsForced  = false

	errorLabelStyle   lipgloss.Style
	warningLabelStyle lipgloss.Style
	contextStyle      lipgloss.Style
)

// InitColors resolves the final color state based on the --color flag value,
// the NO_COLOR env var, and TTY detection. This should be called after flag parsing.
//
// Precedence:
//  1. --color=always -> colors ON (overrides everything, including NO_COLOR)
//  2. --color=never  -> colors OFF
//  3. NO_COLOR env   -> colors OFF (takes precedence over auto)
//  4. TERM=dumb      -> colors OFF
//  5. --color=auto   -> detect TTY on stderr
func InitColors(mode ColorMode) {
	switch mode {
	case ColorModeAlways:
		enableColors(true)
	case ColorModeNever:
		disableColors()
	case ColorModeAuto:
		if os.Getenv("NO_COLOR") != "" {
			disableColors()
			return
		}
		if strings.Contains(strings.ToLower(os.Getenv("TERM")), "dumb") {
			disableColors()
			return
		}
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			disableColors()
			return
		}
		enableColors(false)
	}
}

// ColorsEnabled returns whether colors are currently enabled.
func ColorsEnabled() bool {
	return colorsEnabled
}

// ColorsForced returns whether colors were forced on via --color=always.
func ColorsForced() bool {
	return colorsForced
}

func enableColors(forced bool) {
	colorsEnabled = true
	colorsForced = forced
	errorLabelStyle = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
	warningLabelStyle = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"})
	contextStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"})
	if forced {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

func disableColors() {
	colorsEnabled = false
	colorsForced = false
	errorLabelStyle = lipgloss.NewStyle()
	warningLabelStyle = lipgloss.NewStyle()
	contextStyle = lipgloss.NewStyle()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// parseErrorMessage splits an error string into a human reason and its
// surrounding context. API errors often end with a JSON body like
// {"detail":"Invalid authentication token"}; when present, the detail
// becomes the reason and the prefix becomes the context line.
func parseErrorMessage(msg string) (reason, context string) {
	idx := strings.LastIndex(msg, `{"`)
	if idx < 0 {
		return msg, ""
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(msg[idx:]), &body); err != nil || body.Detail == "" {
		return msg, ""
	}

	context = strings.TrimSuffix(strings.TrimSpace(msg[:idx]), ":")
	return body.Detail, context
}

// PrintError writes a colored error message to stderr.
// Format: "Error: <reason>\n" with an optional dimmed context line.
func PrintError(msg string) {
	reason, context := parseErrorMessage(msg)
	fmt.Fprintf(os.Stderr, "%s %s\n", errorLabelStyle.Render("Error:"), reason)
	if context != "" {
		fmt.Fprintf(os.Stderr, "%s\n", contextStyle.Render("  ("+context+")"))
	}
}

// PrintErrorf is like PrintError but with fmt.Sprintf formatting.
func PrintErrorf(format string, args ...interface{}) {
	PrintError(fmt.Sprintf(format, args...))
}

// PrintWarning writes a colored warning message to stderr.
// Format: "Warning: <message>\n"
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningLabelStyle.Render("Warning:"), msg)
}

// PrintWarningf is like PrintWarning but with fmt.Sprintf formatting.
func PrintWarningf(format string, args ...interface{}) {
	PrintWarning(fmt.Sprintf(format, args...))
}

func init() {
	enableColors(false)
}
