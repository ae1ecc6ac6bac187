// Package output provides formatters for audit reports.
package output

// Severity indicator - Unicode dot with color applied via lipgloss styling
// This provides consistent rendering across terminals and respects --color=never
const (
	// SeverityDot is the universal severity indicator
	// Color is applied via GetSeverityText() styling
	SeverityDot = "●"
)

// Status icons
const (
	IconSuccess  = "✓"
	IconPointer  = "►"
	IconTemplate = "📄" // template entries, also used for pull notifications
)
