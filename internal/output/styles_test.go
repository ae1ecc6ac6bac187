package output

import (
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

func TestGetSeverityText(t *testing.T) {
	styles := DefaultStyles()

	tests := []struct {
		name     string
		severity model.Severity
	}{
		{name: "critical", severity: model.SeverityCritical},
		{name: "high", severity: model.SeverityHigh},
		{name: "medium", severity: model.SeverityMedium},
		{name: "low", severity: model.SeverityLow},
		{name: "info", severity: model.SeverityInfo},
		{name: "unknown severity", severity: model.Severity("UNKNOWN")},
		{name: "empty severity", severity: model.Severity("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := styles.GetSeverityText(tt.severity)
			// Style should never be zero value
			if style.Render("test") == "" {
				t.Errorf("GetSeverityText(%q) rendered empty string", tt.severity)
			}
		})
	}
}

func TestGetSeverityBadge_UnknownFallsBackToInfo(t *testing.T) {
	styles := DefaultStyles()
	unknown := styles.GetSeverityBadge(model.Severity("UNKNOWN"))
	info := styles.GetSeverityBadge(model.SeverityInfo)
	if unknown.Render("x") != info.Render("x") {
		t.Error("unknown severity badge should fall back to the info badge")
	}
}

func TestNoColorStyles_RenderPlain(t *testing.T) {
	styles := NoColorStyles()
	if got := styles.CriticalBadge.Render("CRITICAL"); got != "CRITICAL" {
		t.Errorf("expected plain render, got %q", got)
	}
	if got := styles.GetSeverityText(model.SeverityHigh).Render("HIGH"); got != "HIGH" {
		t.Errorf("expected plain render, got %q", got)
	}
}

func TestTerminalWidth_Bounds(t *testing.T) {
	// Under go test stderr is not a TTY, so the fallback applies
	w := TerminalWidth()
	if w < MinBoxWidth || w > MaxBoxWidth {
		t.Errorf("TerminalWidth() = %d, want between %d and %d", w, MinBoxWidth, MaxBoxWidth)
	}
}
