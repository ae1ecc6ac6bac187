package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/cli"
	"github.com/TavnitForms/tavnit-cli/internal/model"
)

func TestHumanFormatter_Format(t *testing.T) {
	cli.InitColors(cli.ColorModeNever)
	SyncStylesWithColorMode()

	formatter := &HumanFormatter{}
	report := sampleReport()

	var buf bytes.Buffer
	if err := formatter.Format(report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "TAVNIT TEMPLATE AUDIT") {
		t.Error("expected banner in output")
	}
	if !strings.Contains(out, "/srv/tavnit/templates") {
		t.Error("expected base path in output")
	}
	if !strings.Contains(out, "12 entries") {
		t.Error("expected scanned count in output")
	}
	if !strings.Contains(out, "VIOLATIONS") {
		t.Error("expected violations section")
	}
	for _, want := range []string{"symlink-001", "outside-base-001", "unreadable-001"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected violation %s in output", want)
		}
	}

	// CRITICAL violation should render before the HIGH one
	criticalIdx := strings.Index(out, "outside-base-001")
	highIdx := strings.Index(out, "symlink-001")
	if criticalIdx < 0 || highIdx < 0 || criticalIdx > highIdx {
		t.Error("expected CRITICAL violation before HIGH violation")
	}
}

func TestHumanFormatter_CleanReport(t *testing.T) {
	cli.InitColors(cli.ColorModeNever)
	SyncStylesWithColorMode()

	formatter := &HumanFormatter{}
	report := &model.Report{
		Bases:   []string{"/srv/tavnit/templates"},
		Scanned: 4,
	}
	report.Summarize()

	var buf bytes.Buffer
	if err := formatter.Format(report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "No policy violations found") {
		t.Error("expected clean report message")
	}
	if strings.Contains(out, "VIOLATIONS") {
		t.Error("clean report should not render a violations section")
	}
}

func TestSortViolations(t *testing.T) {
	violations := []model.Violation{
		{ID: "a", Severity: model.SeverityLow},
		{ID: "b", Severity: model.SeverityCritical},
		{ID: "c", Severity: model.SeverityHigh},
		{ID: "d", Severity: model.SeverityCritical},
	}

	sorted := sortViolations(violations)

	wantOrder := []string{"b", "d", "c", "a"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, sorted[i].ID, want)
		}
	}

	// Input must not be mutated
	if violations[0].ID != "a" {
		t.Error("sortViolations mutated its input")
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"HIGH", 8, "HIGH    "},
		{"CRITICAL", 8, "CRITICAL"},
		{"TOOLONGVALUE", 4, "TOOLONGVALUE"},
	}

	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 10, "  ")
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", got)
	}
	for i, line := range lines[1:] {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("continuation line %d missing indent: %q", i+1, line)
		}
	}
}
