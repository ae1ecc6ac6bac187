package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/TavnitForms/tavnit-cli/internal/model"
	"github.com/TavnitForms/tavnit-cli/internal/util"
	"github.com/mattn/go-runewidth"
)

// HumanFormatter formats audit reports for terminal display.
type HumanFormatter struct{}

var severityRank = map[model.Severity]int{
	model.SeverityCritical: 0,
	model.SeverityHigh:     1,
	model.SeverityMedium:   2,
	model.SeverityLow:      3,
	model.SeverityInfo:     4,
}

var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityInfo,
}

// Format renders the report with section headers, a summary dashboard and
// one block per violation, ordered by severity.
func (f *HumanFormatter) Format(report *model.Report, w io.Writer) error {
	styles := GetStyles()
	width := TerminalWidth()

	fmt.Fprintf(w, "\n%s\n", styles.HeaderBanner.Render(centerText("TAVNIT TEMPLATE AUDIT", width)))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("═", width))

	for _, base := range report.Bases {
		fmt.Fprintf(w, "  %s %s\n", styles.MutedText.Render("Base:"), styles.LocationFg.Render(base))
	}
	fmt.Fprintf(w, "  %s %s\n", styles.MutedText.Render("Scanned:"), styles.Bold.Render(fmt.Sprintf("%d entries", report.Scanned)))
	if !report.StartedAt.IsZero() && !report.EndedAt.IsZero() {
		elapsed := report.EndedAt.Sub(report.StartedAt).Round(10 * time.Millisecond)
		fmt.Fprintf(w, "  %s %s\n", styles.MutedText.Render("Duration:"), styles.Duration.Render(elapsed.String()))
	}
	fmt.Fprintf(w, "\n")

	f.renderSummary(report, w, styles)

	if len(report.Violations) == 0 {
		fmt.Fprintf(w, "\n%s\n\n", styles.SuccessText.Render(IconSuccess+" No policy violations found"))
		return nil
	}

	fmt.Fprintf(w, "\n%s\n", styles.SectionTitle.Render("  VIOLATIONS"))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("─", width))

	for _, v := range sortViolations(report.Violations) {
		f.renderViolation(v, w, styles)
	}

	fmt.Fprintf(w, "%s\n\n", strings.Repeat("═", width))
	return nil
}

// renderSummary draws the per-severity count dashboard.
func (f *HumanFormatter) renderSummary(report *model.Report, w io.Writer, styles *Styles) {
	var lines []string
	lines = append(lines, styles.SubsectionTitle.Render("SUMMARY"))

	for _, sev := range severityOrder {
		count := report.Summary.BySeverity[sev]
		if count == 0 {
			continue
		}
		dot := styles.GetSeverityText(sev).Render(SeverityDot)
		label := padRight(string(sev), 10)
		lines = append(lines, fmt.Sprintf("%s %s %d", dot, label, count))
	}

	if report.Summary.Total == 0 {
		lines = append(lines, styles.MutedText.Render("no violations"))
	}

	fmt.Fprintln(w, styles.SummaryBox.Render(strings.Join(lines, "\n")))
}

func (f *HumanFormatter) renderViolation(v model.Violation, w io.Writer, styles *Styles) {
	badge := styles.GetSeverityBadge(v.Severity).Render(string(v.Severity))
	fmt.Fprintf(w, "  %s %s %s\n", badge, styles.ViolationHeader.Render(v.Title), styles.MutedText.Render("("+v.ID+")"))
	fmt.Fprintf(w, "    %s %s\n", styles.MutedText.Render("Kind:"), util.FormatKind(string(v.Kind)))
	fmt.Fprintf(w, "    %s %s\n", styles.MutedText.Render("Path:"), styles.LocationFg.Render(v.Path))
	if v.Target != "" {
		fmt.Fprintf(w, "    %s %s\n", styles.MutedText.Render("Target:"), v.Target)
	}
	if v.Description != "" {
		fmt.Fprintf(w, "    %s\n", wrapText(v.Description, DefaultWrapWidth, "    "))
	}
	fmt.Fprintf(w, "\n")
}

// sortViolations returns a copy ordered by severity, most severe first.
// Ties keep report order, which groups violations by base.
func sortViolations(violations []model.Violation) []model.Violation {
	sorted := make([]model.Violation, len(violations))
	copy(sorted, violations)

	sort.SliceStable(sorted, func(i, j int) bool {
		rankI, okI := severityRank[sorted[i].Severity]
		rankJ, okJ := severityRank[sorted[j].Severity]
		if !okI {
			rankI = 999
		}
		if !okJ {
			rankJ = 999
		}
		return rankI < rankJ
	})

	return sorted
}

// padRight pads s with spaces to the given display width.
// Uses runewidth so double-width characters align correctly.
func padRight(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// centerText centers s within the given display width.
func centerText(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap/2) + s
}

// wrapText wraps text at the given width, indenting continuation lines.
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		wordLen := runewidth.StringWidth(word)
		if lineLen > 0 && lineLen+1+wordLen > width {
			b.WriteString("\n")
			b.WriteString(indent)
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += wordLen
	}
	return b.String()
}
