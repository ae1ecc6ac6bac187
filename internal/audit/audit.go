// Package audit inspects the configured base directories and reports
// entries that violate the sandbox policy.
package audit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TavnitForms/tavnit-cli/internal/logger"
	"github.com/TavnitForms/tavnit-cli/internal/model"
	"github.com/TavnitForms/tavnit-cli/internal/progress"
	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/TavnitForms/tavnit-cli/internal/util"
)

// Auditor walks base directories and collects sandbox policy violations.
type Auditor struct {
	sanitizer  *sandbox.Sanitizer
	noProgress bool
}

func New(s *sandbox.Sanitizer, noProgress bool) *Auditor {
	return &Auditor{sanitizer: s, noProgress: noProgress}
}

// Run audits every configured base directory and returns a report with a
// computed summary. A missing base is reported as UNREADABLE rather than
// failing the whole audit.
func (a *Auditor) Run() (*model.Report, error) {
	report := &model.Report{
		Bases:     a.sanitizer.Bases(),
		StartedAt: time.Now().UTC(),
	}

	for _, base := range report.Bases {
		a.auditBase(base, report)
	}

	report.EndedAt = time.Now().UTC()
	report.Summarize()
	return report, nil
}

type entry struct {
	rel     string
	path    string
	walkErr error
}

func (a *Auditor) auditBase(base string, report *model.Report) {
	matcher, err := LoadIgnorePatterns(base)
	if err != nil {
		// Ignore files are an optional refinement; audit everything when
		// they cannot be loaded.
		logger.L().Warn("could not load ignore patterns", "base", base, "err", err)
		matcher = nil
	}

	entries := a.collect(base, matcher, report)
	report.Scanned += len(entries)

	bar := progress.NewCounter(len(entries), "Auditing "+filepath.Base(base), a.noProgress)
	defer bar.Finish()

	for _, e := range entries {
		a.inspect(base, e, report)
		bar.Add(1)
	}
}

// collect gathers base-relative entries without following links. Walk
// errors become UNREADABLE violations immediately.
func (a *Auditor) collect(base string, matcher *IgnoreMatcher, report *model.Report) []entry {
	var entries []entry

	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			rel := relName(base, path)
			report.Violations = append(report.Violations, a.violation(report, model.Violation{
				Kind:        model.ViolationUnreadable,
				Severity:    model.SeverityLow,
				Title:       "Entry could not be inspected",
				Description: err.Error(),
				Base:        base,
				Path:        util.RedactPath(rel),
			}))
			return nil
		}
		if path == base {
			return nil
		}

		rel := relName(base, path)
		if d.IsDir() && shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if matcher.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		entries = append(entries, entry{rel: rel, path: path})
		return nil
	})

	if walkErr != nil {
		report.Violations = append(report.Violations, a.violation(report, model.Violation{
			Kind:        model.ViolationUnreadable,
			Severity:    model.SeverityLow,
			Title:       "Base directory could not be walked",
			Description: walkErr.Error(),
			Base:        base,
		}))
	}
	return entries
}

func (a *Auditor) inspect(base string, e entry, report *model.Report) {
	// Names that fail sanitization can never be resolved safely, whatever
	// is on disk behind them.
	if _, err := a.sanitizer.Sanitize(e.rel, base); err != nil {
		severity := model.SeverityMedium
		if sandbox.CodeOf(err) == sandbox.CodePathTraversal {
			severity = model.SeverityCritical
		}
		report.Violations = append(report.Violations, a.violation(report, model.Violation{
			Kind:        model.ViolationTraversalName,
			Severity:    severity,
			Title:       "Entry name fails sanitization",
			Description: fmt.Sprintf("name rejected with code %s", sandbox.CodeOf(err)),
			Base:        base,
			Path:        util.RedactPath(e.rel),
		}))
		return
	}

	info, err := os.Lstat(e.path)
	if err != nil {
		report.Violations = append(report.Violations, a.violation(report, model.Violation{
			Kind:        model.ViolationUnreadable,
			Severity:    model.SeverityLow,
			Title:       "Entry could not be inspected",
			Description: err.Error(),
			Base:        base,
			Path:        util.RedactPath(e.rel),
		}))
		return
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return
	}

	target, err := os.Readlink(e.path)
	if err != nil {
		target = ""
	}

	if escapes(base, e.path, target) {
		report.Violations = append(report.Violations, a.violation(report, model.Violation{
			Kind:        model.ViolationOutsideBase,
			Severity:    model.SeverityCritical,
			Title:       "Symbolic link escapes its base directory",
			Description: "link target resolves outside the sandbox boundary",
			Base:        base,
			Path:        util.RedactPath(e.rel),
			Target:      util.RedactPath(target),
		}))
		return
	}

	if !a.sanitizer.AllowSymlinks() {
		report.Violations = append(report.Violations, a.violation(report, model.Violation{
			Kind:        model.ViolationSymlink,
			Severity:    model.SeverityHigh,
			Title:       "Symbolic link in sandboxed directory",
			Description: "entry is a symbolic link and the policy forbids symlinks",
			Base:        base,
			Path:        util.RedactPath(e.rel),
			Target:      util.RedactPath(target),
		}))
	}
}

// violation assigns a stable per-report ID of the form kind-NNN.
func (a *Auditor) violation(report *model.Report, v model.Violation) model.Violation {
	n := 0
	for _, existing := range report.Violations {
		if existing.Kind == v.Kind {
			n++
		}
	}
	v.ID = fmt.Sprintf("%s-%03d", strings.ToLower(string(v.Kind)), n+1)
	return v
}

// escapes reports whether the symlink at linkPath, pointing at target,
// resolves outside base. Resolution failures count as escapes: a dangling
// link into unknown territory is not contained.
func escapes(base, linkPath, target string) bool {
	if target == "" {
		return true
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(linkPath), target)
	}
	resolved = filepath.Clean(resolved)

	cleanBase := filepath.Clean(base)
	if resolved == cleanBase || strings.HasPrefix(resolved, cleanBase+string(filepath.Separator)) {
		return false
	}

	// The lexical target may still reach back into the base through
	// intermediate links; resolve fully before giving a verdict.
	final, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return true
	}
	evalBase, err := filepath.EvalSymlinks(cleanBase)
	if err != nil {
		return true
	}
	return final != evalBase && !strings.HasPrefix(final, evalBase+string(filepath.Separator))
}

func relName(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
