package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

func jsonFlags(flags []string) []string {
	out := make([]string, len(flags))
	copy(out, flags)
	for i, f := range out {
		if f == "human" {
			out[i] = "json"
		}
	}
	return out
}

func TestAuditCommand_CleanVault(t *testing.T) {
	tdir, _, flags := vaultArgs(t)
	if err := os.WriteFile(filepath.Join(tdir, "contract.pdf"), []byte("pdf"), 0o600); err != nil {
		t.Fatal(err)
	}

	var execErr error
	stdout := captureStdout(t, func() {
		_, execErr = executeCommand(t, append([]string{"audit"}, jsonFlags(flags)...)...)
	})
	if execErr != nil {
		t.Fatalf("audit failed: %v", execErr)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("audit output is not valid JSON: %v (output %q)", err, stdout)
	}
	if len(report.Violations) != 0 {
		t.Errorf("expected clean report, got %d violations", len(report.Violations))
	}
	if report.Scanned != 1 {
		t.Errorf("expected 1 scanned entry, got %d", report.Scanned)
	}
}

func TestAuditCommand_SymlinkViolation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	tdir, _, flags := vaultArgs(t)
	target := filepath.Join(tdir, "real.pdf")
	if err := os.WriteFile(target, []byte("pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	// In-base symlink: HIGH severity, below the default CRITICAL fail-on
	if err := os.Symlink(target, filepath.Join(tdir, "link.pdf")); err != nil {
		t.Fatal(err)
	}

	var execErr error
	stdout := captureStdout(t, func() {
		_, execErr = executeCommand(t, append([]string{"audit"}, jsonFlags(flags)...)...)
	})
	if execErr != nil {
		t.Fatalf("audit failed: %v", execErr)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("audit output is not valid JSON: %v", err)
	}
	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(report.Violations))
	}
	if report.Violations[0].Kind != model.ViolationSymlink {
		t.Errorf("expected symlink violation, got %s", report.Violations[0].Kind)
	}
}

func TestAuditCommand_ExplicitDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, flags := vaultArgs(t)

	var execErr error
	stdout := captureStdout(t, func() {
		_, execErr = executeCommand(t, append([]string{"audit", dir}, jsonFlags(flags)...)...)
	})
	if execErr != nil {
		t.Fatalf("audit failed: %v", execErr)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("audit output is not valid JSON: %v", err)
	}
	if len(report.Bases) != 1 || report.Bases[0] != dir {
		t.Errorf("expected audited base %q, got %v", dir, report.Bases)
	}
}
