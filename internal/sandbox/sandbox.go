package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/TavnitForms/tavnit-cli/internal/logger"
	"github.com/TavnitForms/tavnit-cli/internal/util"
)

// Config describes the sandbox boundary. It is copied at construction time;
// later mutation of the caller's slice has no effect on the Sanitizer.
type Config struct {
	// Bases is the allow-list of absolute base directories. Must be non-empty.
	Bases []string

	// AllowSymlinks permits resolved paths to be symbolic links.
	AllowSymlinks bool
}

// Sanitizer validates candidate paths against the configured bases. It is
// stateless after construction and safe for concurrent use.
type Sanitizer struct {
	bases         []string
	allowSymlinks bool
}

// New builds a Sanitizer from cfg. Every base must be an absolute path.
func New(cfg Config) (*Sanitizer, error) {
	if len(cfg.Bases) == 0 {
		return nil, errors.New("sandbox: at least one base directory is required")
	}
	bases := make([]string, 0, len(cfg.Bases))
	for _, b := range cfg.Bases {
		if !filepath.IsAbs(b) {
			return nil, fmt.Errorf("sandbox: base directory %q is not absolute", b)
		}
		bases = append(bases, filepath.Clean(b))
	}
	return &Sanitizer{
		bases:         bases,
		allowSymlinks: cfg.AllowSymlinks,
	}, nil
}

// Bases returns the configured base directories in cleaned form.
func (s *Sanitizer) Bases() []string {
	out := make([]string, len(s.bases))
	copy(out, s.bases)
	return out
}

// AllowSymlinks reports the configured symlink policy.
func (s *Sanitizer) AllowSymlinks() bool {
	return s.allowSymlinks
}

// driveLetterPattern matches Windows drive-qualified candidates such as
// "C:\x", "d:/x" and the drive-relative "D:file" form, either case.
var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:`)

// Sanitize resolves candidate against base and returns an absolute path
// guaranteed to be contained in base. base must be one of the configured
// allowed bases. Violations are returned as a *SecurityError carrying
// CodePathNotAllowed or CodePathTraversal.
//
// Validation runs in two independent passes: a syntactic denylist over the
// raw candidate, then a containment check on the resolved path. The second
// pass must hold even when the first one passes.
func (s *Sanitizer) Sanitize(candidate, base string) (string, error) {
	cleanBase := filepath.Clean(base)
	if !s.isAllowedBase(cleanBase) {
		return "", newSecurityError(CodePathNotAllowed, base)
	}

	if err := rejectForbiddenForm(candidate); err != nil {
		return "", err
	}

	full := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(candidate)))
	if full != cleanBase && !strings.HasPrefix(full, cleanBase+string(filepath.Separator)) {
		return "", newSecurityError(CodePathTraversal, candidate)
	}
	return full, nil
}

// CheckSymlink inspects path without following links and enforces the
// symlink policy. A non-existent path is not a violation: the eventual file
// operation surfaces its own not-found error. Stat failures other than
// not-found (for example permission denied) are logged and swallowed; the
// real access control happens at the point of file I/O.
func (s *Sanitizer) CheckSymlink(p string) error {
	info, err := os.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		logger.L().Warn("symlink check could not stat path", "path", util.RedactPath(p), "err", err)
		return nil
	}
	if info.Mode()&fs.ModeSymlink != 0 && !s.allowSymlinks {
		return newSecurityError(CodeSymlinkNotAllowed, p)
	}
	return nil
}

// Verify runs both validation steps: Sanitize followed by CheckSymlink on
// the resolved path.
func (s *Sanitizer) Verify(candidate, base string) (string, error) {
	full, err := s.Sanitize(candidate, base)
	if err != nil {
		return "", err
	}
	if err := s.CheckSymlink(full); err != nil {
		return "", err
	}
	return full, nil
}

func (s *Sanitizer) isAllowedBase(cleanBase string) bool {
	for _, b := range s.bases {
		if b == cleanBase {
			return true
		}
	}
	return false
}

// rejectForbiddenForm is the syntactic pass. It rejects candidates before
// any resolution happens: absolute paths (POSIX and backslash forms, which
// also covers \\server\share UNC prefixes), Windows drive letters, and
// candidates whose normalized form escapes upward through a leading ".."
// segment.
func rejectForbiddenForm(candidate string) error {
	normalized := strings.ReplaceAll(candidate, "\\", "/")
	if strings.HasPrefix(normalized, "/") {
		return newSecurityError(CodePathNotAllowed, candidate)
	}
	if driveLetterPattern.MatchString(candidate) {
		return newSecurityError(CodePathNotAllowed, candidate)
	}
	cleaned := path.Clean(normalized)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return newSecurityError(CodePathTraversal, candidate)
	}
	return nil
}
