package audit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher matches store entries against ignore patterns.
type IgnoreMatcher struct {
	patterns []gitignore.Pattern
}

// LoadIgnorePatterns loads ignore patterns from .tavnitignore files found
// under the base directory. Patterns in nested files apply relative to the
// directory that contains them.
func LoadIgnorePatterns(base string) (*IgnoreMatcher, error) {
	var allPatterns []gitignore.Pattern

	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && shouldSkipDir(info.Name()) {
			return filepath.SkipDir
		}

		if !info.IsDir() && info.Name() == ".tavnitignore" {
			patterns, err := loadIgnoreFile(path, base)
			if err != nil {
				return err
			}
			allPatterns = append(allPatterns, patterns...)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &IgnoreMatcher{patterns: allPatterns}, nil
}

func loadIgnoreFile(ignoreFilePath, base string) ([]gitignore.Pattern, error) {
	data, err := os.ReadFile(ignoreFilePath) // #nosec G304 - ignore file path is constructed internally
	if err != nil {
		return nil, err
	}

	ignoreDir := filepath.Dir(ignoreFilePath)
	relDir, err := filepath.Rel(base, ignoreDir)
	if err != nil {
		return nil, err
	}

	var domain []string
	if relDir != "." {
		domain = strings.Split(relDir, string(filepath.Separator))
	}

	lines := strings.Split(string(data), "\n")
	patterns := make([]gitignore.Pattern, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}

	return patterns, nil
}

// Match returns true if the base-relative path matches any ignore pattern.
func (m *IgnoreMatcher) Match(relPath string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	normalizedPath := filepath.FromSlash(relPath)
	pathParts := strings.Split(normalizedPath, string(filepath.Separator))

	matcher := gitignore.NewMatcher(m.patterns)
	return matcher.Match(pathParts, isDir)
}

func shouldSkipDir(name string) bool {
	skipDirs := []string{
		".git", ".svn", ".hg",
	}
	for _, dir := range skipDirs {
		if name == dir {
			return true
		}
	}
	return false
}
