// Package store manages form templates on disk. Every user-influenced name
// passes through the sandbox before it touches the filesystem.
package store

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/TavnitForms/tavnit-cli/internal/logger"
	"github.com/TavnitForms/tavnit-cli/internal/model"
	"github.com/TavnitForms/tavnit-cli/internal/progress"
	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/TavnitForms/tavnit-cli/internal/util"
)

// Store reads and writes templates inside a sandboxed templates directory
// and copies exports into a sandboxed exports directory.
type Store struct {
	sanitizer  *sandbox.Sanitizer
	templates  string
	exports    string
	noProgress bool
}

// New builds a store over the sanitizer's configured directories. Both
// directories must be present in the sanitizer's allow-list.
func New(s *sandbox.Sanitizer, templatesDir, exportsDir string, noProgress bool) (*Store, error) {
	if _, err := s.Sanitize("", templatesDir); err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if _, err := s.Sanitize("", exportsDir); err != nil {
		return nil, fmt.Errorf("exports directory: %w", err)
	}
	return &Store{
		sanitizer:  s,
		templates:  templatesDir,
		exports:    exportsDir,
		noProgress: noProgress,
	}, nil
}

// TemplatesDir returns the sandboxed templates base.
func (st *Store) TemplatesDir() string {
	return st.templates
}

// Resolve maps a template name to its absolute on-disk location without
// touching the filesystem.
func (st *Store) Resolve(name string) (string, error) {
	return st.sanitizer.Sanitize(name, st.templates)
}

// Read returns the content of a stored template.
func (st *Store) Read(name string) ([]byte, error) {
	p, err := st.sanitizer.Verify(name, st.templates)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p) // #nosec G304 - path is sandboxed above
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", util.RedactPath(name), err)
	}
	return data, nil
}

// Write stores template content under name, creating parent directories
// inside the base as needed.
func (st *Store) Write(name string, data []byte) error {
	p, err := st.sanitizer.Verify(name, st.templates)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating template directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("writing template %s: %w", util.RedactPath(name), err)
	}
	return nil
}

// Remove deletes a stored template.
func (st *Store) Remove(name string) error {
	p, err := st.sanitizer.Verify(name, st.templates)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("removing template %s: %w", util.RedactPath(name), err)
	}
	return nil
}

// List walks the templates base and returns the stored templates sorted by
// name. Entries that violate the sandbox policy (for example symlinks under
// a no-symlink policy) are skipped with a warning rather than failing the
// whole listing.
func (st *Store) List() ([]model.TemplateEntry, error) {
	var entries []model.TemplateEntry

	err := filepath.WalkDir(st.templates, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == st.templates {
				return err
			}
			logger.L().Warn("skipping unreadable entry", "path", util.RedactPath(path), "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(st.templates, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if _, verr := st.sanitizer.Verify(name, st.templates); verr != nil {
			logger.L().Warn("skipping entry that violates sandbox policy",
				"name", util.RedactPath(name), "code", sandbox.CodeOf(verr))
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.L().Warn("skipping entry without metadata", "name", util.RedactPath(name), "err", err)
			return nil
		}
		entries = append(entries, model.TemplateEntry{
			Name:     name,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Export copies a stored template into the exports base under destName and
// returns the destination path. Large copies show a progress bar.
func (st *Store) Export(name, destName string) (string, error) {
	src, err := st.sanitizer.Verify(name, st.templates)
	if err != nil {
		return "", err
	}
	dst, err := st.sanitizer.Verify(destName, st.exports)
	if err != nil {
		return "", err
	}

	in, err := os.Open(src) // #nosec G304 - path is sandboxed above
	if err != nil {
		return "", fmt.Errorf("opening template %s: %w", util.RedactPath(name), err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("stat template %s: %w", util.RedactPath(name), err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	out, err := os.Create(dst) // #nosec G304 - path is sandboxed above
	if err != nil {
		return "", fmt.Errorf("creating export %s: %w", util.RedactPath(destName), err)
	}

	w := progress.NewWriter(out, info.Size(), "Exporting "+name, st.noProgress)
	_, copyErr := io.Copy(w, in)
	closeErr := out.Close()
	if copyErr != nil {
		return "", fmt.Errorf("exporting template %s: %w", util.RedactPath(name), copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("finalizing export %s: %w", util.RedactPath(destName), closeErr)
	}
	return dst, nil
}
