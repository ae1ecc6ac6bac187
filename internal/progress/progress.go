// Package progress provides terminal progress indicators that stay silent
// in CI environments and when explicitly disabled.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

func IsCI() bool {
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"JENKINS_URL",
		"TRAVIS",
		"BITBUCKET_BUILD_NUMBER",
		"AZURE_PIPELINES",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// NewReader wraps r with a byte-count progress bar, used while downloading
// templates from the cloud.
func NewReader(r io.Reader, size int64, description string, disabled bool) io.Reader {
	if disabled || IsCI() {
		return r
	}

	bar := progressbar.DefaultBytes(size, description)
	reader := progressbar.NewReader(r, bar)
	return &reader
}

// NewWriter tees w through a byte-count progress bar, used while exporting
// templates to the exports directory.
func NewWriter(w io.Writer, size int64, description string, disabled bool) io.Writer {
	if disabled || IsCI() {
		return w
	}

	bar := progressbar.DefaultBytes(size, description)
	return io.MultiWriter(w, bar)
}

// Counter reports progress over a known number of items, used by the store
// auditor while walking base directories.
type Counter struct {
	bar *progressbar.ProgressBar
}

// NewCounter returns a Counter over total items. A nil-receiver-safe no-op
// counter is returned when progress is disabled.
func NewCounter(total int, description string, disabled bool) *Counter {
	if disabled || IsCI() {
		return nil
	}
	return &Counter{bar: progressbar.Default(int64(total), description)}
}

// Add advances the counter by n items.
func (c *Counter) Add(n int) {
	if c == nil || c.bar == nil {
		return
	}
	_ = c.bar.Add(n) // #nosec G104 - progress rendering errors are cosmetic
}

// Finish completes and clears the bar.
func (c *Counter) Finish() {
	if c == nil || c.bar == nil {
		return
	}
	_ = c.bar.Finish() // #nosec G104 - progress rendering errors are cosmetic
}
