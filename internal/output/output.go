package output

import (
	"fmt"
	"io"
	"os"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// Formatter renders an audit report to a writer.
type Formatter interface {
	Format(report *model.Report, w io.Writer) error
}

// GetFormatter returns the formatter for the given --format value.
func GetFormatter(format string) (Formatter, error) {
	switch format {
	case "human":
		return &HumanFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "junit":
		return &JUnitFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ShouldFail reports whether the report contains a violation whose severity
// is listed in failOnSeverities.
func ShouldFail(report *model.Report, failOnSeverities []string) bool {
	severityMap := make(map[string]bool)
	for _, sev := range failOnSeverities {
		severityMap[sev] = true
	}

	for _, v := range report.Violations {
		if severityMap[string(v.Severity)] {
			return true
		}
	}

	return false
}

// ExitIfNeeded terminates the process with exitCode when ShouldFail is true.
func ExitIfNeeded(report *model.Report, failOnSeverities []string, exitCode int) {
	if ShouldFail(report, failOnSeverities) {
		os.Exit(exitCode)
	}
}
