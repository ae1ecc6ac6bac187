package output

import (
	"encoding/json"
	"io"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// JSONFormatter formats audit reports as JSON.
type JSONFormatter struct{}

// Format formats the report as indented JSON.
func (f *JSONFormatter) Format(report *model.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
