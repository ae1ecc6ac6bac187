package output

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// SARIFFormatter formats audit reports as SARIF 2.1.0.
type SARIFFormatter struct{}

type sarifReport struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationUri string      `json:"informationUri"`
	Version        string      `json:"version"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// ruleDescriptions maps violation kinds to their SARIF rule descriptions.
var ruleDescriptions = map[model.ViolationKind]string{
	model.ViolationSymlink:       "Symbolic link inside a template directory",
	model.ViolationTraversalName: "Entry name rejected by path policy",
	model.ViolationOutsideBase:   "Entry resolves outside its template directory",
	model.ViolationUnreadable:    "Entry could not be inspected",
}

// Format formats the report as SARIF.
func (f *SARIFFormatter) Format(report *model.Report, w io.Writer) error {
	sr := sarifReport{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "Tavnit Template Auditor",
						InformationUri: "https://tavnitforms.com",
						Version:        "1.0.0",
						Rules:          collectRules(report.Violations),
					},
				},
				Results: convertToSarifResults(report.Violations),
			},
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sr)
}

// collectRules returns one rule per violation kind present, in first-seen order.
func collectRules(violations []model.Violation) []sarifRule {
	seen := make(map[model.ViolationKind]bool)
	rules := make([]sarifRule, 0, len(ruleDescriptions))

	for _, v := range violations {
		if seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true
		rules = append(rules, sarifRule{
			ID:               string(v.Kind),
			ShortDescription: sarifMessage{Text: ruleDescriptions[v.Kind]},
		})
	}

	return rules
}

func convertToSarifResults(violations []model.Violation) []sarifResult {
	results := make([]sarifResult, 0, len(violations))

	for _, v := range violations {
		result := sarifResult{
			RuleID: string(v.Kind),
			Level:  severityToSarifLevel(v.Severity),
			Message: sarifMessage{
				Text: v.Title + ": " + v.Description,
			},
		}

		if v.Path != "" {
			result.Locations = []sarifLocation{
				{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{
							URI: filepath.ToSlash(v.Path),
						},
					},
				},
			}
		}

		results = append(results, result)
	}

	return results
}

func severityToSarifLevel(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	case model.SeverityLow, model.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
