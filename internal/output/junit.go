package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// JUnitFormatter formats audit reports as JUnit XML, for CI systems that
// surface test results but not SARIF.
type JUnitFormatter struct{}

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// defaultFailOnSeverities is used when no fail-on severities are specified
var defaultFailOnSeverities = []string{string(model.SeverityCritical), string(model.SeverityHigh)}

// Format formats the report as JUnit XML.
// Uses default failure severities (CRITICAL, HIGH).
func (f *JUnitFormatter) Format(report *model.Report, w io.Writer) error {
	return f.FormatWithSeverities(report, w, defaultFailOnSeverities)
}

// FormatWithSeverities formats the report as JUnit XML, marking violations
// whose severity appears in failOnSeverities as test failures.
func (f *JUnitFormatter) FormatWithSeverities(report *model.Report, w io.Writer, failOnSeverities []string) error {
	if len(failOnSeverities) == 0 {
		failOnSeverities = defaultFailOnSeverities
	}

	suites := junitTestSuites{
		Suites: []junitTestSuite{
			{
				Name:     "Tavnit Template Audit",
				Tests:    len(report.Violations),
				Failures: countFailures(report.Violations, failOnSeverities),
				Errors:   0,
				Time:     "0",
				Cases:    convertToJUnitCases(report.Violations, failOnSeverities),
			},
		},
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	return encoder.Encode(suites)
}

// isFailureSeverity checks if a severity should be treated as a test failure
func isFailureSeverity(severity string, failOnSeverities []string) bool {
	severityUpper := strings.ToUpper(severity)
	for _, s := range failOnSeverities {
		if strings.ToUpper(s) == severityUpper {
			return true
		}
	}
	return false
}

func countFailures(violations []model.Violation, failOnSeverities []string) int {
	count := 0
	for _, v := range violations {
		if isFailureSeverity(string(v.Severity), failOnSeverities) {
			count++
		}
	}
	return count
}

func convertToJUnitCases(violations []model.Violation, failOnSeverities []string) []junitTestCase {
	cases := make([]junitTestCase, 0, len(violations))

	for _, v := range violations {
		testCase := junitTestCase{
			Name:      v.Title,
			Classname: string(v.Kind),
			Time:      "0",
		}

		if isFailureSeverity(string(v.Severity), failOnSeverities) {
			testCase.Failure = &junitFailure{
				Message: v.Title,
				Type:    string(v.Severity),
				Content: fmt.Sprintf("%s\nLocation: %s\nDescription: %s", v.Title, v.Path, v.Description),
			}
		}

		cases = append(cases, testCase)
	}

	return cases
}
