package search

import "fmt"

const (
	SeverityError   = "error"
	SeverityWarning = "warning"

	CodeInvalidData           = "invalid_data"
	CodeInvalidFilterField    = "invalid_filter_field"
	CodeInvalidSelectionField = "invalid_selection_field"
	CodeBlankSelectionField   = "invalid_blank_selection_field"
	CodeInvalidSortField      = "invalid_sort_field"
	CodeUnprocessableField    = "unprocessable_field"
)

// Error is the structured search failure surfaced to clients at 4xx.
type Error struct {
	CodeMajor   string `json:"CodeMajor"`
	Severity    string `json:"Severity"`
	CodeMinor   string `json:"CodeMinor"`
	Description string `json:"Description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.CodeMinor, e.Description)
}

func newError(codeMinor, description string) *Error {
	return &Error{
		CodeMajor:   "failure",
		Severity:    SeverityError,
		CodeMinor:   codeMinor,
		Description: description,
	}
}

// Warning reports a degraded-but-successful request aspect.
type Warning struct {
	Severity    string `json:"Severity"`
	CodeMinor   string `json:"CodeMinor"`
	Description string `json:"Description"`
}

func newWarning(codeMinor, description string) Warning {
	return Warning{
		Severity:    SeverityWarning,
		CodeMinor:   codeMinor,
		Description: description,
	}
}
