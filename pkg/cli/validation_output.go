package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
)

// ErrValidationFailed is returned by commands that already printed why the
// inputs were rejected. main exits non-zero without printing it again.
var ErrValidationFailed = errors.New("validation failed")

// FormatValidationError formats an error for the console, keeping multi-line
// structure intact.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}
	return console.FormatErrorMessage(err.Error())
}

// PrintValidationError prints err to stderr with console formatting.
func PrintValidationError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatValidationError(err))
}

// Report is the JSON form of one workflow check.
type Report struct {
	Workflow       string              `json:"workflow"`
	Valid          bool                `json:"valid"`
	Errors         []string            `json:"errors"`
	ExpectedInputs []string            `json:"expected_inputs"`
	FilteredInputs map[string]any      `json:"filtered_inputs"`
	Suggestions    map[string][]string `json:"suggestions,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
	// FetchError is set when the workflow could not be loaded; the
	// validation fields are then empty.
	FetchError string `json:"fetch_error,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

// NewReport converts an attempt into a Report.
func NewReport(a dispatch.Attempt) Report {
	r := Report{Workflow: a.File, Errors: []string{}, ExpectedInputs: []string{}}
	if a.Err != nil {
		r.FetchError = a.Err.Error()
		r.ErrorKind = errorKind(a.Err)
		return r
	}
	if a.Schema != nil {
		r.Warnings = a.Schema.Warnings
	}
	r.Valid = a.Result.Valid
	r.Errors = a.Result.Errors
	r.ExpectedInputs = a.Result.ExpectedInputs
	r.FilteredInputs = a.Result.FilteredInputs
	r.Suggestions = a.Result.Suggestions
	return r
}

func errorKind(err error) string {
	switch {
	case dispatch.IsAuth(err):
		return "auth"
	case dispatch.IsNotFound(err):
		return "not_found"
	case dispatch.IsParse(err):
		return "parse"
	default:
		return "other"
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const unknownInputSuffix = " is not a defined input for this workflow"

// RenderResult prints the outcome of validating one workflow. On failure it
// always lists both the input errors and the inputs the workflow expects.
func RenderResult(w io.Writer, workflow string, result *dispatch.Result) {
	if result.Valid {
		fmt.Fprintln(w, console.FormatSuccessMessage(fmt.Sprintf("Inputs are valid for %s", workflow)))
		return
	}

	fmt.Fprintln(w, console.FormatErrorMessage(fmt.Sprintf("Inputs are not valid for %s:", workflow)))
	for _, msg := range result.Errors {
		fmt.Fprintln(w, console.FormatListItem(msg))
		if key, ok := strings.CutSuffix(msg, unknownInputSuffix); ok {
			if matches := result.Suggestions[key]; len(matches) > 0 {
				fmt.Fprintln(w, console.FormatVerboseMessage("  did you mean: "+strings.Join(matches, ", ")+"?"))
			}
		}
	}
	fmt.Fprintln(w, console.FormatInfoMessage("Expected inputs: "+formatNames(result.ExpectedInputs)))
}

// RenderFetchError prints a load failure with a hint matching its kind.
// An empty workflow prints the error alone.
func RenderFetchError(w io.Writer, workflow string, err error) {
	msg := err.Error()
	if workflow != "" {
		msg = workflow + ": " + msg
	}
	fmt.Fprintln(w, console.FormatErrorMessage(msg))
	var rejected *ghapi.DispatchRejectedError
	switch {
	case dispatch.IsAuth(err):
		fmt.Fprintln(w, console.FormatInfoMessage("Check the credential with: ")+console.FormatCommandMessage("gh auth status"))
	case dispatch.IsNotFound(err):
		fmt.Fprintln(w, console.FormatInfoMessage(fmt.Sprintf("Workflow files are looked up in %s; pass a path containing '/' to look elsewhere", constants.WorkflowsDir)))
	case errors.Is(err, dispatch.ErrNoDispatchTrigger):
		fmt.Fprintln(w, console.FormatInfoMessage("The workflow must declare an 'on.workflow_dispatch' trigger"))
	case errors.As(err, &rejected):
		fmt.Fprintln(w, console.FormatInfoMessage("GitHub validates inputs against the workflow file on the dispatched ref"))
	}
}

// RenderAttempt prints one attempt of a fallback or --all check, including
// lint findings.
func RenderAttempt(w io.Writer, a dispatch.Attempt) {
	if a.Err != nil {
		RenderFetchError(w, a.File, a.Err)
		return
	}
	RenderResult(w, a.File, a.Result)
	if a.Schema != nil {
		RenderWarnings(w, a.File, a.Schema.Warnings)
	}
}

// RenderWarnings prints lint findings for a workflow.
func RenderWarnings(w io.Writer, workflow string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, console.FormatWarningMessage(fmt.Sprintf("%d lint findings in %s:", len(warnings), workflow)))
	for _, warning := range warnings {
		fmt.Fprintln(w, console.FormatListItem(warning))
	}
}

func formatNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
