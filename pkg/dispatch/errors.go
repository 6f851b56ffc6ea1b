package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDispatchTrigger is wrapped by a *ParseError when the workflow cannot
// be triggered manually.
var ErrNoDispatchTrigger = errors.New("workflow does not declare a workflow_dispatch trigger")

// NotFoundError means the workflow file does not exist where it was looked
// for. Trying another file name may help; changing the inputs will not.
type NotFoundError struct {
	Repo string
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Repo == "" {
		return fmt.Sprintf("workflow file %s not found", e.Path)
	}
	return fmt.Sprintf("workflow file %s not found in %s", e.Path, e.Repo)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AuthError means the credential was rejected or lacks the required scope.
// It is never retried with the same credential.
type AuthError struct {
	Repo       string
	StatusCode int
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("authentication failed for %s (HTTP %d)", e.Repo, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// ParseError means the workflow file was fetched but no usable input schema
// could be read from it.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot read inputs from %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is returned by Preflight when the inputs do not match the
// workflow. It carries everything needed to correct the inputs.
type ValidationError struct {
	Workflow       string
	Errors         []string
	ExpectedInputs []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid inputs for %s:", e.Workflow)
	for _, msg := range e.Errors {
		sb.WriteString("\n  • ")
		sb.WriteString(msg)
	}
	sb.WriteString("\nexpected inputs: ")
	if len(e.ExpectedInputs) == 0 {
		sb.WriteString("(none)")
	} else {
		sb.WriteString(strings.Join(e.ExpectedInputs, ", "))
	}
	return sb.String()
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAuth reports whether err is or wraps an *AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsParse reports whether err is or wraps a *ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
