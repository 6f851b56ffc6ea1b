//go:build !integration

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
)

func TestFormatValidationError(t *testing.T) {
	assert.Empty(t, FormatValidationError(nil))

	multi := errors.New("invalid inputs for ci.yml:\n  • a is required but missing\nexpected inputs: a")
	out := FormatValidationError(multi)
	assert.Contains(t, out, "a is required but missing")
	assert.Contains(t, out, "expected inputs: a")
}

func TestRenderResult(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var buf bytes.Buffer
		RenderResult(&buf, "ci.yml", &dispatch.Result{Valid: true})
		assert.Contains(t, buf.String(), "Inputs are valid for ci.yml")
	})

	t.Run("invalid lists errors, suggestions and expected inputs", func(t *testing.T) {
		var buf bytes.Buffer
		RenderResult(&buf, "agentic-qa.yml", &dispatch.Result{
			Errors: []string{
				"pipeline_type is required but missing",
				"pipeline_typ is not a defined input for this workflow",
			},
			ExpectedInputs: []string{"pipeline_type", "run_audit"},
			Suggestions:    map[string][]string{"pipeline_typ": {"pipeline_type"}},
		})
		out := buf.String()
		assert.Contains(t, out, "Inputs are not valid for agentic-qa.yml")
		assert.Contains(t, out, "• pipeline_type is required but missing")
		assert.Contains(t, out, "did you mean: pipeline_type?")
		assert.Contains(t, out, "Expected inputs: pipeline_type, run_audit")
	})

	t.Run("no declared inputs", func(t *testing.T) {
		var buf bytes.Buffer
		RenderResult(&buf, "ci.yml", &dispatch.Result{Errors: []string{"x is not a defined input for this workflow"}, ExpectedInputs: []string{}})
		assert.Contains(t, buf.String(), "Expected inputs: (none)")
	})
}

func TestRenderFetchError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{name: "auth", err: &dispatch.AuthError{Repo: "o/r", StatusCode: 401}, hint: "gh auth status"},
		{name: "not found", err: &dispatch.NotFoundError{Path: ".github/workflows/x.yml"}, hint: ".github/workflows"},
		{name: "parse", err: &dispatch.ParseError{Path: "x.yml", Reason: "manual trigger missing", Err: dispatch.ErrNoDispatchTrigger}, hint: "on.workflow_dispatch"},
		{name: "rejected", err: &ghapi.DispatchRejectedError{Workflow: "x.yml", Message: "Unexpected inputs"}, hint: "dispatched ref"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderFetchError(&buf, "x.yml", tt.err)
			assert.Contains(t, buf.String(), tt.err.Error())
			assert.Contains(t, buf.String(), tt.hint)
		})
	}
}

func TestRenderFetchError_TriggerHintOnlyWhenTriggerMissing(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "malformed yaml", err: &dispatch.ParseError{Path: "x.yml", Reason: "malformed YAML", Err: errors.New("mapping values are not allowed")}},
		{name: "bad inputs block", err: &dispatch.ParseError{Path: "x.yml", Reason: "invalid workflow_dispatch inputs", Err: errors.New(`input "a" has unsupported type "list"`)}},
		{name: "empty file", err: &dispatch.ParseError{Path: "x.yml", Reason: "workflow file is empty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderFetchError(&buf, "x.yml", tt.err)
			assert.Contains(t, buf.String(), tt.err.Error())
			assert.NotContains(t, buf.String(), "on.workflow_dispatch")
		})
	}
}

func TestRenderFetchError_WithoutWorkflow(t *testing.T) {
	var buf bytes.Buffer
	RenderFetchError(&buf, "", &dispatch.AuthError{Repo: "o/r", StatusCode: 403})
	assert.NotContains(t, buf.String(), ": authentication failed")
	assert.Contains(t, buf.String(), "authentication failed for o/r")
}

func TestNewReport(t *testing.T) {
	report := NewReport(dispatch.Attempt{File: "gone.yml", Err: &dispatch.NotFoundError{Path: "gone.yml"}})
	assert.False(t, report.Valid)
	assert.Equal(t, "not_found", report.ErrorKind)
	assert.Equal(t, []string{}, report.Errors)

	schema, err := dispatch.NewSchema("ci.yml", dispatch.StringInput{InputMeta: dispatch.InputMeta{Name: "a"}})
	assert.NoError(t, err)
	schema.Warnings = []string{"1:1: something [syntax-check]"}
	result := dispatch.Validate(schema, map[string]any{"a": "x"})

	report = NewReport(dispatch.Attempt{File: "ci.yml", Schema: schema, Result: result})
	assert.True(t, report.Valid)
	assert.Empty(t, report.ErrorKind)
	assert.Equal(t, []string{"a"}, report.ExpectedInputs)
	assert.Equal(t, map[string]any{"a": "x"}, report.FilteredInputs)
	assert.Equal(t, schema.Warnings, report.Warnings)
}
