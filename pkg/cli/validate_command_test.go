//go:build !integration

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunValidate_FallbackSelectsFirstMatch(t *testing.T) {
	env, _ := localEnv(t, []string{"agentic-qa.yml", "pipeline.yml"}, map[string]string{
		"agentic-qa.yml": qaWorkflow,
		"pipeline.yml":   pipelineWorkflow,
	})
	var stdout, stderr bytes.Buffer

	err := RunValidate(context.Background(), env, ValidateOptions{
		Inputs: map[string]any{"pipeline_type": "full", "pipeline_name": "Nightly"},
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Inputs are valid for pipeline.yml")
	assert.NotContains(t, stderr.String(), "agentic-qa.yml", "earlier attempts only appear in verbose mode")
	assert.Empty(t, stdout.String())
}

func TestRunValidate_FallbackExhausted(t *testing.T) {
	env, _ := localEnv(t, []string{"agentic-qa.yml", "missing.yml"}, map[string]string{
		"agentic-qa.yml": qaWorkflow,
	})
	var stdout, stderr bytes.Buffer

	err := RunValidate(context.Background(), env, ValidateOptions{
		Inputs: map[string]any{"pipeline_type": "staging"},
	}, &stdout, &stderr)
	require.ErrorIs(t, err, ErrValidationFailed)

	out := stderr.String()
	assert.Contains(t, out, "pipeline_type value staging is not one of the allowed values")
	assert.Contains(t, out, "Expected inputs: pipeline_type, run_audit")
	assert.Contains(t, out, "missing.yml")
	assert.Contains(t, out, "None of 2 candidate workflows accept the inputs")
}

func TestRunValidate_AllJSON(t *testing.T) {
	env, _ := localEnv(t, []string{"agentic-qa.yml", "pipeline.yml", "absent.yml"}, map[string]string{
		"agentic-qa.yml": qaWorkflow,
		"pipeline.yml":   pipelineWorkflow,
	})
	var stdout, stderr bytes.Buffer

	err := RunValidate(context.Background(), env, ValidateOptions{
		All:        true,
		JSONOutput: true,
		Inputs:     map[string]any{"pipeline_type": "tests", "run_audit": true},
	}, &stdout, &stderr)
	require.NoError(t, err, "at least one candidate accepts the inputs")

	var reports []Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &reports))
	require.Len(t, reports, 3)

	assert.Equal(t, "agentic-qa.yml", reports[0].Workflow)
	assert.True(t, reports[0].Valid)
	assert.Equal(t, map[string]any{"pipeline_type": "tests", "run_audit": true}, reports[0].FilteredInputs)

	assert.False(t, reports[1].Valid)
	assert.Equal(t, []string{"run_audit is not a defined input for this workflow"}, reports[1].Errors)
	assert.Equal(t, []string{"pipeline_type", "pipeline_name"}, reports[1].ExpectedInputs)

	assert.Equal(t, "not_found", reports[2].ErrorKind)
	assert.Empty(t, stderr.String())
}

func TestRunValidate_ExplicitWorkflowsFailOnAnyMismatch(t *testing.T) {
	env, _ := localEnv(t, nil, map[string]string{
		"agentic-qa.yml": qaWorkflow,
		"pipeline.yml":   pipelineWorkflow,
	})
	var stdout, stderr bytes.Buffer

	err := RunValidate(context.Background(), env, ValidateOptions{
		Workflows: []string{"agentic-qa.yml", "pipeline.yml"},
		Inputs:    map[string]any{"pipeline_type": "full", "run_audit": "false"},
	}, &stdout, &stderr)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, stderr.String(), "Inputs are valid for agentic-qa.yml")
	assert.Contains(t, stderr.String(), "run_audit is not a defined input for this workflow")
	assert.Contains(t, stderr.String(), "1 of 2 workflows accept the inputs")
}

func TestRunValidate_NoCandidates(t *testing.T) {
	env, _ := localEnv(t, nil, nil)
	err := RunValidate(context.Background(), env, ValidateOptions{}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no candidates configured")
}

func TestRunValidate_LintWarnings(t *testing.T) {
	root := writeWorkflows(t, map[string]string{"ci.yml": `on:
  workflow_dispatch:
    inputs:
      suite:
        type: string
jobs:
  build:
    steps:
      - run: echo hi
`})
	env, _ := localEnv(t, nil, nil)
	env.cfg.Lint = true
	env.loader = newLintingLoader(root)

	var stderr bytes.Buffer
	err := RunValidate(context.Background(), env, ValidateOptions{
		Workflows: []string{"ci.yml"},
		Inputs:    map[string]any{"suite": "smoke"},
	}, &bytes.Buffer{}, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "lint findings in ci.yml")
	assert.Contains(t, stderr.String(), "runs-on")
}
