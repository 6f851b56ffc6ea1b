//go:build !integration

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		inputs       map[string]any
		wantValid    bool
		wantErrors   []string
		wantFiltered map[string]any
	}{
		{
			name:         "unknown key is reported and filtered out",
			inputs:       map[string]any{"pipeline_type": "full", "pipeline_name": "Nightly"},
			wantErrors:   []string{"pipeline_name is not a defined input for this workflow"},
			wantFiltered: map[string]any{"pipeline_type": "full"},
		},
		{
			name:         "required key missing",
			inputs:       map[string]any{},
			wantErrors:   []string{"pipeline_type is required but missing"},
			wantFiltered: map[string]any{},
		},
		{
			name:         "value outside the allowed options",
			inputs:       map[string]any{"pipeline_type": "staging"},
			wantErrors:   []string{"pipeline_type value staging is not one of the allowed values"},
			wantFiltered: map[string]any{"pipeline_type": "staging"},
		},
		{
			name:         "matching inputs",
			inputs:       map[string]any{"pipeline_type": "security"},
			wantValid:    true,
			wantErrors:   []string{},
			wantFiltered: map[string]any{"pipeline_type": "security"},
		},
	}

	schema := pipelineSchema(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(schema, tt.inputs)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantErrors, result.Errors)
			assert.Equal(t, []string{"pipeline_type"}, result.ExpectedInputs)
			assert.Equal(t, tt.wantFiltered, result.FilteredInputs)
		})
	}
}

func TestValidate_ErrorOrder(t *testing.T) {
	schema, err := NewSchema("wf.yml",
		StringInput{InputMeta: InputMeta{Name: "target", Required: true}},
		BooleanInput{InputMeta: InputMeta{Name: "dry_run"}},
		ChoiceInput{InputMeta: InputMeta{Name: "mode", Required: true}, Options: []string{"fast", "slow"}},
	)
	require.NoError(t, err)

	result := Validate(schema, map[string]any{
		"zeta":    "1",
		"dry_run": "maybe",
		"alpha":   true,
	})

	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		"target is required but missing",
		"dry_run value maybe is not a valid boolean",
		"mode is required but missing",
		"alpha is not a defined input for this workflow",
		"zeta is not a defined input for this workflow",
	}, result.Errors)
}

func TestValidate_ValueTypes(t *testing.T) {
	schema, err := NewSchema("wf.yml",
		StringInput{InputMeta: InputMeta{Name: "name"}},
		BooleanInput{InputMeta: InputMeta{Name: "debug"}},
		ChoiceInput{InputMeta: InputMeta{Name: "level"}, Options: []string{"1", "2", "true"}},
	)
	require.NoError(t, err)

	tests := []struct {
		name    string
		inputs  map[string]any
		wantErr string
	}{
		{name: "boolean accepts bool", inputs: map[string]any{"debug": false}},
		{name: "boolean accepts true string", inputs: map[string]any{"debug": "true"}},
		{name: "boolean accepts false string", inputs: map[string]any{"debug": "false"}},
		{name: "boolean rejects other strings", inputs: map[string]any{"debug": "yes"}, wantErr: "debug value yes is not a valid boolean"},
		{name: "string accepts bool", inputs: map[string]any{"name": true}},
		{name: "choice compares rendered bool", inputs: map[string]any{"level": true}},
		{name: "choice rejects unlisted", inputs: map[string]any{"level": "3"}, wantErr: "level value 3 is not one of the allowed values"},
		{name: "numbers are rejected", inputs: map[string]any{"name": 42}, wantErr: "name value 42 must be a string or boolean"},
		{name: "nil is rejected", inputs: map[string]any{"name": nil}, wantErr: "name value <nil> must be a string or boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(schema, tt.inputs)
			if tt.wantErr == "" {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			assert.Equal(t, []string{tt.wantErr}, result.Errors)
		})
	}
}

func TestValidate_DefaultExcusesMissingRequired(t *testing.T) {
	def := "tests"
	schema, err := NewSchema("wf.yml",
		ChoiceInput{InputMeta: InputMeta{Name: "pipeline_type", Required: true, Default: &def}, Options: []string{"full", "tests"}},
	)
	require.NoError(t, err)

	result := Validate(schema, map[string]any{})
	assert.True(t, result.Valid)
	assert.Empty(t, result.FilteredInputs, "defaults are never injected")

	result = Validate(schema, map[string]any{"pipeline_type": "nightly"})
	assert.False(t, result.Valid, "a supplied value is checked even when a default exists")
}

func TestValidate_Suggestions(t *testing.T) {
	result := Validate(pipelineSchema(t), map[string]any{
		"pipeline_typ": "full",
		"unrelated":    "x",
	})

	assert.Equal(t, map[string][]string{"pipeline_typ": {"pipeline_type"}}, result.Suggestions)
	assert.Len(t, result.Errors, 3)
}

func TestValidate_DoesNotMutateInputs(t *testing.T) {
	schema := pipelineSchema(t)
	inputs := map[string]any{"pipeline_type": "full", "extra": "x"}

	first := Validate(schema, inputs)
	second := Validate(schema, inputs)

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]any{"pipeline_type": "full", "extra": "x"}, inputs)

	first.FilteredInputs["pipeline_type"] = "tests"
	assert.Equal(t, "full", inputs["pipeline_type"])
}

func TestValidate_Properties(t *testing.T) {
	def := "main"
	schema, err := NewSchema("wf.yml",
		StringInput{InputMeta: InputMeta{Name: "branch", Required: true, Default: &def}},
		BooleanInput{InputMeta: InputMeta{Name: "verbose"}},
		ChoiceInput{InputMeta: InputMeta{Name: "suite", Required: true}, Options: []string{"unit", "e2e"}},
		StringInput{InputMeta: InputMeta{Name: "note"}},
	)
	require.NoError(t, err)

	candidates := []map[string]any{
		{},
		{"suite": "unit"},
		{"suite": "e2e", "verbose": true, "note": "hi"},
		{"suite": "unit", "bogus": "1"},
		{"suite": "smoke", "branch": "dev"},
		{"verbose": "nope", "other": false},
	}

	for _, m := range candidates {
		result := Validate(schema, m)

		assert.Equal(t, schema.Names(), result.ExpectedInputs)
		assert.Equal(t, []string{"branch", "verbose", "suite", "note"}, Validate(schema, map[string]any{}).ExpectedInputs)

		for k, v := range result.FilteredInputs {
			assert.Equal(t, m[k], v)
			_, declared := schema.Lookup(k)
			assert.True(t, declared)
		}
		for k := range m {
			_, declared := schema.Lookup(k)
			_, kept := result.FilteredInputs[k]
			assert.Equal(t, declared, kept, "key %s", k)
		}

		refiltered := Validate(schema, result.FilteredInputs)
		if _, hasSuite := result.FilteredInputs["suite"]; hasSuite {
			wantValid := true
			for _, msg := range result.Errors {
				if msg != "bogus is not a defined input for this workflow" && msg != "other is not a defined input for this workflow" {
					wantValid = false
				}
			}
			assert.Equal(t, wantValid, refiltered.Valid, "inputs %v", m)
		}
	}
}

func TestPreflight(t *testing.T) {
	schema := pipelineSchema(t)

	require.NoError(t, Preflight(schema, map[string]any{"pipeline_type": "full"}))

	err := Preflight(schema, map[string]any{"pipeline_name": "Nightly"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"pipeline_type"}, verr.ExpectedInputs)
	assert.Equal(t, []string{
		"pipeline_type is required but missing",
		"pipeline_name is not a defined input for this workflow",
	}, verr.Errors)
	assert.Contains(t, err.Error(), "expected inputs: pipeline_type")
}

func TestFormatValue(t *testing.T) {
	s, ok := FormatValue(true)
	assert.True(t, ok)
	assert.Equal(t, "true", s)

	s, ok = FormatValue("x")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = FormatValue(1.5)
	assert.False(t, ok)
}

func TestValidate_DeclaredKeysWithRequiredPresentAreValid(t *testing.T) {
	schema, err := NewSchema("wf.yml",
		StringInput{InputMeta: InputMeta{Name: "a", Required: true}},
		StringInput{InputMeta: InputMeta{Name: "b"}},
		StringInput{InputMeta: InputMeta{Name: "c", Required: true}},
	)
	require.NoError(t, err)

	for _, m := range []map[string]any{
		{"a": "1", "c": "3"},
		{"a": "", "b": "2", "c": true},
		{"c": "3", "a": "1", "b": false},
	} {
		assert.True(t, Validate(schema, m).Valid, "inputs %v", m)
	}
}
