//go:build !integration

package cli

import (
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticqa/gh-preflight/pkg/dispatch"
)

func stubForm(t *testing.T, err error) *int {
	t.Helper()
	calls := 0
	orig := runForm
	runForm = func(*huh.Form) error {
		calls++
		return err
	}
	t.Cleanup(func() { runForm = orig })
	return &calls
}

func interactiveSchema(t *testing.T) *dispatch.Schema {
	t.Helper()
	def := "main"
	schema, err := dispatch.NewSchema("wf.yml",
		dispatch.StringInput{InputMeta: dispatch.InputMeta{Name: "target", Required: true}},
		dispatch.StringInput{InputMeta: dispatch.InputMeta{Name: "branch", Required: true, Default: &def}},
		dispatch.BooleanInput{InputMeta: dispatch.InputMeta{Name: "audit", Required: true}},
		dispatch.ChoiceInput{InputMeta: dispatch.InputMeta{Name: "suite"}, Options: []string{"a", "b"}},
	)
	require.NoError(t, err)
	return schema
}

func TestMissingRequired(t *testing.T) {
	schema := interactiveSchema(t)

	var names []string
	for _, in := range missingRequired(schema, map[string]any{"audit": true}) {
		names = append(names, in.Meta().Name)
	}
	assert.Equal(t, []string{"target"}, names)
	assert.Empty(t, missingRequired(schema, map[string]any{"audit": true, "target": "x"}))
}

func TestPromptMissingInputs(t *testing.T) {
	schema := interactiveSchema(t)

	t.Run("nothing missing skips the form", func(t *testing.T) {
		calls := stubForm(t, nil)
		inputs := map[string]any{"target": "x", "audit": false}
		got, err := promptMissingInputs(schema, inputs)
		require.NoError(t, err)
		assert.Equal(t, inputs, got)
		assert.Equal(t, 0, *calls)
	})

	t.Run("answers are merged into a copy", func(t *testing.T) {
		calls := stubForm(t, nil)
		inputs := map[string]any{"suite": "a"}
		got, err := promptMissingInputs(schema, inputs)
		require.NoError(t, err)
		assert.Equal(t, 1, *calls)
		assert.Equal(t, map[string]any{"suite": "a", "target": "", "audit": false}, got)
		assert.Equal(t, map[string]any{"suite": "a"}, inputs)
	})

	t.Run("aborted form", func(t *testing.T) {
		stubForm(t, huh.ErrUserAborted)
		_, err := promptMissingInputs(schema, nil)
		assert.ErrorIs(t, err, huh.ErrUserAborted)
	})
}
