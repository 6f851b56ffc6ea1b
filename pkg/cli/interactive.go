package cli

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var interactiveLog = logger.New("cli:interactive")

// runForm is replaced in tests.
var runForm = func(form *huh.Form) error { return form.Run() }

// missingRequired returns the required inputs of schema that have neither a
// value in inputs nor a default.
func missingRequired(schema *dispatch.Schema, inputs map[string]any) []dispatch.Input {
	var missing []dispatch.Input
	for _, in := range schema.Inputs() {
		meta := in.Meta()
		if _, ok := inputs[meta.Name]; ok || !meta.Required || meta.HasDefault() {
			continue
		}
		missing = append(missing, in)
	}
	return missing
}

// promptMissingInputs asks for every missing required input of schema and
// returns inputs extended with the answers. inputs itself is not modified.
func promptMissingInputs(schema *dispatch.Schema, inputs map[string]any) (map[string]any, error) {
	missing := missingRequired(schema, inputs)
	if len(missing) == 0 {
		return inputs, nil
	}
	interactiveLog.Printf("Prompting for %d missing inputs of %s", len(missing), schema.Path)

	strs := make(map[string]*string, len(missing))
	bools := make(map[string]*bool, len(missing))
	fields := make([]huh.Field, 0, len(missing))

	for _, in := range missing {
		meta := in.Meta()
		title := fmt.Sprintf("%s (required)", meta.Name)
		switch decl := in.(type) {
		case dispatch.BooleanInput:
			b := new(bool)
			bools[meta.Name] = b
			fields = append(fields, huh.NewConfirm().Title(title).Description(meta.Description).Value(b))
		case dispatch.ChoiceInput:
			s := new(string)
			strs[meta.Name] = s
			fields = append(fields, huh.NewSelect[string]().
				Title(title).
				Description(meta.Description).
				Options(huh.NewOptions(decl.Options...)...).
				Value(s))
		case dispatch.StringInput:
			s := new(string)
			strs[meta.Name] = s
			fields = append(fields, huh.NewInput().
				Title(title).
				Description(meta.Description).
				Value(s).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return errors.New("a value is required")
					}
					return nil
				}))
		}
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithAccessible(console.IsAccessibleMode())
	if err := runForm(form); err != nil {
		return nil, fmt.Errorf("failed to get inputs: %w", err)
	}

	out := maps.Clone(inputs)
	if out == nil {
		out = make(map[string]any, len(missing))
	}
	for name, s := range strs {
		out[name] = *s
	}
	for name, b := range bools {
		out[name] = *b
	}
	return out, nil
}
