package dispatch

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var parseLog = logger.New("dispatch:parse")

// ParseSchema extracts the workflow_dispatch inputs declared by the workflow
// file at path. Every failure is a *ParseError.
func ParseSchema(path string, content []byte) (*Schema, error) {
	parseLog.Printf("Parsing workflow %s (%d bytes)", path, len(content))

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &ParseError{Path: path, Reason: "workflow file is empty"}
	}

	var doc any
	if err := yaml.UnmarshalWithOptions(content, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, &ParseError{Path: path, Reason: "malformed YAML", Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Path: path, Reason: "workflow file is empty"}
	}
	workflow, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("expected a mapping at the top level, got %s", describe(doc))}
	}

	on, found := lookupTriggers(workflow)
	if !found {
		return nil, &ParseError{Path: path, Reason: "workflow has no 'on' section", Err: ErrNoDispatchTrigger}
	}

	block, dispatchable, err := dispatchBlock(on)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error()}
	}
	if !dispatchable {
		return nil, &ParseError{Path: path, Reason: "manual trigger missing", Err: ErrNoDispatchTrigger}
	}

	if err := validateDispatchBlock(block); err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid workflow_dispatch block", Err: err}
	}

	inputs, err := buildInputs(block)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid workflow_dispatch inputs", Err: err}
	}

	schema, err := NewSchema(path, inputs...)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid workflow_dispatch inputs", Err: err}
	}
	parseLog.Printf("Parsed %d inputs from %s", schema.Len(), path)
	return schema, nil
}

// lookupTriggers finds the "on" key. YAML 1.1 parsers turn a bare on into
// true, so a boolean key is accepted as well.
func lookupTriggers(workflow yaml.MapSlice) (any, bool) {
	for _, item := range workflow {
		switch key := item.Key.(type) {
		case string:
			if key == "on" {
				return item.Value, true
			}
		case bool:
			if key {
				return item.Value, true
			}
		}
	}
	return nil, false
}

// dispatchBlock returns the value under workflow_dispatch for the three
// shapes "on" may take: a single event name, a list of names, or a mapping.
func dispatchBlock(on any) (any, bool, error) {
	switch v := on.(type) {
	case string:
		return nil, v == constants.DispatchTrigger, nil
	case []any:
		for _, event := range v {
			if name, ok := event.(string); ok && name == constants.DispatchTrigger {
				return nil, true, nil
			}
		}
		return nil, false, nil
	case yaml.MapSlice:
		for _, item := range v {
			if key, ok := item.Key.(string); ok && key == constants.DispatchTrigger {
				return item.Value, true, nil
			}
		}
		return nil, false, nil
	case nil:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("'on' must be an event name, a list or a mapping, got %s", describe(on))
	}
}

func buildInputs(block any) ([]Input, error) {
	dispatch, ok := block.(yaml.MapSlice)
	if !ok {
		return nil, nil
	}

	var declared yaml.MapSlice
	for _, item := range dispatch {
		if key, _ := item.Key.(string); key == "inputs" {
			declared, _ = item.Value.(yaml.MapSlice)
		}
	}

	inputs := make([]Input, 0, len(declared))
	for _, item := range declared {
		name := scalarString(item.Key)
		decl, _ := item.Value.(yaml.MapSlice)
		in, err := buildInput(name, decl)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func buildInput(name string, decl yaml.MapSlice) (Input, error) {
	meta := InputMeta{Name: name, DeclaredType: string(KindString)}
	var options []string

	for _, field := range decl {
		key, _ := field.Key.(string)
		switch key {
		case "description":
			meta.Description = scalarString(field.Value)
		case "required":
			meta.Required, _ = field.Value.(bool)
		case "type":
			meta.DeclaredType = scalarString(field.Value)
		case "default":
			if field.Value != nil {
				def := scalarString(field.Value)
				meta.Default = &def
			}
		case "options":
			list, _ := field.Value.([]any)
			for _, opt := range list {
				options = append(options, scalarString(opt))
			}
		}
	}

	switch meta.DeclaredType {
	case "string", "number", "environment":
		return StringInput{InputMeta: meta}, nil
	case "boolean":
		return BooleanInput{InputMeta: meta}, nil
	case "choice":
		return ChoiceInput{InputMeta: meta, Options: options}, nil
	default:
		return nil, fmt.Errorf("input %q has unsupported type %q", name, meta.DeclaredType)
	}
}

// scalarString renders a YAML scalar the way GitHub passes it to the run.
func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

func describe(v any) string {
	switch v.(type) {
	case yaml.MapSlice:
		return "a mapping"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case nil:
		return "nothing"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
