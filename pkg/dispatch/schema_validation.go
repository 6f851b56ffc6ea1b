package dispatch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var schemaValidationLog = logger.New("dispatch:schema_validation")

//go:embed schemas/workflow_dispatch.json
var workflowDispatchSchemaJSON string

var printer = message.NewPrinter(language.English)

var compileDispatchSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(workflowDispatchSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("workflow_dispatch.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema: %w", err)
	}
	return c.Compile("workflow_dispatch.json")
})

// validateDispatchBlock checks the shape of the workflow_dispatch value
// (types, known input types, options present for choice inputs) before the
// declarations are built from it.
func validateDispatchBlock(block any) error {
	sch, err := compileDispatchSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(toPlain(block))
	if err != nil {
		return fmt.Errorf("failed to convert workflow_dispatch to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to convert workflow_dispatch to JSON: %w", err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	causes := leafCauses(verr)
	schemaValidationLog.Printf("workflow_dispatch block failed schema validation: %d problems", len(causes))
	return errors.New(strings.Join(causes, "; "))
}

// leafCauses flattens a validation error tree into "at <path>: <problem>"
// lines, sorted for stable output.
func leafCauses(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		location := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("at %s: %s", location, verr.ErrorKind.LocalizedString(printer))}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, leafCauses(cause)...)
	}
	sort.Strings(out)
	return out
}

// toPlain converts ordered YAML maps into map[string]any so the value can
// be serialised as JSON.
func toPlain(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(val))
		for _, item := range val {
			m[scalarString(item.Key)] = toPlain(item.Value)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toPlain(item)
		}
		return out
	default:
		return val
	}
}
