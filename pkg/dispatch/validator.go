package dispatch

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/agenticqa/gh-preflight/pkg/stringutil"
)

var validatorLog = logger.New("dispatch:validator")

// Request is a dispatch the caller intends to make. Input values are
// strings or booleans.
type Request struct {
	WorkflowFile string
	Inputs       map[string]any
}

// Result describes how a set of inputs compares with a workflow's schema.
type Result struct {
	Valid bool `json:"valid"`
	// Errors lists input mismatches: schema order first, then unknown inputs
	// in lexical order.
	Errors []string `json:"errors"`
	// ExpectedInputs is every declared input name, in declaration order.
	ExpectedInputs []string `json:"expected_inputs"`
	// FilteredInputs is the supplied inputs minus undeclared keys, values
	// untouched. It can be sent as the dispatch payload as is.
	FilteredInputs map[string]any `json:"filtered_inputs"`
	// Suggestions maps unknown input names to close declared names.
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// Validate compares inputs with schema. Neither argument is modified.
func Validate(schema *Schema, inputs map[string]any) *Result {
	result := &Result{
		Errors:         []string{},
		ExpectedInputs: schema.Names(),
		FilteredInputs: make(map[string]any),
	}

	for _, in := range schema.Inputs() {
		meta := in.Meta()
		value, present := inputs[meta.Name]
		if !present {
			if meta.Required && !meta.HasDefault() {
				result.Errors = append(result.Errors, fmt.Sprintf("%s is required but missing", meta.Name))
			}
			continue
		}
		result.FilteredInputs[meta.Name] = value
		if msg := checkValue(in, value); msg != "" {
			result.Errors = append(result.Errors, msg)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		if _, declared := schema.Lookup(name); declared {
			continue
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s is not a defined input for this workflow", name))
		matches := stringutil.FindClosestMatches(name, result.ExpectedInputs, constants.MaxSuggestions, constants.MaxSuggestionDistance)
		if len(matches) > 0 {
			if result.Suggestions == nil {
				result.Suggestions = make(map[string][]string)
			}
			result.Suggestions[name] = matches
		}
	}

	result.Valid = len(result.Errors) == 0
	validatorLog.Printf("Validated %d inputs against %s: valid=%v, errors=%d", len(inputs), schema.Path, result.Valid, len(result.Errors))
	return result
}

// checkValue returns an error message when value is not acceptable for in,
// or "" when it is.
func checkValue(in Input, value any) string {
	name := in.Meta().Name
	text, ok := FormatValue(value)
	if !ok {
		return fmt.Sprintf("%s value %v must be a string or boolean", name, value)
	}

	switch decl := in.(type) {
	case StringInput:
		return ""
	case BooleanInput:
		if _, isBool := value.(bool); !isBool && text != "true" && text != "false" {
			return fmt.Sprintf("%s value %s is not a valid boolean", name, text)
		}
		return ""
	case ChoiceInput:
		if !slices.Contains(decl.Options, text) {
			return fmt.Sprintf("%s value %s is not one of the allowed values", name, text)
		}
		return ""
	default:
		return fmt.Sprintf("%s has an unsupported input kind %T", name, in)
	}
}

// FormatValue renders an input value as GitHub receives it. It reports false
// for values that are neither strings nor booleans.
func FormatValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
