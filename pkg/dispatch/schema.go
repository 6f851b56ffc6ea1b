// Package dispatch validates workflow_dispatch inputs before a run is
// triggered.
//
// A Loader fetches a workflow file through a ContentFetcher and parses the
// inputs its workflow_dispatch trigger declares into a Schema. Validate
// compares candidate inputs with that Schema and returns a Result; Preflight
// is the same check returning a *ValidationError instead. A Selector walks a
// list of candidate workflow files and stops at the first one that accepts
// the inputs.
//
// Fetch failures (*NotFoundError, *AuthError, *ParseError) are always
// returned as errors and never appear in Result.Errors, which only ever
// describes mismatches between the inputs and a schema that was loaded
// successfully.
package dispatch

import (
	"fmt"
	"slices"
)

// InputKind names the variant of an Input.
type InputKind string

const (
	KindString  InputKind = "string"
	KindBoolean InputKind = "boolean"
	KindChoice  InputKind = "choice"
)

// InputMeta holds the attributes every input declaration shares.
type InputMeta struct {
	Name        string
	Description string
	Required    bool
	// Default is nil when the workflow declares no default.
	Default *string
	// DeclaredType is the type as written in the workflow. It differs from
	// Kind for number and environment inputs, which are validated as strings.
	DeclaredType string
}

// HasDefault reports whether the workflow supplies a default value.
func (m InputMeta) HasDefault() bool {
	return m.Default != nil
}

// Input is one declared workflow_dispatch input. The set of implementations
// is closed: StringInput, BooleanInput and ChoiceInput.
type Input interface {
	Meta() InputMeta
	Kind() InputKind
	sealed()
}

// StringInput accepts any string (or boolean) value.
type StringInput struct {
	InputMeta
}

// BooleanInput accepts true, false, "true" or "false".
type BooleanInput struct {
	InputMeta
}

// ChoiceInput accepts one of Options.
type ChoiceInput struct {
	InputMeta
	Options []string
}

func (i StringInput) Meta() InputMeta  { return i.InputMeta }
func (i BooleanInput) Meta() InputMeta { return i.InputMeta }
func (i ChoiceInput) Meta() InputMeta  { return i.InputMeta }

func (StringInput) Kind() InputKind  { return KindString }
func (BooleanInput) Kind() InputKind { return KindBoolean }
func (ChoiceInput) Kind() InputKind  { return KindChoice }

func (StringInput) sealed()  {}
func (BooleanInput) sealed() {}
func (ChoiceInput) sealed()  {}

// Schema is the ordered set of inputs a workflow declares. It is immutable
// once built.
type Schema struct {
	// Path is the repository-relative path of the workflow file.
	Path string
	// Warnings are non-fatal problems found in the workflow file.
	Warnings []string

	order  []string
	inputs map[string]Input
}

// NewSchema builds a Schema from inputs in declaration order. Names must be
// unique and non-empty.
func NewSchema(path string, inputs ...Input) (*Schema, error) {
	s := &Schema{
		Path:   path,
		order:  make([]string, 0, len(inputs)),
		inputs: make(map[string]Input, len(inputs)),
	}
	for _, in := range inputs {
		name := in.Meta().Name
		if name == "" {
			return nil, fmt.Errorf("input declared without a name in %s", path)
		}
		if _, dup := s.inputs[name]; dup {
			return nil, fmt.Errorf("input %q declared twice in %s", name, path)
		}
		s.order = append(s.order, name)
		s.inputs[name] = in
	}
	return s, nil
}

// Names returns the declared input names in declaration order.
func (s *Schema) Names() []string {
	return slices.Clone(s.order)
}

// Inputs returns the declarations in declaration order.
func (s *Schema) Inputs() []Input {
	out := make([]Input, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.inputs[name])
	}
	return out
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (Input, bool) {
	in, ok := s.inputs[name]
	return in, ok
}

// Len returns the number of declared inputs.
func (s *Schema) Len() int {
	return len(s.order)
}

// Required returns the names of inputs that must be supplied: required and
// without a default.
func (s *Schema) Required() []string {
	var names []string
	for _, name := range s.order {
		meta := s.inputs[name].Meta()
		if meta.Required && !meta.HasDefault() {
			names = append(names, name)
		}
	}
	return names
}
