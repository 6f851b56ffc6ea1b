package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var fallbackLog = logger.New("dispatch:fallback")

// State is the position of a fallback selection.
type State int

const (
	// StateTrying means a candidate is being loaded and validated.
	StateTrying State = iota
	// StateSucceeded means a candidate accepted the inputs.
	StateSucceeded
	// StateExhausted means every candidate was rejected.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateTrying:
		return "trying"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Attempt records the outcome of one candidate. Err is set for fetch-level
// failures; otherwise Schema and Result are.
type Attempt struct {
	File   string
	Schema *Schema
	Result *Result
	Err    error
}

// Failed reports whether the attempt rejected the inputs or failed to load.
func (a Attempt) Failed() bool {
	return a.Err != nil || a.Result == nil || !a.Result.Valid
}

// Reason summarises why the attempt failed.
func (a Attempt) Reason() string {
	switch {
	case a.Err != nil:
		return a.Err.Error()
	case a.Result == nil:
		return "no result"
	case a.Result.Valid:
		return "valid"
	default:
		return strings.Join(a.Result.Errors, "; ")
	}
}

// Selection is the outcome of a successful fallback.
type Selection struct {
	State  State
	File   string
	Schema *Schema
	Result *Result
	// Trail lists the candidates rejected before File, for diagnostics only.
	Trail []Attempt
}

// ExhaustedError is returned when no candidate accepts the inputs.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no workflow candidates to try"
	}
	collector := NewErrorCollector()
	for _, a := range e.Attempts {
		collector.Add(fmt.Errorf("%s: %s", a.File, a.Reason()))
	}
	noun := "attempts"
	if collector.Count() == 1 {
		noun = "attempt"
	}
	return collector.FormattedError(fmt.Sprintf("no workflow accepted the inputs after %d %s:", collector.Count(), noun)).Error()
}

// Unwrap exposes the fetch-level errors of the attempts.
func (e *ExhaustedError) Unwrap() []error {
	collector := NewErrorCollector()
	for _, a := range e.Attempts {
		collector.Add(a.Err)
	}
	return collector.Errors()
}

// IsExhausted reports whether err is an *ExhaustedError.
func IsExhausted(err error) bool {
	var target *ExhaustedError
	return errors.As(err, &target)
}

// StateFunc observes state transitions of a selection.
type StateFunc func(state State, file string)

// Selector tries candidate workflow files in order and picks the first one
// whose schema accepts the inputs.
type Selector struct {
	loader  SchemaLoader
	observe StateFunc
}

// NewSelector creates a Selector. observe may be nil.
func NewSelector(loader SchemaLoader, observe StateFunc) *Selector {
	return &Selector{loader: loader, observe: observe}
}

func (s *Selector) transition(state State, file string) {
	fallbackLog.Printf("State %s: %s", state, file)
	if s.observe != nil {
		s.observe(state, file)
	}
}

// Select tries each distinct candidate once, in order. A missing file, a
// parse failure or an invalid result moves on to the next candidate. An
// *AuthError stops selection and is returned unchanged, as is a cancelled
// context. When every candidate fails Select returns an *ExhaustedError.
func (s *Selector) Select(ctx context.Context, owner, repo string, candidates []string, inputs map[string]any) (*Selection, error) {
	var trail []Attempt
	for _, file := range dedupe(candidates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.transition(StateTrying, file)
		schema, err := s.loader.Load(ctx, owner, repo, file)
		if err != nil {
			if IsAuth(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if !IsNotFound(err) && !IsParse(err) {
				return nil, err
			}
			trail = append(trail, Attempt{File: file, Err: err})
			continue
		}

		result := Validate(schema, inputs)
		if !result.Valid {
			trail = append(trail, Attempt{File: file, Schema: schema, Result: result})
			continue
		}

		s.transition(StateSucceeded, file)
		return &Selection{
			State:  StateSucceeded,
			File:   file,
			Schema: schema,
			Result: result,
			Trail:  trail,
		}, nil
	}

	s.transition(StateExhausted, "")
	return nil, &ExhaustedError{Attempts: trail}
}

func dedupe(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
