package dispatch

import (
	"strings"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var errorAggregationLog = logger.New("dispatch:error_aggregation")

// ErrorCollector gathers the errors of independent checks so they can be
// reported together.
type ErrorCollector struct {
	errors []error
}

// NewErrorCollector creates an empty collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add records err. Nil errors are ignored.
func (c *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	errorAggregationLog.Printf("Adding error to collector: %v", err)
	c.errors = append(c.errors, err)
}

// Count returns the number of errors collected.
func (c *ErrorCollector) Count() int {
	return len(c.errors)
}

// Errors returns a copy of the collected errors.
func (c *ErrorCollector) Errors() []error {
	return append([]error(nil), c.errors...)
}

// FormattedError returns nil when nothing was collected. Otherwise the
// message is summary followed by one bullet line per error, and the result
// unwraps to every collected error.
func (c *ErrorCollector) FormattedError(summary string) error {
	if len(c.errors) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(summary)
	for _, err := range c.errors {
		sb.WriteString("\n  • ")
		sb.WriteString(err.Error())
	}
	return &aggregatedError{msg: sb.String(), errs: c.Errors()}
}

type aggregatedError struct {
	msg  string
	errs []error
}

func (e *aggregatedError) Error() string   { return e.msg }
func (e *aggregatedError) Unwrap() []error { return e.errs }

