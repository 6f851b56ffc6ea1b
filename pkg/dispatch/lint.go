package dispatch

import (
	"fmt"
	"io"
	"slices"

	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/rhysd/actionlint"
)

var lintLog = logger.New("dispatch:lint")

// LintWorkflow runs actionlint's built-in rules over a workflow file and
// returns its findings as "line:col: message [kind]" strings. External
// checkers such as shellcheck are not invoked. Lint failures never block a
// dispatch, so an unusable linter yields no warnings.
func LintWorkflow(filePath string, content []byte) []string {
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		lintLog.Printf("Failed to create linter: %v", err)
		return nil
	}

	findings, err := linter.Lint(filePath, content, nil)
	if err != nil {
		lintLog.Printf("Lint failed for %s: %v", filePath, err)
		return nil
	}

	slices.SortStableFunc(findings, func(a, b *actionlint.Error) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})

	warnings := make([]string, 0, len(findings))
	for _, f := range findings {
		warnings = append(warnings, fmt.Sprintf("%d:%d: %s [%s]", f.Line, f.Column, f.Message, f.Kind))
	}
	lintLog.Printf("Lint found %d issues in %s", len(warnings), filePath)
	return warnings
}
