//go:build !integration

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLintWorkflow(t *testing.T) {
	clean := `on: workflow_dispatch
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: echo hi
`
	assert.Empty(t, LintWorkflow(".github/workflows/ok.yml", []byte(clean)))

	broken := `on: workflow_dispatch
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - run: echo ${{ inputs.missing.value }}
        uses: actions/checkout@v4
`
	warnings := LintWorkflow(".github/workflows/bad.yml", []byte(broken))
	assert.NotEmpty(t, warnings)
	for _, w := range warnings {
		assert.Regexp(t, `^\d+:\d+: .+ \[[a-z-]+\]$`, w)
	}
}
