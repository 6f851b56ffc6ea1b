//go:build !integration

package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const pipelineWorkflow = `name: Agentic QA
on:
  push:
    branches: [main]
  workflow_dispatch:
    inputs:
      pipeline_type:
        description: Which pipeline to run
        required: true
        type: choice
        options: [full, tests, security]
jobs:
  qa:
    runs-on: ubuntu-latest
    steps:
      - run: echo "${{ inputs.pipeline_type }}"
`

func pipelineSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := ParseSchema(".github/workflows/agentic-qa.yml", []byte(pipelineWorkflow))
	require.NoError(t, err)
	return schema
}

// fakeFetcher serves files from memory keyed by path. Errors in errs take
// precedence over files.
type fakeFetcher struct {
	mu    sync.Mutex
	files map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchFile(_ context.Context, owner, repo, filePath string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filePath)
	f.mu.Unlock()

	if err, ok := f.errs[filePath]; ok {
		return nil, err
	}
	content, ok := f.files[filePath]
	if !ok {
		return nil, &NotFoundError{Repo: owner + "/" + repo, Path: filePath}
	}
	return []byte(content), nil
}
