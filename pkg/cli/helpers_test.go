//go:build !integration

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenticqa/gh-preflight/pkg/config"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
)

const qaWorkflow = `name: Agentic QA
on:
  workflow_dispatch:
    inputs:
      pipeline_type:
        description: Which pipeline to run
        required: true
        type: choice
        options: [full, tests, security]
      run_audit:
        type: boolean
        default: false
jobs:
  qa:
    runs-on: ubuntu-latest
    steps:
      - run: echo qa
`

const pipelineWorkflow = `on:
  workflow_dispatch:
    inputs:
      pipeline_type:
        type: choice
        options: [full, tests]
      pipeline_name:
        type: string
`

// writeWorkflows writes files into a checkout's workflow directory and
// returns the checkout root.
func writeWorkflows(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return root
}

func localEnv(t *testing.T, candidates []string, files map[string]string) (*commandEnv, string) {
	t.Helper()
	root := writeWorkflows(t, files)
	return &commandEnv{
		cfg:    &config.Config{Candidates: candidates},
		loader: dispatch.NewLoader(ghapi.NewFileFetcher(root)),
	}, root
}

// syncBuffer is a bytes.Buffer safe for concurrent writes and reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLintingLoader(root string) *dispatch.Loader {
	return dispatch.NewLoader(ghapi.NewFileFetcher(root), dispatch.WithLint(true))
}
