package dispatch

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var loaderLog = logger.New("dispatch:loader")

// ContentFetcher reads one file from a repository. Implementations return a
// *NotFoundError when the file does not exist and an *AuthError when the
// credential is rejected; any other error is treated as a transport failure.
type ContentFetcher interface {
	FetchFile(ctx context.Context, owner, repo, filePath string) ([]byte, error)
}

// SchemaLoader loads the input schema of a workflow file.
type SchemaLoader interface {
	Load(ctx context.Context, owner, repo, workflowFile string) (*Schema, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLint makes the loader run actionlint over each workflow and attach its
// findings to Schema.Warnings.
func WithLint(enabled bool) LoaderOption {
	return func(l *Loader) { l.lint = enabled }
}

// Loader fetches workflow files and parses their input schemas. It holds no
// state between calls and is safe for concurrent use.
type Loader struct {
	fetcher ContentFetcher
	lint    bool
}

// NewLoader creates a Loader reading files through fetcher.
func NewLoader(fetcher ContentFetcher, opts ...LoaderOption) *Loader {
	l := &Loader{fetcher: fetcher}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WorkflowPath maps a workflow file name to its repository path. Bare names
// live under .github/workflows; names containing a slash are used as given.
func WorkflowPath(workflowFile string) string {
	workflowFile = strings.TrimPrefix(strings.TrimSpace(workflowFile), "/")
	if strings.Contains(workflowFile, "/") {
		return path.Clean(workflowFile)
	}
	return path.Join(constants.WorkflowsDir, workflowFile)
}

// Load fetches workflowFile from owner/repo and parses its inputs.
func (l *Loader) Load(ctx context.Context, owner, repo, workflowFile string) (*Schema, error) {
	if strings.TrimSpace(workflowFile) == "" {
		return nil, fmt.Errorf("workflow file name is empty")
	}
	filePath := WorkflowPath(workflowFile)
	loaderLog.Printf("Loading schema: repo=%s/%s, path=%s", owner, repo, filePath)

	content, err := l.fetcher.FetchFile(ctx, owner, repo, filePath)
	if err != nil {
		if IsNotFound(err) || IsAuth(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", filePath, owner, repo, err)
	}

	schema, err := ParseSchema(filePath, content)
	if err != nil {
		return nil, err
	}
	if l.lint {
		schema.Warnings = LintWorkflow(filePath, content)
	}
	return schema, nil
}

// Validate loads workflowFile and validates inputs against it. Load failures
// are returned as errors and never folded into the Result.
func (l *Loader) Validate(ctx context.Context, owner, repo, workflowFile string, inputs map[string]any) (*Schema, *Result, error) {
	schema, err := l.Load(ctx, owner, repo, workflowFile)
	if err != nil {
		return nil, nil, err
	}
	return schema, Validate(schema, inputs), nil
}

// Preflight loads workflowFile and returns a *ValidationError when inputs do
// not match it.
func (l *Loader) Preflight(ctx context.Context, owner, repo, workflowFile string, inputs map[string]any) error {
	schema, err := l.Load(ctx, owner, repo, workflowFile)
	if err != nil {
		return err
	}
	return Preflight(schema, inputs)
}
