package ghapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/fileutil"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var localLog = logger.New("ghapi:local")

// FileFetcher reads workflow files from a local checkout instead of the API.
// Owner and repository arguments are ignored.
type FileFetcher struct {
	Root string
}

// NewFileFetcher creates a FileFetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Root: dir}
}

// FetchFile reads filePath relative to the checkout root.
func (f *FileFetcher) FetchFile(ctx context.Context, _, _, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, inside := fileutil.WithinRoot(f.Root, filePath)
	if !inside {
		return nil, fmt.Errorf("%s is outside the checkout %s", filePath, f.Root)
	}
	if fileutil.DirExists(full) {
		return nil, &dispatch.NotFoundError{Repo: f.Root, Path: filePath}
	}
	localLog.Printf("Reading %s", full)

	content, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &dispatch.NotFoundError{Repo: f.Root, Path: filePath, Err: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", full, err)
	}
	return content, nil
}
