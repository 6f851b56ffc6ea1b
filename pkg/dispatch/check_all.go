package dispatch

import (
	"context"

	"github.com/sourcegraph/conc/iter"
)

// CheckAll loads and validates every file concurrently and returns one
// Attempt per distinct file in input order. Unlike Selector.Select it never
// stops early, so auth failures appear as per-file errors.
func CheckAll(ctx context.Context, loader SchemaLoader, owner, repo string, files []string, inputs map[string]any) []Attempt {
	files = dedupe(files)
	fallbackLog.Printf("Checking %d workflow files concurrently", len(files))

	return iter.Map(files, func(file *string) Attempt {
		if err := ctx.Err(); err != nil {
			return Attempt{File: *file, Err: err}
		}
		schema, err := loader.Load(ctx, owner, repo, *file)
		if err != nil {
			return Attempt{File: *file, Err: err}
		}
		return Attempt{File: *file, Schema: schema, Result: Validate(schema, inputs)}
	})
}
