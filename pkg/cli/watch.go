package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var watchLog = logger.New("cli:watch")

// watchDebounce coalesces the burst of events editors emit on save.
var watchDebounce = 300 * time.Millisecond

// WatchWorkflows validates once, then again whenever a watched workflow file
// changes, until ctx is cancelled. Validation failures are printed and do not
// stop the watch.
func WatchWorkflows(ctx context.Context, env *commandEnv, opts ValidateOptions, stdout, stderr io.Writer) error {
	files, err := env.workflows(opts.Workflows)
	if err != nil {
		return err
	}

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		full := filepath.Clean(filepath.Join(opts.LocalDir, filepath.FromSlash(dispatch.WorkflowPath(f))))
		watched[full] = true
		dirs[filepath.Dir(full)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchLog.Printf("Watching directory %s", dir)
	}

	run := func() {
		if err := RunValidate(ctx, env, opts, stdout, stderr); err != nil && !errors.Is(err, ErrValidationFailed) {
			fmt.Fprintln(stderr, FormatValidationError(err))
		}
		fmt.Fprintln(stderr, console.FormatInfoMessage("Watching for changes (Ctrl+C to stop)..."))
	}
	run()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			watchLog.Print("Watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			watchLog.Printf("Change detected: %s", event)
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(stderr, console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
		case <-debounce:
			debounce = nil
			run()
		}
	}
}
