package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/envutil"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/agenticqa/gh-preflight/pkg/timeutil"
)

var runWorkflowTrackingLog = logger.New("cli:run_workflow_tracking")

// RunLister finds the latest dispatch run of a workflow.
type RunLister interface {
	LatestDispatchRun(ctx context.Context, owner, repo, workflowFile, branch string) (*ghapi.WorkflowRun, error)
}

// waitAttemptsEnv overrides how many times waitForRun polls.
const waitAttemptsEnv = "PREFLIGHT_WAIT_ATTEMPTS"

// runPolling controls how waitForRun retries. Tests shrink the delays.
var runPolling = struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	tolerance    time.Duration
}{
	maxRetries:   6,
	initialDelay: 2 * time.Second,
	maxDelay:     10 * time.Second,
	tolerance:    30 * time.Second,
}

// waitForRun polls for the run created by a dispatch issued at dispatchedAt.
// GitHub does not return the run from the dispatch call, so the newest
// dispatch run on ref created after dispatchedAt (minus clock skew tolerance)
// is taken to be it. After half the attempts an older run is accepted.
func waitForRun(ctx context.Context, lister RunLister, owner, repo, workflowFile, ref string, dispatchedAt time.Time, verbose bool) (*ghapi.WorkflowRun, error) {
	maxRetries := envutil.GetIntFromEnv(waitAttemptsEnv, runPolling.maxRetries, 1, 30, runWorkflowTrackingLog)
	runWorkflowTrackingLog.Printf("Waiting for run: workflow=%s, repo=%s/%s, ref=%s, max_retries=%d", workflowFile, owner, repo, ref, maxRetries)

	var spinner *console.SpinnerWrapper
	if !verbose {
		spinner = console.NewSpinner("Waiting for workflow run to appear...")
	}
	stopSpinner := func(msg string) {
		if spinner == nil {
			return
		}
		if msg == "" {
			spinner.Stop()
		} else {
			spinner.StopWithMessage(msg)
		}
	}

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			delay := min(time.Duration(attempt)*runPolling.initialDelay, runPolling.maxDelay)
			console.LogVerbose(verbose, fmt.Sprintf("Waiting %s before retry attempt %d/%d...", timeutil.FormatDuration(delay), attempt+1, maxRetries))
			if attempt == 1 && spinner != nil {
				spinner.Start()
			}
			if spinner != nil {
				spinner.UpdateMessage(fmt.Sprintf("Waiting for workflow run... (attempt %d/%d, %s elapsed)",
					attempt+1, maxRetries, timeutil.FormatDuration(time.Since(dispatchedAt).Round(time.Second))))
			}
			select {
			case <-ctx.Done():
				stopSpinner("")
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		run, err := lister.LatestDispatchRun(ctx, owner, repo, workflowFile, ref)
		if err != nil {
			if dispatch.IsAuth(err) {
				stopSpinner("")
				return nil, err
			}
			lastErr = err
			runWorkflowTrackingLog.Printf("Attempt %d/%d failed: %v", attempt+1, maxRetries, err)
			console.LogVerbose(verbose, fmt.Sprintf("Attempt %d/%d failed: %v", attempt+1, maxRetries, err))
			continue
		}
		if run == nil {
			lastErr = errors.New("no runs found for workflow")
			console.LogVerbose(verbose, fmt.Sprintf("Attempt %d/%d: no runs found yet", attempt+1, maxRetries))
			continue
		}

		if !run.CreatedAt.IsZero() && run.CreatedAt.After(dispatchedAt.Add(-runPolling.tolerance)) {
			runWorkflowTrackingLog.Printf("Found matching run: id=%d, created_at=%s", run.ID, run.CreatedAt.Format(time.RFC3339))
			stopSpinner("✓ Found workflow run")
			return run, nil
		}

		console.LogVerbose(verbose, fmt.Sprintf("Attempt %d/%d: latest run %d was created at %s, before the dispatch",
			attempt+1, maxRetries, run.ID, run.CreatedAt.Format(time.RFC3339)))
		if attempt < maxRetries/2 {
			lastErr = errors.New("workflow run appears to be from a previous dispatch")
			continue
		}

		console.LogVerbose(verbose, fmt.Sprintf("Returning run %d after %d attempts (timing uncertain)", run.ID, attempt+1))
		stopSpinner("✓ Found workflow run")
		return run, nil
	}

	stopSpinner("")
	if lastErr != nil {
		return nil, fmt.Errorf("failed to find the workflow run after %d attempts: %w", maxRetries, lastErr)
	}
	return nil, fmt.Errorf("no workflow run found after %d attempts", maxRetries)
}
