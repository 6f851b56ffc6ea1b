package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var dispatchLog = logger.New("cli:dispatch_command")

// DispatchOptions are the parsed flags of the dispatch command.
type DispatchOptions struct {
	Workflows   []string
	Inputs      map[string]any
	DryRun      bool
	Wait        bool
	Interactive bool
	JSONOutput  bool
}

// DispatchOutcome is the JSON form of a dispatch.
type DispatchOutcome struct {
	Workflow  string         `json:"workflow"`
	Ref       string         `json:"ref"`
	Inputs    map[string]any `json:"inputs"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Skipped   []Report       `json:"skipped,omitempty"`
	RunID     int64          `json:"run_id,omitempty"`
	RunURL    string         `json:"run_url,omitempty"`
	RunStatus string         `json:"run_status,omitempty"`
}

// NewDispatchCommand creates the dispatch command
func NewDispatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch [workflow]...",
		Short: "Validate inputs and trigger the first workflow that accepts them",
		Long: `Trigger a workflow_dispatch run after checking the inputs against the workflow.

The given workflows (or the configured candidates) are tried in order; the first
one whose declared inputs accept the supplied inputs is dispatched with exactly
the inputs it declares. Nothing is dispatched when no workflow accepts them.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` dispatch -f pipeline_type=full
  ` + string(constants.CLIExtensionPrefix) + ` dispatch agentic-qa.yml ci.yml -f pipeline_type=tests --wait
  ` + string(constants.CLIExtensionPrefix) + ` dispatch agentic-qa.yml --interactive
  ` + string(constants.CLIExtensionPrefix) + ` dispatch --dry-run --json -f pipeline_type=security`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := inputsFromFlags(cmd)
			if err != nil {
				return err
			}
			opts := DispatchOptions{Workflows: args, Inputs: inputs}
			opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
			opts.Wait, _ = cmd.Flags().GetBool("wait")
			opts.Interactive, _ = cmd.Flags().GetBool("interactive")
			opts.JSONOutput, _ = cmd.Flags().GetBool("json")

			env, err := newCommandEnv(cmd, "")
			if err != nil {
				return err
			}
			return RunDispatch(cmd.Context(), env, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addInputFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Select and validate the workflow but do not trigger it")
	cmd.Flags().Bool("wait", false, "Wait for the triggered run to appear and print its URL")
	cmd.Flags().BoolP("interactive", "i", false, "Prompt for missing required inputs")
	cmd.Flags().BoolP("json", "j", false, "Output the outcome in JSON format")
	return cmd
}

// RunDispatch selects a workflow for opts.Inputs and triggers it.
func RunDispatch(ctx context.Context, env *commandEnv, opts DispatchOptions, stdout, stderr io.Writer) error {
	if env.client == nil {
		return errors.New("dispatch needs a GitHub repository")
	}
	files, err := env.workflows(opts.Workflows)
	if err != nil {
		return err
	}
	owner, repo := env.repo.Owner, env.repo.Name
	dispatchLog.Printf("Running dispatch: repo=%s/%s, candidates=%v, inputs=%d", owner, repo, files, len(opts.Inputs))

	inputs := opts.Inputs
	if opts.Interactive {
		if inputs, err = promptForFirstLoadable(ctx, env, files, inputs); err != nil {
			return err
		}
	}

	var trying string
	selector := dispatch.NewSelector(env.loader, func(state dispatch.State, file string) {
		if state == dispatch.StateTrying {
			trying = file
			console.LogVerbose(env.verbose, fmt.Sprintf("Trying %s in %s", file, env.target()))
		}
	})
	sel, err := selector.Select(ctx, owner, repo, files, inputs)
	if err != nil {
		var exhausted *dispatch.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				RenderAttempt(stderr, a)
			}
			fmt.Fprintln(stderr, console.FormatErrorMessage("Nothing was dispatched: no candidate workflow accepts the inputs"))
			return ErrValidationFailed
		}
		if dispatch.IsAuth(err) {
			RenderFetchError(stderr, trying, err)
			return ErrValidationFailed
		}
		return err
	}

	if env.verbose {
		for _, a := range sel.Trail {
			RenderAttempt(stderr, a)
		}
	}
	RenderWarnings(stderr, sel.File, sel.Schema.Warnings)

	// Last check before the irreversible call.
	if err := dispatch.Preflight(sel.Schema, sel.Result.FilteredInputs); err != nil {
		return err
	}

	ref := env.cfg.Ref
	if ref == "" {
		if ref, err = env.client.DefaultBranch(ctx, owner, repo); err != nil {
			return err
		}
	}

	outcome := DispatchOutcome{Workflow: sel.File, Ref: ref, Inputs: sel.Result.FilteredInputs, DryRun: opts.DryRun}
	for _, a := range sel.Trail {
		outcome.Skipped = append(outcome.Skipped, NewReport(a))
	}

	if opts.DryRun {
		if opts.JSONOutput {
			return WriteJSON(stdout, outcome)
		}
		fmt.Fprintln(stderr, console.FormatInfoMessage(fmt.Sprintf("Dry run: would dispatch %s on %s in %s with inputs:", sel.File, ref, env.target())))
		return WriteJSON(stderr, sel.Result.FilteredInputs)
	}

	dispatchedAt := time.Now().UTC()
	if err := env.client.DispatchWorkflow(ctx, owner, repo, sel.File, ref, sel.Result.FilteredInputs); err != nil {
		RenderFetchError(stderr, sel.File, err)
		var rejected *ghapi.DispatchRejectedError
		if errors.As(err, &rejected) {
			fmt.Fprintln(stderr, console.FormatInfoMessage("Expected inputs: "+formatNames(sel.Result.ExpectedInputs)))
		}
		return ErrValidationFailed
	}
	fmt.Fprintln(stderr, console.FormatSuccessMessage(fmt.Sprintf("Dispatched %s on %s in %s", sel.File, ref, env.target())))

	if opts.Wait {
		run, err := waitForRun(ctx, env.client, owner, repo, sel.File, ref, dispatchedAt, env.verbose)
		if err != nil {
			return err
		}
		outcome.RunID, outcome.RunURL, outcome.RunStatus = run.ID, run.URL, run.Status
		if !opts.JSONOutput {
			fmt.Fprintln(stderr, console.FormatInfoMessage(fmt.Sprintf("Run %d (%s): %s", run.ID, run.Status, run.URL)))
		}
	}

	if opts.JSONOutput {
		return WriteJSON(stdout, outcome)
	}
	return nil
}

// promptForFirstLoadable prompts for the missing required inputs of the
// first candidate that loads. Auth failures abort; other load failures are
// left for the selection to report.
func promptForFirstLoadable(ctx context.Context, env *commandEnv, files []string, inputs map[string]any) (map[string]any, error) {
	for _, file := range files {
		schema, err := env.loader.Load(ctx, env.repo.Owner, env.repo.Name, file)
		if err != nil {
			if dispatch.IsAuth(err) {
				return nil, err
			}
			continue
		}
		return promptMissingInputs(schema, inputs)
	}
	return inputs, nil
}
