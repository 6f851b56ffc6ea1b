package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var validateLog = logger.New("cli:validate_command")

// ValidateOptions are the parsed flags of the validate command.
type ValidateOptions struct {
	Workflows  []string
	Inputs     map[string]any
	All        bool
	JSONOutput bool
	LocalDir   string
	Watch      bool
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [workflow]...",
		Short: "Check dispatch inputs against a workflow without triggering it",
		Long: `Check workflow_dispatch inputs against the inputs a workflow declares, without
triggering a run. Failures list every mismatch together with the inputs the workflow
expects.

With workflow arguments, each workflow is checked. Without arguments, the configured
candidates are tried in order and the first one that accepts the inputs is reported;
--all checks every candidate instead.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` validate agentic-qa.yml -f pipeline_type=full
  ` + string(constants.CLIExtensionPrefix) + ` validate -f pipeline_type=full -F run_audit=true
  ` + string(constants.CLIExtensionPrefix) + ` validate --all --json -f pipeline_type=tests
  ` + string(constants.CLIExtensionPrefix) + ` validate ci.yml --local . --watch -f suite=smoke`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := inputsFromFlags(cmd)
			if err != nil {
				return err
			}
			opts := ValidateOptions{Workflows: args, Inputs: inputs}
			opts.All, _ = cmd.Flags().GetBool("all")
			opts.JSONOutput, _ = cmd.Flags().GetBool("json")
			opts.LocalDir, _ = cmd.Flags().GetString("local")
			opts.Watch, _ = cmd.Flags().GetBool("watch")
			if opts.Watch && opts.LocalDir == "" {
				opts.LocalDir = "."
			}

			env, err := newCommandEnv(cmd, opts.LocalDir)
			if err != nil {
				return err
			}
			if opts.Watch {
				return WatchWorkflows(cmd.Context(), env, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			return RunValidate(cmd.Context(), env, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addInputFlags(cmd)
	cmd.Flags().Bool("all", false, "Check every candidate instead of stopping at the first match")
	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
	cmd.Flags().String("local", "", "Read workflows from a local checkout `dir` instead of GitHub")
	cmd.Flags().BoolP("watch", "w", false, "Re-validate whenever a local workflow file changes (implies --local .)")

	return cmd
}

// RunValidate checks the workflows selected by opts and prints the outcome.
// It returns ErrValidationFailed when no workflow accepts the inputs.
func RunValidate(ctx context.Context, env *commandEnv, opts ValidateOptions, stdout, stderr io.Writer) error {
	validateLog.Printf("Running validate: workflows=%v, all=%v, inputs=%d", opts.Workflows, opts.All, len(opts.Inputs))

	files, err := env.workflows(opts.Workflows)
	if err != nil {
		return err
	}
	if len(opts.Workflows) == 0 && !opts.All {
		return runFallbackCheck(ctx, env, files, opts, stdout, stderr)
	}

	attempts := dispatch.CheckAll(ctx, env.loader, env.repo.Owner, env.repo.Name, files, opts.Inputs)
	failed := 0
	reports := make([]Report, 0, len(attempts))
	for _, a := range attempts {
		if a.Failed() {
			failed++
		}
		reports = append(reports, NewReport(a))
		if !opts.JSONOutput {
			RenderAttempt(stderr, a)
		}
	}

	if opts.JSONOutput {
		if err := WriteJSON(stdout, reports); err != nil {
			return err
		}
	} else if len(attempts) > 1 {
		fmt.Fprintln(stderr, console.FormatInfoMessage(fmt.Sprintf("%d of %d workflows accept the inputs", len(attempts)-failed, len(attempts))))
	}

	if failed == len(attempts) || (len(opts.Workflows) > 0 && failed > 0) {
		return ErrValidationFailed
	}
	return nil
}

func runFallbackCheck(ctx context.Context, env *commandEnv, files []string, opts ValidateOptions, stdout, stderr io.Writer) error {
	selector := dispatch.NewSelector(env.loader, func(state dispatch.State, file string) {
		if state == dispatch.StateTrying {
			console.LogVerbose(env.verbose, fmt.Sprintf("Trying %s in %s", file, env.target()))
		}
	})

	sel, err := selector.Select(ctx, env.repo.Owner, env.repo.Name, files, opts.Inputs)
	if err != nil {
		var exhausted *dispatch.ExhaustedError
		if !errors.As(err, &exhausted) {
			return err
		}
		if opts.JSONOutput {
			reports := make([]Report, 0, len(exhausted.Attempts))
			for _, a := range exhausted.Attempts {
				reports = append(reports, NewReport(a))
			}
			if err := WriteJSON(stdout, reports); err != nil {
				return err
			}
			return ErrValidationFailed
		}
		for _, a := range exhausted.Attempts {
			RenderAttempt(stderr, a)
		}
		fmt.Fprintln(stderr, console.FormatErrorMessage(fmt.Sprintf("None of %d candidate workflows accept the inputs", len(exhausted.Attempts))))
		return ErrValidationFailed
	}

	if opts.JSONOutput {
		return WriteJSON(stdout, []Report{NewReport(dispatch.Attempt{File: sel.File, Schema: sel.Schema, Result: sel.Result})})
	}
	if env.verbose {
		for _, a := range sel.Trail {
			RenderAttempt(stderr, a)
		}
	}
	RenderResult(stderr, sel.File, sel.Result)
	RenderWarnings(stderr, sel.File, sel.Schema.Warnings)
	return nil
}
