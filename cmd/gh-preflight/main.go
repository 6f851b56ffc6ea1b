package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/cli"
	"github.com/agenticqa/gh-preflight/pkg/constants"
)

// Set by the release build with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   constants.ExtensionName,
	Short: "GitHub CLI extension that checks workflow_dispatch inputs before a run is triggered",
	Long: `gh preflight checks workflow_dispatch inputs against the inputs a GitHub Actions
workflow declares before anything is triggered. A missing workflow file, a rejected
credential and inputs the workflow does not accept are reported as separate failures,
together with the inputs the workflow expects.

Common tasks:
  ` + string(constants.CLIExtensionPrefix) + ` inputs agentic-qa.yml                 # Show declared inputs
  ` + string(constants.CLIExtensionPrefix) + ` validate -f pipeline_type=full        # Check inputs against the candidates
  ` + string(constants.CLIExtensionPrefix) + ` dispatch -f pipeline_type=full --wait # Validate, trigger and follow the run`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cli.SetVersionInfo(version)
	rootCmd.Version = cli.GetVersion()

	rootCmd.AddGroup(
		&cobra.Group{ID: "validation", Title: "Validation Commands:"},
		&cobra.Group{ID: "execution", Title: "Execution Commands:"},
		&cobra.Group{ID: "utilities", Title: "Utilities:"},
	)
	cli.AddGlobalFlags(rootCmd)

	validateCmd := cli.NewValidateCommand()
	validateCmd.GroupID = "validation"
	inputsCmd := cli.NewInputsCommand()
	inputsCmd.GroupID = "validation"
	dispatchCmd := cli.NewDispatchCommand()
	dispatchCmd.GroupID = "execution"
	mcpServerCmd := cli.NewMCPServerCommand()
	mcpServerCmd.GroupID = "utilities"

	rootCmd.AddCommand(validateCmd, inputsCmd, dispatchCmd, mcpServerCmd, cli.NewVersionCommand())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if !errors.Is(err, cli.ErrValidationFailed) && !errors.Is(err, context.Canceled) {
		cli.PrintValidationError(err)
	}
	os.Exit(1)
}
