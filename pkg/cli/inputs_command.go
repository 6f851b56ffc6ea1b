package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/console"
	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var inputsLog = logger.New("cli:inputs_command")

// InputInfo describes one declared input for display and JSON output.
type InputInfo struct {
	Name        string   `json:"name" jsonschema:"input name"`
	Type        string   `json:"type" jsonschema:"type as declared in the workflow"`
	Required    bool     `json:"required"`
	Default     *string  `json:"default,omitempty"`
	Options     []string `json:"options,omitempty" jsonschema:"allowed values of a choice input"`
	Description string   `json:"description,omitempty"`
}

// DescribeInputs lists a schema's inputs in declaration order.
func DescribeInputs(schema *dispatch.Schema) []InputInfo {
	infos := make([]InputInfo, 0, schema.Len())
	for _, in := range schema.Inputs() {
		meta := in.Meta()
		info := InputInfo{
			Name:        meta.Name,
			Type:        meta.DeclaredType,
			Required:    meta.Required,
			Default:     meta.Default,
			Description: meta.Description,
		}
		if choice, ok := in.(dispatch.ChoiceInput); ok {
			info.Options = choice.Options
		}
		infos = append(infos, info)
	}
	return infos
}

// NewInputsCommand creates the inputs command
func NewInputsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inputs <workflow>",
		Short: "Show the dispatch inputs a workflow declares",
		Long: `Show the workflow_dispatch inputs a workflow declares, in declaration order.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` inputs agentic-qa.yml
  ` + string(constants.CLIExtensionPrefix) + ` inputs agentic-qa.yml --repo octo/site --json
  ` + string(constants.CLIExtensionPrefix) + ` inputs ci.yml --local .`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			localDir, _ := cmd.Flags().GetString("local")

			env, err := newCommandEnv(cmd, localDir)
			if err != nil {
				return err
			}
			return RunInputs(cmd.Context(), env, args[0], jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output inputs in JSON format")
	cmd.Flags().String("local", "", "Read the workflow from a local checkout `dir` instead of GitHub")
	return cmd
}

// RunInputs prints the declared inputs of workflow.
func RunInputs(ctx context.Context, env *commandEnv, workflow string, jsonOutput bool, stdout, stderr io.Writer) error {
	inputsLog.Printf("Listing inputs of %s in %s", workflow, env.target())

	schema, err := env.loader.Load(ctx, env.repo.Owner, env.repo.Name, workflow)
	if err != nil {
		RenderFetchError(stderr, workflow, err)
		return ErrValidationFailed
	}
	infos := DescribeInputs(schema)

	if jsonOutput {
		return WriteJSON(stdout, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(stderr, console.FormatInfoMessage(fmt.Sprintf("%s accepts no inputs", schema.Path)))
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		def := ""
		if info.Default != nil {
			def = *info.Default
		}
		required := ""
		if info.Required {
			required = "yes"
		}
		rows = append(rows, []string{info.Name, info.Type, required, def, strings.Join(info.Options, ", "), info.Description})
	}
	fmt.Fprint(stdout, console.RenderTable(console.TableConfig{
		Title:   schema.Path,
		Headers: []string{"Name", "Type", "Required", "Default", "Options", "Description"},
		Rows:    rows,
	}))
	RenderWarnings(stderr, schema.Path, schema.Warnings)
	return nil
}
