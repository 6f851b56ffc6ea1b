package cli

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/agenticqa/gh-preflight/pkg/repoutil"
)

var mcpServerLog = logger.New("cli:mcp_server")

// ValidateToolArgs are the arguments of the validate_dispatch_inputs tool.
type ValidateToolArgs struct {
	Repo     string         `json:"repo,omitempty" jsonschema:"repository as owner/repo; defaults to the server's repository"`
	Workflow string         `json:"workflow" jsonschema:"workflow file name such as agentic-qa.yml, or a repository path"`
	Inputs   map[string]any `json:"inputs,omitempty" jsonschema:"candidate workflow_dispatch inputs; values are strings or booleans"`
}

// ListInputsToolArgs are the arguments of the list_workflow_inputs tool.
type ListInputsToolArgs struct {
	Repo     string `json:"repo,omitempty" jsonschema:"repository as owner/repo; defaults to the server's repository"`
	Workflow string `json:"workflow" jsonschema:"workflow file name such as agentic-qa.yml, or a repository path"`
}

// ListInputsToolResult is the output of the list_workflow_inputs tool.
type ListInputsToolResult struct {
	Workflow string      `json:"workflow"`
	Inputs   []InputInfo `json:"inputs"`
}

// NewMCPServerCommand creates the mcp-server command
func NewMCPServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve dispatch input validation to agents over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout so agents can check their
workflow_dispatch inputs, and read what a workflow expects, before dispatching.

Tools:
  validate_dispatch_inputs  Check inputs against a workflow and report every mismatch
  list_workflow_inputs      List the inputs a workflow declares

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` mcp-server
  ` + string(constants.CLIExtensionPrefix) + ` mcp-server --repo octo/site
  ` + string(constants.CLIExtensionPrefix) + ` mcp-server --local .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			localDir, _ := cmd.Flags().GetString("local")
			env, err := newCommandEnv(cmd, localDir)
			if err != nil {
				return err
			}
			mcpServerLog.Printf("Starting MCP server: target=%s", env.target())
			return NewMCPServer(env).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}

	cmd.Flags().String("local", "", "Read workflows from a local checkout `dir` instead of GitHub")
	return cmd
}

// NewMCPServer builds the MCP server exposing the validation tools.
func NewMCPServer(env *commandEnv) *mcp.Server {
	toolLog := logger.NewSlogLogger("cli:mcp_server")
	server := mcp.NewServer(&mcp.Implementation{Name: constants.ExtensionName, Version: GetVersion()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "validate_dispatch_inputs",
		Description: "Check workflow_dispatch inputs against the inputs a GitHub Actions workflow declares. " +
			"Returns every mismatch, the expected input names, the inputs that would be sent, and suggestions for misspelled names. " +
			"Fails when the workflow cannot be read (missing file, bad credential or no workflow_dispatch trigger).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args ValidateToolArgs) (*mcp.CallToolResult, Report, error) {
		toolLog.Info("validate_dispatch_inputs", "repo", args.Repo, "workflow", args.Workflow, "inputs", len(args.Inputs))
		repo, err := env.toolRepo(args.Repo)
		if err != nil {
			return nil, Report{}, err
		}
		schema, err := env.loader.Load(ctx, repo.Owner, repo.Name, args.Workflow)
		if err != nil {
			return nil, Report{}, err
		}
		result := dispatch.Validate(schema, args.Inputs)
		return nil, NewReport(dispatch.Attempt{File: args.Workflow, Schema: schema, Result: result}), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_workflow_inputs",
		Description: "List the workflow_dispatch inputs a GitHub Actions workflow declares, with types, allowed values and defaults.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args ListInputsToolArgs) (*mcp.CallToolResult, ListInputsToolResult, error) {
		toolLog.Info("list_workflow_inputs", "repo", args.Repo, "workflow", args.Workflow)
		repo, err := env.toolRepo(args.Repo)
		if err != nil {
			return nil, ListInputsToolResult{}, err
		}
		schema, err := env.loader.Load(ctx, repo.Owner, repo.Name, args.Workflow)
		if err != nil {
			return nil, ListInputsToolResult{}, err
		}
		return nil, ListInputsToolResult{Workflow: schema.Path, Inputs: DescribeInputs(schema)}, nil
	})

	return server
}

// toolRepo picks the repository a tool call targets.
func (e *commandEnv) toolRepo(slug string) (repoutil.Repository, error) {
	if slug == "" || e.client == nil {
		return e.repo, nil
	}
	owner, name, err := repoutil.SplitRepoSlug(slug)
	if err != nil {
		return repoutil.Repository{}, fmt.Errorf("invalid repo argument: %w", err)
	}
	return repoutil.Repository{Host: e.repo.Host, Owner: owner, Name: name}, nil
}
