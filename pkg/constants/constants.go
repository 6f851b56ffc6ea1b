// Package constants holds names and defaults shared across gh-preflight.
package constants

import "path/filepath"

// CommandPrefix is how the extension is invoked; used in help text examples.
type CommandPrefix string

// CLIExtensionPrefix is the command users type.
const CLIExtensionPrefix CommandPrefix = "gh preflight"

// ExtensionName is the repository and binary name of the extension.
const ExtensionName = "gh-preflight"

// WorkflowsDir is where GitHub looks for workflow files, relative to the
// repository root.
const WorkflowsDir = ".github/workflows"

// DispatchTrigger is the event name that makes a workflow manually runnable.
const DispatchTrigger = "workflow_dispatch"

// DefaultHost is used when neither a flag nor the environment names a host.
const DefaultHost = "github.com"

// ConfigFileName is the base name viper searches for (preflight.yml, .yaml, ...).
const ConfigFileName = "preflight"

// EnvPrefix namespaces environment overrides, e.g. PREFLIGHT_REPO.
const EnvPrefix = "PREFLIGHT"

// MaxSuggestions caps "did you mean" hints per unknown input.
const MaxSuggestions = 3

// MaxSuggestionDistance is the largest edit distance still offered as a hint.
const MaxSuggestionDistance = 3

// DefaultCandidates are the workflow files tried, in order, when neither
// arguments nor configuration name any.
var DefaultCandidates = []string{"agentic-qa.yml", "agentic-qa-pipeline.yml", "ci.yml"}

// GetWorkflowDir returns WorkflowsDir with OS separators.
func GetWorkflowDir() string {
	return filepath.FromSlash(WorkflowsDir)
}
