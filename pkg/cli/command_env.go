package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticqa/gh-preflight/pkg/config"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/fileutil"
	"github.com/agenticqa/gh-preflight/pkg/ghapi"
	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/agenticqa/gh-preflight/pkg/repoutil"
)

var commandEnvLog = logger.New("cli:command_env")

// commandEnv is what every command needs once flags are parsed.
type commandEnv struct {
	cfg     *config.Config
	repo    repoutil.Repository
	client  *ghapi.Client // nil in --local mode
	loader  *dispatch.Loader
	verbose bool
}

// AddGlobalFlags registers the flags shared by all commands on root.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: preflight.yml in . or .github)")
	flags.StringP("repo", "R", "", "Target repository in `owner/repo` format (default: current repository)")
	flags.String("ref", "", "Branch or tag to read and dispatch workflows on (default: the default branch)")
	flags.String("host", "", "GitHub host (default: github.com)")
	flags.String("token", "", "GitHub token (default: GH_TOKEN, GITHUB_TOKEN or the gh CLI credential)")
	flags.StringSlice("candidates", nil, "Ordered workflow files to fall back across")
	flags.Bool("lint", false, "Run actionlint over each workflow and report findings")
	flags.BoolP("verbose", "v", false, "Show detailed progress")
}

// newCommandEnv loads configuration and builds the loader. localDir selects
// reading workflows from a checkout instead of the API.
func newCommandEnv(cmd *cobra.Command, localDir string) (*commandEnv, error) {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, err
	}
	env := &commandEnv{cfg: cfg, verbose: verbose}

	var fetcher dispatch.ContentFetcher
	if localDir != "" {
		dir, err := fileutil.ResolveDir(localDir)
		if err != nil {
			return nil, fmt.Errorf("invalid --local directory: %w", err)
		}
		commandEnvLog.Printf("Reading workflows from local directory %s", dir)
		fetcher = ghapi.NewFileFetcher(dir)
	} else {
		repo, err := ResolveRepo(cfg.Repo, cfg.Host)
		if err != nil {
			return nil, err
		}
		client, err := ghapi.NewClient(ghapi.Options{Host: repo.Host, Token: cfg.Token, Ref: cfg.Ref})
		if err != nil {
			return nil, err
		}
		env.repo = repo
		env.client = client
		fetcher = client
	}

	env.loader = dispatch.NewLoader(fetcher, dispatch.WithLint(cfg.Lint))
	commandEnvLog.Printf("Command environment ready: repo=%s, local=%v, lint=%v", env.repo.Slug(), localDir != "", cfg.Lint)
	return env, nil
}

// target describes where workflows are read from, for messages.
func (e *commandEnv) target() string {
	if e.client == nil {
		return "local checkout"
	}
	return e.repo.Slug()
}

// workflows returns args, or the configured candidates when args is empty.
func (e *commandEnv) workflows(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(e.cfg.Candidates) == 0 {
		return nil, fmt.Errorf("no workflow given and no candidates configured")
	}
	return e.cfg.Candidates, nil
}
