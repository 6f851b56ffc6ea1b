// Package config loads gh preflight settings from command-line flags, the
// environment (PREFLIGHT_*) and an optional preflight.yml file, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/fileutil"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var log = logger.New("config:config")

// Config holds the settings shared by all commands.
type Config struct {
	// Repo is the target repository as owner/repo. Empty means the current
	// checkout's repository.
	Repo string `mapstructure:"repo"`
	// Ref is the branch or tag workflows are read from and dispatched on.
	Ref string `mapstructure:"ref"`
	// Host is the GitHub host.
	Host string `mapstructure:"host"`
	// Token overrides the gh CLI credential.
	Token string `mapstructure:"token"`
	// Candidates is the ordered list of workflow files tried by fallback.
	Candidates []string `mapstructure:"candidates"`
	// Lint runs actionlint over fetched workflows.
	Lint bool `mapstructure:"lint"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load reads configuration. configFile names an explicit file, which must
// exist; when empty, preflight.{yml,yaml,json,toml} is looked up in the
// working directory and in .github. flags may be nil.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("host", constants.DefaultHost)
	v.SetDefault("candidates", constants.DefaultCandidates)
	v.SetDefault("lint", false)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"repo", "ref", "host", "token", "candidates", "lint"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if configFile != "" {
		if !fileutil.FileExists(configFile) {
			return nil, fmt.Errorf("config file %s does not exist", configFile)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.AddConfigPath(".")
		v.AddConfigPath(".github")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Print("No config file found, using flags and environment only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Candidates = normalizeCandidates(cfg.Candidates)
	log.Printf("Loaded config: file=%q, repo=%q, ref=%q, host=%s, candidates=%v, lint=%v",
		cfg.File, cfg.Repo, cfg.Ref, cfg.Host, cfg.Candidates, cfg.Lint)
	return &cfg, nil
}

// normalizeCandidates splits comma-joined entries from the environment and
// drops blanks.
func normalizeCandidates(in []string) []string {
	var out []string
	for _, entry := range in {
		for part := range strings.SplitSeq(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
