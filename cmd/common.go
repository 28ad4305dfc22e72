package cmd

import (
	"io"

	"github.com/YoungY620/foldertxt/aggregator"
	"github.com/YoungY620/foldertxt/internal"
	"github.com/spf13/cobra"
)

// loadConfigAndSetup loads config, applies flag overrides and sets up logging
func loadConfigAndSetup(cmd *cobra.Command, workDir string) (*Config, error) {
	cfg, err := LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := validateConsolidatedName(cfg.ConsolidatedName); err != nil {
		return nil, err
	}

	internal.SetLogLevel(cfg.LogLevel)
	internal.LogDebug("Config loaded: ext=%s, logLevel=%s, debounce=%dms, maxWait=%dms",
		cfg.Extension, cfg.LogLevel, cfg.Watch.DebounceMs, cfg.Watch.MaxWaitMs)
	internal.LogDebug("Resolved configuration:\n%s", cfg.PrettyYAML())

	if gitignoreFlag {
		if err := cfg.MergeGitignore(workDir); err != nil {
			internal.LogError("Failed to load .gitignore: %v", err)
		}
	}
	internal.LogDebug("Total ignore patterns: %d", len(cfg.IgnorePatterns))

	return cfg, nil
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("ext") {
		cfg.Extension = extFlag
	}
	if flags.Changed("output") {
		cfg.ConsolidatedName = outputFlag
	}
	if flags.Changed("history") {
		cfg.HistoryFile = historyFlag
	}
}

// aggregatorOptions maps the config onto aggregator options
func (c *Config) aggregatorOptions(out io.Writer) aggregator.Options {
	return aggregator.Options{
		Extension:        c.Extension,
		ConsolidatedName: c.ConsolidatedName,
		IgnorePatterns:   c.IgnorePatterns,
		Out:              out,
	}
}

// openHistory starts the run history if configured; the returned func closes it
func openHistory(cfg *Config, source string) func() {
	if cfg.HistoryFile == "" {
		return func() {}
	}
	internal.InitHistoryLogger(cfg.HistoryFile, source)
	return internal.CloseHistoryLogger
}
