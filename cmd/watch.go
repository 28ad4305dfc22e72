package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/YoungY620/foldertxt/aggregator"
	"github.com/YoungY620/foldertxt/internal"
	"github.com/spf13/cobra"
)

var (
	skipInitial  bool
	debounceFlag int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Write the text files, then rewrite them whenever sources change",
	Long: `Runs a dump, then watches the root directory and runs it again after
source files or folders change. Only one watcher may run per directory.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "skip the initial dump")
	watchCmd.Flags().IntVar(&debounceFlag, "debounce", 0, "debounce in milliseconds (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	workDir, err := resolveWorkDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfigAndSetup(cmd, workDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") && debounceFlag > 0 {
		cfg.Watch.DebounceMs = debounceFlag
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(workDir); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "The folder '%s' does not exist.\n", workDir)
		return nil
	}

	lockFile, err := aggregator.TryLock(workDir)
	if err != nil {
		return err
	}
	defer aggregator.Unlock(lockFile)

	closeHistory := openHistory(cfg, "watch")
	defer closeHistory()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := aggregator.New(workDir, cfg.aggregatorOptions(out))

	aggregator.PrintBanner(out, aggregator.BannerOptions{
		WorkDir:      workDir,
		Version:      Version,
		Extension:    agg.Extension(),
		Consolidated: agg.ConsolidatedPath(),
	})

	if !skipInitial {
		if _, err := agg.Run(ctx); err != nil {
			return err
		}
	} else {
		internal.LogInfo("Skipping initial dump (--skip-initial)")
	}

	watcher, err := aggregator.NewWatcher(aggregator.WatchOptions{
		Root:           workDir,
		IgnorePatterns: cfg.IgnorePatterns,
		DebounceMs:     cfg.Watch.DebounceMs,
		MaxWaitMs:      cfg.Watch.MaxWaitMs,
		Relevant:       agg.Relevant,
		OnChange: func(paths []string) {
			internal.LogInfo("Triggered by %d changed paths", len(paths))
			internal.LogDebug("Changed paths: %v", paths)
			if _, err := agg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				internal.LogError("Dump failed: %v", err)
			}
		},
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	go func() {
		if err := watcher.Run(); err != nil {
			internal.LogError("Watcher error: %v", err)
		}
	}()

	internal.LogInfo("Watching %s for %s changes", workDir, agg.Extension())
	<-ctx.Done()
	internal.LogInfo("Shutting down...")
	return nil
}
