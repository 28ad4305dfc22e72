package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/YoungY620/foldertxt/aggregator"
	"github.com/YoungY620/foldertxt/internal"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write <folder>.txt files and the consolidated file once, then exit",
	Long: `Walks the root directory, writes one <folder>.txt per subfolder that contains
matching source files and one consolidated file with every file, then exits.
This is the default command.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	// dump is the default command when no subcommand is provided
	rootCmd.RunE = runDump
	rootCmd.Args = cobra.NoArgs
}

func runDump(cmd *cobra.Command, args []string) error {
	workDir, err := resolveWorkDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfigAndSetup(cmd, workDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// nothing, not even the history file, is created for a missing root
	if _, err := os.Stat(workDir); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "The folder '%s' does not exist.\n", workDir)
		return nil
	}

	closeHistory := openHistory(cfg, "dump")
	defer closeHistory()

	res, err := aggregator.Aggregate(cmd.Context(), workDir, cfg.aggregatorOptions(out))
	if err != nil {
		return err
	}
	if res.Missing {
		return nil
	}
	internal.LogDebug("Dump completed in %s", res.Duration)
	aggregator.WriteSummary(out, res)
	return nil
}
