package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	// Version is set by main.go from build flags
	Version = "dev"

	// Global flags
	pathFlag      string
	logLevel      string
	configFlag    string
	extFlag       string
	outputFlag    string
	historyFlag   string
	gitignoreFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "foldertxt",
	Short: "Flatten source files into per-folder text files",
	Long: `foldertxt collects the source files of one type found in every subfolder
of a directory and writes them into <folder>.txt files plus one consolidated
file, all placed in that directory.

Commands:
  dump    Write the text files once and exit (default)
  watch   Write the text files, then rewrite them whenever sources change`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&pathFlag, "path", "p", "", "root directory (default: current dir)")
	flags.StringVar(&logLevel, "log-level", "", "log level: error/notice/info/debug")
	flags.StringVarP(&configFlag, "config", "c", "foldertxt.yaml", "config file path")
	flags.StringVarP(&extFlag, "ext", "e", "", "source file extension (default .dart)")
	flags.StringVarP(&outputFlag, "output", "o", "", "consolidated file name (default all_<ext>_files.txt)")
	flags.StringVar(&historyFlag, "history", "", "append a JSON-lines run history to this file")
	flags.BoolVar(&gitignoreFlag, "gitignore", false, "skip folders listed in the root .gitignore")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// resolveWorkDir resolves the root directory from the path flag
func resolveWorkDir() (string, error) {
	workDir := pathFlag
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	return filepath.Abs(workDir)
}
