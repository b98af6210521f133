package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tinysh/internal/config"
	"tinysh/internal/shell"
)

func NewRootCmd() *cobra.Command {
	var (
		cfgPath  string
		verbose  bool
		noPrompt bool
	)

	root := &cobra.Command{
		Use:   "tinysh",
		Short: "A tiny interactive shell with job control",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if verbose {
				cfg.Verbose = true
			}
			if noPrompt {
				cfg.Prompt = ""
			}

			sh, err := shell.New(cfg, os.Stdout)
			if err != nil {
				return err
			}
			return sh.Run()
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "Path to the shell configuration file")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print additional diagnostic information")
	root.Flags().BoolVarP(&noPrompt, "no-prompt", "p", false, "Do not emit a command prompt")
	root.SilenceUsage = true

	return root
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tinysh.yml"
	}
	return filepath.Join(home, ".tinysh.yml")
}

// Execute runs the CLI entrypoint.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
