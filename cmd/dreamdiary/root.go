package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	vaultPath  string
	configFile string
	backend    string

	logLevel = new(slog.LevelVar)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dreamdiary",
	Short: "A dream journal kept as plain files",
	Long: `DreamDiary records dreams and lucid dreaming techniques in a vault:
a directory of Markdown files, or a SQLite database.
The first command run against a vault seeds the bundled techniques, once.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}

		opts := &slog.HandlerOptions{
			Level: logLevel,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <vault>/.dreamdiary/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Backing store: fs, sqlite or memory")
}
