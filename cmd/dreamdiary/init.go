package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dreamdiary"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a dreamdiary vault",
	Long: `Initialize a new vault in the given directory, or the current one.
It creates .dreamdiary/config.yaml with the default configuration unless it exists.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := vaultPath
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			dir = cwd
		}

		root, err := dreamdiary.Init(dir)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}

		fmt.Println("Initialized dreamdiary vault in", root)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
