package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dreamdiary"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dreamdiary",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dreamdiary version %s\n", strings.TrimSpace(dreamdiary.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
