package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/dreamdiary/pkg/seed"
	"github.com/spf13/cobra"
)

var (
	seedJSON bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Show what the seeding protocol did for this vault",
	Long: `Opening a vault already seeds it. seed runs the protocol once more and
prints the per-source outcome, which after the first launch is always
AlreadyComplete.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		report, err := diary.Seed(ctx)

		if seedJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Error encoding JSON", err)
			}
		} else {
			printReport(report)
		}
		if err != nil {
			fatal("Seeding failed", err)
		}
	},
}

func printReport(r seed.Report) {
	for _, o := range r.Outcomes {
		switch {
		case o.Adopted():
			fmt.Printf("%-16s %s (adopted %d existing)\n", o.Key, o.State, o.Existing)
		case o.Err != nil:
			fmt.Printf("%-16s %s: %v\n", o.Key, o.State, o.Err)
		default:
			fmt.Printf("%-16s %s (%d inserted)\n", o.Key, o.State, o.Inserted)
		}
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedJSON, "json", false, "Output in JSON format")
}
