package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/dreamdiary/pkg/stats"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dreams per day over the last week",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		summary, err := stats.Weekly(ctx, diary.Dreams, time.Now(), time.Local)
		if err != nil {
			fatal("Failed to compute statistics", err)
		}

		if statsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(summary); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, d := range summary.Days {
			fmt.Printf("%s  %s%s%s\n", d.Date.Format("Mon Jan 02"),
				strings.Repeat("L", d.Lucid),
				strings.Repeat("N", d.Normal),
				strings.Repeat("X", d.Nightmare))
		}
		fmt.Printf("\nnormal %d  lucid %d  nightmare %d\n", summary.Normal, summary.Lucid, summary.Nightmare)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
}
