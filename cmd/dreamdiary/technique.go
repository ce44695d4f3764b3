package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/spf13/cobra"
)

var (
	techniqueTitle   string
	techniqueContent string
	techniqueSymbol  string

	techniqueListJSON bool
	techniqueShow     bool
)

var techniqueCmd = &cobra.Command{
	Use:   "technique",
	Short: "Browse and manage lucid dreaming techniques",
}

var techniqueAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a technique",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		t, err := diary.Techniques.Create(ctx, core.NewTechnique(techniqueTitle, techniqueContent, techniqueSymbol))
		if err != nil {
			fatal("Failed to save technique", err)
		}
		fmt.Println(t.ID)
	},
}

var techniqueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List techniques",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		techniques, err := diary.Techniques.FetchAll(ctx)
		if err != nil {
			fatal("Failed to list techniques", err)
		}

		if techniqueListJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(techniques); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		for _, t := range techniques {
			fmt.Printf("%s  %s\n", t.ID, t.Title)
			if techniqueShow {
				fmt.Printf("\n%s\n\n", t.Content)
			}
		}
	},
}

var techniqueRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a technique",
	Long: `Delete a technique. Bundled techniques are seeded once per vault, so a
deleted one does not come back on the next launch.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		if err := diary.Techniques.Delete(ctx, core.Technique{ID: args[0]}); err != nil {
			fatal("Failed to delete technique", err)
		}
		fmt.Printf("Technique deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(techniqueCmd)
	techniqueCmd.AddCommand(techniqueAddCmd, techniqueListCmd, techniqueRmCmd)

	techniqueAddCmd.Flags().StringVar(&techniqueTitle, "title", "", "Technique title")
	techniqueAddCmd.Flags().StringVar(&techniqueContent, "content", "", "Technique description")
	techniqueAddCmd.Flags().StringVar(&techniqueSymbol, "symbol", "", "Symbol shown next to the technique")
	techniqueAddCmd.MarkFlagRequired("title")

	techniqueListCmd.Flags().BoolVar(&techniqueListJSON, "json", false, "Output in JSON format")
	techniqueListCmd.Flags().BoolVar(&techniqueShow, "content", false, "Print each technique's content")
}
