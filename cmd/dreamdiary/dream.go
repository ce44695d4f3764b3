package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
	"github.com/spf13/cobra"
)

var (
	dreamTitle   string
	dreamContent string
	dreamTime    string
	dreamType    string
	dreamDate    string

	dreamListJSON bool
	dreamListType string
	dreamListSort []string
)

var dreamCmd = &cobra.Command{
	Use:   "dream",
	Short: "Record and browse dreams",
}

var dreamAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a dream",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tod, err := core.ParseTimeOfDay(dreamTime)
		if err != nil {
			fatal("Invalid --time", err)
		}
		typ, err := core.ParseDreamType(dreamType)
		if err != nil {
			fatal("Invalid --type", err)
		}
		d := core.NewDream(dreamTitle, tod, dreamContent, typ)
		if dreamDate != "" {
			if d.Date, err = parseDate(dreamDate); err != nil {
				fatal("Invalid --date", err)
			}
		}

		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		created, err := diary.Dreams.Create(ctx, d)
		if err != nil {
			fatal("Failed to save dream", err)
		}
		fmt.Println(created.ID)
	},
}

var dreamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dreams, most recent first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var where func(core.Dream) bool
		if dreamListType != "" {
			typ, err := core.ParseDreamType(dreamListType)
			if err != nil {
				fatal("Invalid --type", err)
			}
			where = func(d core.Dream) bool { return d.Type == typ }
		}
		sort, err := parseSorts(dreamListSort)
		if err != nil {
			fatal("Invalid --sort", err)
		}

		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		dreams, err := diary.Dreams.Fetch(ctx, where, sort...)
		if err != nil {
			fatal("Failed to list dreams", err)
		}

		if dreamListJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(dreams); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		for _, d := range dreams {
			fmt.Printf("%s  %s  %-9s %-9s %s\n", d.ID, d.Date.Format(time.DateOnly), d.Type, d.TimeOfDay, d.Title)
		}
	},
}

var dreamEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change fields of a recorded dream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		var (
			tod  core.TimeOfDay
			typ  core.DreamType
			date time.Time
			err  error
		)
		if flags.Changed("time") {
			if tod, err = core.ParseTimeOfDay(dreamTime); err != nil {
				fatal("Invalid --time", err)
			}
		}
		if flags.Changed("type") {
			if typ, err = core.ParseDreamType(dreamType); err != nil {
				fatal("Invalid --type", err)
			}
		}
		if flags.Changed("date") {
			if date, err = parseDate(dreamDate); err != nil {
				fatal("Invalid --date", err)
			}
		}

		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		_, err = diary.Dreams.Modify(ctx, args[0], func(d *core.Dream) {
			if flags.Changed("title") {
				d.Title = dreamTitle
			}
			if flags.Changed("content") {
				d.Content = dreamContent
			}
			if flags.Changed("time") {
				d.TimeOfDay = tod
			}
			if flags.Changed("type") {
				d.Type = typ
			}
			if flags.Changed("date") {
				d.Date = date
			}
		})
		if err != nil {
			fatal("Failed to update dream", err)
		}
		fmt.Printf("Dream updated: %s\n", args[0])
	},
}

var dreamRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a dream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		diary := openDiary(ctx)
		defer closeDiary(diary)

		if err := diary.Dreams.Delete(ctx, core.Dream{ID: args[0]}); err != nil {
			fatal("Failed to delete dream", err)
		}
		fmt.Printf("Dream deleted: %s\n", args[0])
	},
}

// parseDate accepts RFC 3339 timestamps and plain dates in local time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}

func parseSorts(exprs []string) ([]core.SortBy, error) {
	var sort []core.SortBy
	for _, expr := range exprs {
		s, err := core.ParseSort(strings.TrimSpace(expr))
		if err != nil {
			return nil, err
		}
		sort = append(sort, s)
	}
	return sort, nil
}

func init() {
	rootCmd.AddCommand(dreamCmd)
	dreamCmd.AddCommand(dreamAddCmd, dreamListCmd, dreamEditCmd, dreamRmCmd)

	for _, c := range []*cobra.Command{dreamAddCmd, dreamEditCmd} {
		c.Flags().StringVar(&dreamTitle, "title", "", "Dream title")
		c.Flags().StringVar(&dreamContent, "content", "", "What happened")
		c.Flags().StringVar(&dreamTime, "time", string(core.Night), "Time of day: morning, afternoon, evening or night")
		c.Flags().StringVarP(&dreamType, "type", "t", string(core.Normal), "Dream type: normal, lucid or nightmare")
		c.Flags().StringVar(&dreamDate, "date", "", "Date as YYYY-MM-DD or RFC 3339 (default: now)")
	}
	dreamAddCmd.MarkFlagRequired("title")

	dreamListCmd.Flags().BoolVar(&dreamListJSON, "json", false, "Output in JSON format")
	dreamListCmd.Flags().StringVarP(&dreamListType, "type", "t", "", "Only dreams of this type")
	dreamListCmd.Flags().StringSliceVar(&dreamListSort, "sort", []string{"-date"}, "Sort keys (date, title, id); prefix with - for descending")
}
