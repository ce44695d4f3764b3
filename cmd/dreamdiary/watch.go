package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/dreamdiary/pkg/adapters/lifecycle"
	"github.com/aretw0/dreamdiary/pkg/core"
)

var watchKinds []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the vault by other programs",
	Long: `watch reports files created, modified or deleted in the vault until
interrupted. It needs the fs backend.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		diary := openDiary(ctx)
		defer closeDiary(diary)

		events, err := diary.Watch(ctx)
		if err != nil {
			fatal("Failed to watch vault", err)
		}
		var kinds []core.Kind
		for _, k := range watchKinds {
			kind := core.Kind(k)
			if !kind.Valid() {
				fatal("Invalid --kind", fmt.Errorf("unknown kind %q", k))
			}
			kinds = append(kinds, kind)
		}
		src := lifecycle.NewSource(events, kinds...)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to watch vault", err)
		}

		fmt.Println("Watching", diary.Root)
		for e := range src.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchKinds, "kind", nil, "Only report changes to these kinds (dream, technique)")
}
