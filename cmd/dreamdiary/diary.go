package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/dreamdiary"
	"github.com/aretw0/dreamdiary/internal/platform"
)

// openDiary opens the vault selected by the global flags and runs the seeding
// protocol, so every command sees a seeded store.
func openDiary(ctx context.Context) *dreamdiary.Diary {
	root := vaultPath
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		root, err = dreamdiary.FindRoot(wd)
		if err != nil {
			fatal("Not a dreamdiary vault (run 'dreamdiary init')", err)
		}
	}

	opts := []dreamdiary.Option{
		dreamdiary.WithLogger(slog.Default()),
		dreamdiary.WithMustExist(true),
	}
	if configFile != "" {
		opts = append(opts, dreamdiary.WithConfigFile(configFile))
	}
	if backend != "" {
		opts = append(opts, dreamdiary.WithBackend(backend))
	}

	diary, err := dreamdiary.Open(root, opts...)
	if err != nil {
		fatal("Failed to open vault", err)
	}

	if !verbose {
		if level, err := platform.ParseLogLevel(diary.Config().LogLevel); err == nil {
			logLevel.Set(level)
		}
	}

	if err := diary.SeedIfNeeded(ctx); err != nil {
		diary.Close()
		fatal("Failed to seed vault", err)
	}
	return diary
}

func closeDiary(diary *dreamdiary.Diary) {
	if err := diary.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing vault: %v\n", err)
	}
}
