// Package dreamdiary is the composition root of the dream journal's storage
// engine.
//
// It wires the domain (pkg/core) to a backing store (files, SQLite or memory)
// through a single storage gateway, and exposes typed repositories for dreams
// and techniques plus the first-run seeding protocol.
//
// Features:
//
//   - **Single writer**: every storage operation runs on one worker goroutine,
//     so writes are linearized and never overlap.
//   - **Idempotent seeding**: bundled techniques are inserted once per vault;
//     existing data always wins over seed data.
//   - **Plain files by default**: records are Markdown files with YAML
//     frontmatter that other tools, and sync clients, can read and write.
//
// Usage:
//
//	diary, err := dreamdiary.Open("./vault", dreamdiary.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer diary.Close()
//
//	// Once per launch, before reading data as complete.
//	if err := diary.SeedIfNeeded(ctx); err != nil {
//		return err
//	}
//
//	dreams, err := diary.Dreams.FetchAll(ctx)
package dreamdiary
