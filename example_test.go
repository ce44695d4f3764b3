package dreamdiary_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/dreamdiary"
	"github.com/aretw0/dreamdiary/pkg/core"
)

// Example_basic opens a vault, seeds it and records a dream.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "dreamdiary-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	diary, err := dreamdiary.Open(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer diary.Close()

	ctx := context.Background()
	if err := diary.SeedIfNeeded(ctx); err != nil {
		log.Fatal(err)
	}

	techniques, err := diary.Techniques.FetchAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d techniques, first: %s\n", len(techniques), techniques[0].Title)

	d, err := diary.Dreams.Create(ctx, core.NewDream("Flying", core.Night, "Over the sea.", core.Lucid))
	if err != nil {
		log.Fatal(err)
	}
	got, err := diary.Dreams.Get(ctx, d.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Found dream: %s (%s)\n", got.Title, got.Type)
	// Output:
	// 6 techniques, first: Dream Journal
	// Found dream: Flying (lucid)
}

// Example_update shows that Update persists a changed value under the same
// identity instead of adding a record.
func Example_update() {
	diary, err := dreamdiary.Open(os.TempDir(), dreamdiary.WithBackend("memory"))
	if err != nil {
		log.Fatal(err)
	}
	defer diary.Close()

	ctx := context.Background()
	d, err := diary.Dreams.Create(ctx, core.NewDream("Draft", core.Morning, "", core.Normal))
	if err != nil {
		log.Fatal(err)
	}
	d.Title = "Falling"
	d.Type = core.Nightmare
	if err := diary.Dreams.Update(ctx, d); err != nil {
		log.Fatal(err)
	}

	all, err := diary.Dreams.FetchAll(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(all), all[0].Title, all[0].Type)
	// Output: 1 Falling nightmare
}
