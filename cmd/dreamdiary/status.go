package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/dreamdiary/internal/platform"
	"github.com/aretw0/dreamdiary/pkg/adapters/fs"
	"github.com/aretw0/dreamdiary/pkg/gateway"
	"github.com/aretw0/dreamdiary/pkg/seed"
)

var (
	statusDiagram bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the vault's components as JSON",
	Long: `status prints the introspection state of the gateway, the backing store
and the seeder. With --diagram it prints a Mermaid tree instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		diary := openDiary(cmd.Context())
		defer closeDiary(diary)

		st, _ := diary.State().(platform.DiaryState)
		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "vault"
			config.SecondaryLabel = "Vault Topology"
			fmt.Println(introspection.TreeDiagram(buildDiaryTree(st), config))
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(st); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

type diaryNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []diaryNode
}

// buildDiaryTree maps component state to diagram nodes. Status values must
// match the classes of introspection.DefaultStyles().
func buildDiaryTree(st platform.DiaryState) diaryNode {
	root := diaryNode{
		Name:     "Diary",
		Status:   "running",
		Metadata: map[string]string{"type": "container", "path": st.Root},
	}

	if gw, ok := st.Gateway.(gateway.State); ok {
		status := "running"
		if gw.Closed {
			status = "stopped"
		}
		node := diaryNode{
			Name:   "Gateway",
			Status: status,
			Metadata: map[string]string{
				"type":     "goroutine",
				"accepted": fmt.Sprintf("%d", gw.Accepted),
				"failed":   fmt.Sprintf("%d", gw.Failed),
			},
		}
		if store, ok := st.Store.(fs.BackendState); ok {
			watcher := "suspended"
			if store.WatcherActive {
				watcher = "running"
			}
			node.Children = append(node.Children, diaryNode{
				Name:     "Files",
				Status:   "running",
				Metadata: map[string]string{"type": "process", "path": store.Path, "cache": fmt.Sprintf("%d", store.CacheSize)},
				Children: []diaryNode{{Name: "Watcher", Status: watcher, Metadata: map[string]string{"type": "goroutine"}}},
			})
		} else {
			node.Children = append(node.Children, diaryNode{
				Name:     gw.Backend,
				Status:   "running",
				Metadata: map[string]string{"type": "process"},
			})
		}
		root.Children = append(root.Children, node)
	}

	if sd, ok := st.Seeder.(seed.SeederState); ok {
		node := diaryNode{
			Name:     "Seeder",
			Status:   "finished",
			Metadata: map[string]string{"type": "process", "runs": fmt.Sprintf("%d", sd.Runs)},
		}
		for _, key := range sd.Sources {
			status := "pending"
			if slices.Contains(sd.Completed, key) {
				status = "finished"
			}
			node.Children = append(node.Children, diaryNode{
				Name:     key,
				Status:   status,
				Metadata: map[string]string{"type": "task"},
			})
		}
		root.Children = append(root.Children, node)
	}
	return root
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
