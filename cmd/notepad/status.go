package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/adapters/sqlite"
	"github.com/aretw0/notepad/pkg/core"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the service and its store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		// Populate the counters with one load.
		_, _ = svc.LoadNotes(context.Background())

		if err := printStatus(svc, os.Stdout, statusDiagram); err != nil {
			fatal("Error printing status", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}

// statusNode is the tree shape rendered by introspection.TreeDiagram.
type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

func printStatus(svc *core.Service, w io.Writer, diagram bool) error {
	report := map[string]any{"service": svc.State()}

	storeNode := statusNode{Name: "Store", Status: "running", Metadata: map[string]string{}}
	if intro, ok := svc.Store().(introspection.Introspectable); ok {
		report["store"] = intro.State()
		storeNode = describeStore(intro.State())
	}
	if comp, ok := svc.Store().(introspection.Component); ok {
		storeNode.Metadata["type"] = comp.ComponentType()
	}

	if diagram {
		svcState := svc.State().(core.ServiceState)
		status := "running"
		if svcState.LastError != "" {
			status = "failed"
		}
		root := statusNode{
			Name:   "Service",
			Status: status,
			Metadata: map[string]string{
				"type":  svc.ComponentType(),
				"loads": fmt.Sprintf("%d", svcState.Loads),
				"saves": fmt.Sprintf("%d", svcState.Saves),
			},
			Children: []statusNode{storeNode},
		}
		config := introspection.DefaultDiagramConfig()
		config.SecondaryID = "notepad"
		config.SecondaryLabel = "Notepad"
		fmt.Fprintln(w, introspection.TreeDiagram(root, config))
		return nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func describeStore(state any) statusNode {
	node := statusNode{Name: "Store", Status: "running", Metadata: map[string]string{}}
	switch s := state.(type) {
	case fs.StoreState:
		node.Metadata["path"] = s.Path
		node.Metadata["format"] = s.Format
		node.Metadata["notes"] = fmt.Sprintf("%d", s.NoteCount)
		if s.ReadOnly {
			node.Metadata["mode"] = "read-only"
		}
		watcher := statusNode{Name: "Watcher", Status: "suspended", Metadata: map[string]string{"type": "goroutine"}}
		if s.WatcherActive {
			watcher.Status = "running"
		}
		node.Children = append(node.Children, watcher)
	case sqlite.StoreState:
		node.Metadata["path"] = s.Path
		node.Metadata["notes"] = fmt.Sprintf("%d", s.NoteCount)
		if s.ReadOnly {
			node.Metadata["mode"] = "read-only"
		}
		if !s.Open {
			node.Status = "suspended"
		}
	}
	return node
}
