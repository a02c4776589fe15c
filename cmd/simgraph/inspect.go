package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simgraph/simgraph/cmd/simgraph/internal/ui"
	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/provider"
)

func newInspectCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Browse a dataset snapshot in the terminal",
		Long: `Inspect opens a dataset snapshot in an interactive terminal browser:
clusters on the first screen, per-cluster members ranked by how strongly
they link into the cluster, and the same top-10 neighbor view the graph
server answers on click.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			load := func() (*graph.Dataset, error) {
				p := provider.NewFileProvider(path)
				return p.LoadGraph(context.Background(), provider.Params{
					IncludeEdges: true,
					TopK:         topK,
				})
			}

			model := ui.NewModel(path, load)
			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("inspector failed: %w", err)
			}
			if m, ok := final.(ui.Model); ok && m.Err() != nil {
				return m.Err()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 5, "Edges per node")
	return cmd
}
