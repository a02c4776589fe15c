package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "simgraph",
		Short: "simgraph - interactive similarity-graph explorer",
		Long: `simgraph renders a similarity graph of documents grouped into clusters
and lets a user explore, filter, and inspect relationships between
thousands of nodes. The layout engine runs server-side in Go and streams
scene patches to thin browser shells over WebSocket.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	// Add commands
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newDemoCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
