package main

import (
	"fmt"
	"strings"
	"time"

	"caiso-reports/internal/data"
	"caiso-reports/internal/oasis"

	"github.com/spf13/cobra"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List supported OASIS queries",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-14s %-6s %-10s %-44s %s\n", "query", "market", "freq", "items", "description")
		for _, q := range oasis.Queries() {
			fmt.Printf("%-14s %-6s %-10s %-44s %s\n", q.Name, q.MarketRunID, q.Frequency, strings.Join(q.DataItems, ","), q.Description)
		}
	},
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List or initialize the pricing node registry",
	Long: `List the nodes in the registry file ($NODES_FILE, default ./data/nodes.json).
With --init the built-in defaults are written to the file first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = data.GetDefaultNodesPath()
		}

		if initFile, _ := cmd.Flags().GetBool("init"); initFile {
			list := &data.NodeList{
				UpdatedAt: time.Now().UTC().Format(time.RFC3339),
				Nodes:     append([]data.Node(nil), data.DefaultNodes...),
			}
			if err := data.SaveNodes(list, path); err != nil {
				return err
			}
			fmt.Printf("Wrote %d nodes to %s\n", len(list.Nodes), path)
		}

		list, err := data.LoadNodesOrDefault(path)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %-8s %s\n", "id", "type", "name")
		for _, n := range list.Nodes {
			fmt.Printf("%-20s %-8s %s\n", n.ID, n.Type, n.Name)
		}
		return nil
	},
}

func init() {
	nodesCmd.Flags().String("file", "", "registry path (default $NODES_FILE or ./data/nodes.json)")
	nodesCmd.Flags().Bool("init", false, "write the built-in default nodes to the registry")
}
