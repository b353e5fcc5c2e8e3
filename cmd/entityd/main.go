// Command entityd runs the entity document service and provides a CLI client
// for it.
package main

import (
	"fmt"
	"os"

	"github.com/groblegark/entityd/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	jsonOutput bool

	cli client.EntityClient
)

func defaultServer() string {
	if s := os.Getenv("ENTITYD_SERVER"); s != "" {
		return s
	}
	if r, err := activeRemote(); err == nil && r.URL != "" {
		return r.URL
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "entityd",
	Short: "Entity document service and CLI client",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli = client.NewHTTPClient(serverAddr)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cli != nil {
			cli.Close()
		}
	},
}

// noClientPreRun overrides the root PersistentPreRunE for commands that do
// not talk to the HTTP API (serve, export, import, watch, remote).
func noClientPreRun(cmd *cobra.Command, args []string) error { return nil }

func main() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output raw JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(remoteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
