package main

import (
	"context"

	"github.com/groblegark/entityd/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities, optionally filtered by their JSON data",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &client.ListParams{}
		params.Skip, _ = cmd.Flags().GetInt("skip")
		params.Limit, _ = cmd.Flags().GetInt("limit")
		params.JSONPath, _ = cmd.Flags().GetString("json-path")
		params.JSONValue, _ = cmd.Flags().GetString("json-value")
		params.JSONContains, _ = cmd.Flags().GetString("json-contains")
		params.JSONKeyExists, _ = cmd.Flags().GetString("json-key-exists")

		entities, err := cli.ListEntities(context.Background(), params)
		if err != nil {
			return err
		}
		return printEntityTable(entities)
	},
}

func init() {
	listCmd.Flags().Int("skip", 0, "number of entities to skip")
	listCmd.Flags().Int("limit", 0, "maximum number of entities to return")
	listCmd.Flags().String("json-path", "", `dotted path to match (e.g. "user.age"; requires --json-value)`)
	listCmd.Flags().String("json-value", "", "value to match at the path")
	listCmd.Flags().String("json-contains", "", "JSON object the data must contain")
	listCmd.Flags().String("json-key-exists", "", `key that must exist (e.g. "settings" or "settings.theme")`)
}
