package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch an entity by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		entity, err := cli.GetEntity(context.Background(), id)
		if err != nil {
			return err
		}
		return printEntity(entity)
	},
}
