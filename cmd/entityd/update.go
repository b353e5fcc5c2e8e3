package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/groblegark/entityd/internal/model"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace an entity's creator and data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		createdBy, _ := cmd.Flags().GetString("created-by")
		data, _ := cmd.Flags().GetString("data")

		if data == "-" {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			data = string(raw)
		}

		entity, err := cli.UpdateEntity(context.Background(), id, &model.EntityInput{
			CreatedBy: createdBy,
			Data:      json.RawMessage(data),
		})
		if err != nil {
			return err
		}
		return printEntity(entity)
	},
}

func init() {
	updateCmd.Flags().String("created-by", "", "creator recorded on the entity")
	updateCmd.Flags().String("data", "", `JSON document ("-" reads stdin)`)
	updateCmd.MarkFlagRequired("created-by")
	updateCmd.MarkFlagRequired("data")
}
