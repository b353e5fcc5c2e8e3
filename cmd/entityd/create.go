package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/groblegark/entityd/internal/model"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entity",
	Long: `Create an entity from a JSON document.

The document is read from --data, or from stdin when --data is "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		createdBy, _ := cmd.Flags().GetString("created-by")
		data, _ := cmd.Flags().GetString("data")

		if data == "-" {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			data = string(raw)
		}

		entity, err := cli.CreateEntity(context.Background(), &model.EntityInput{
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
	createCmd.Flags().String("created-by", "", "creator recorded on the entity")
	createCmd.Flags().String("data", "", `JSON document ("-" reads stdin)`)
	createCmd.MarkFlagRequired("created-by")
	createCmd.MarkFlagRequired("data")
}
