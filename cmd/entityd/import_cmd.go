package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/groblegark/entityd/internal/config"
	"github.com/groblegark/entityd/internal/export"
	"github.com/groblegark/entityd/internal/store/postgres"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import entities from a JSONL snapshot",
	Long: `Import reads a JSONL snapshot produced by export and creates each entity
directly in the database. Ids are reassigned; creator and timestamp are
preserved. Reads stdin when no file is given.

Requires ENTITYD_DATABASE_URL.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: noClientPreRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var r io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := export.ImportJSONL(ctx, st, r)
		if err != nil {
			return fmt.Errorf("imported %d entities before failure: %w", count, err)
		}
		fmt.Printf("Imported %d entities\n", count)
		return nil
	},
}
