package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/groblegark/entityd/internal/config"
	"github.com/groblegark/entityd/internal/export"
	"github.com/groblegark/entityd/internal/store/postgres"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all entities as a JSONL snapshot",
	Long: `Export reads the entity table directly from the database and writes a
JSONL snapshot to a local file or an S3-compatible bucket.

Requires ENTITYD_DATABASE_URL.`,
	PersistentPreRunE: noClientPreRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		output, _ := cmd.Flags().GetString("output")
		s3Bucket, _ := cmd.Flags().GetString("s3-bucket")
		s3Key, _ := cmd.Flags().GetString("s3-key")
		s3Region, _ := cmd.Flags().GetString("s3-region")
		s3Endpoint, _ := cmd.Flags().GetString("s3-endpoint")

		var dest export.Destination
		switch {
		case s3Bucket != "":
			if s3Key == "" {
				return fmt.Errorf("--s3-key is required with --s3-bucket")
			}
			d, err := export.NewS3Destination(ctx, s3Bucket, s3Key, s3Region, s3Endpoint)
			if err != nil {
				return err
			}
			dest = d
		case output != "" && output != "-":
			dest = &export.FileDestination{Path: output}
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

		var buf bytes.Buffer
		if err := export.ExportJSONL(ctx, st, &buf); err != nil {
			return err
		}

		if dest == nil {
			_, err := os.Stdout.Write(buf.Bytes())
			return err
		}
		if err := dest.Write(ctx, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d bytes\n", buf.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", `output file ("-" or empty writes stdout)`)
	exportCmd.Flags().String("s3-bucket", "", "S3 bucket to upload the snapshot to")
	exportCmd.Flags().String("s3-key", "", "S3 object key for the snapshot")
	exportCmd.Flags().String("s3-region", "us-east-1", "S3 region")
	exportCmd.Flags().String("s3-endpoint", "", "custom S3 endpoint (enables path-style addressing)")
}
