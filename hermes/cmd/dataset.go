package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"hermes/hermes/config"
	"hermes/hermes/sources/dataset"
	"hermes/hermes/sources/storage"
	"hermes/hermes/utils/color"

	"github.com/spf13/cobra"
)

type DatasetCmd struct{}

func NewDatasetCmd() *DatasetCmd {
	return &DatasetCmd{}
}

func (c *DatasetCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect or publish shipment data",
	}
	cmd.AddCommand(c.infoCommand(), c.uploadCommand())
	return cmd
}

func (c *DatasetCmd) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the shipment data the assistant would load",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Getters.Summary()
			renderTable(os.Stdout, summaryTable(s))
			if s.Rows == 0 {
				fmt.Println(color.ColorWarning("No shipment data available"))
			}
			return nil
		},
	}
}

func (c *DatasetCmd) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Validate a shipment CSV and store it in the dataset bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			ds, err := dataset.Parse(bytes.NewReader(data))
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client, err := storage.NewMinIOClient(ctx, cfg)
			if err != nil {
				return err
			}
			key, err := client.UploadDataset(ctx, filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Println(color.ColorInfo(fmt.Sprintf("Uploaded %d shipments to %s/%s", ds.Len(), cfg.DatasetBucket, key)))
			if filepath.Base(args[0]) != filepath.Base(cfg.DatasetPath) {
				fmt.Printf("Set DATASET_PATH=%s to load it on startup.\n", filepath.Base(args[0]))
			}
			return nil
		},
	}
}
