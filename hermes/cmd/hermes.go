// Command-line interface entrypoint for the Hermes logistics assistant
package main

import (
	"context"
	"fmt"
	"os"

	"hermes/hermes/app"
	"hermes/hermes/config"
	"hermes/hermes/utils/color"
	"hermes/hermes/utils/logging"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func main() {
	os.Exit(int(Run()))
}

func Run() ExitCode {
	rootCmd := &cobra.Command{
		Use:           "hermes",
		Short:         "Conversational analytics over logistics shipment data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.Disable()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(
		NewChatCmd().Command(),
		NewQueryCmd().Command(),
		NewHistoryCmd().Command(),
		NewDatasetCmd().Command(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError("Error: "+err.Error()))
		return exitCodeError
	}
	return exitCodeSuccess
}

// openApp loads configuration, starts logging and opens the dataset and store.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}
