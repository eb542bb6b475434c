package main

import (
	"context"
	"fmt"
	"os"

	"hermes/hermes/sources/sqlstore/models"
	"hermes/hermes/utils/color"

	"github.com/spf13/cobra"
)

type HistoryCmd struct{}

func NewHistoryCmd() *HistoryCmd {
	return &HistoryCmd{}
}

func (c *HistoryCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged question/answer exchanges, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return fmt.Errorf("failed to get limit flag: %w", err)
			}
			user, err := cmd.Flags().GetString("user")
			if err != nil {
				return fmt.Errorf("failed to get user flag: %w", err)
			}
			if limit < 1 {
				return fmt.Errorf("invalid limit: %d", limit)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var recs []models.ChatInteraction
			if user != "" {
				recs, err = a.Store.ListByUser(ctx, user, limit)
			} else {
				recs, err = a.Store.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println(color.ColorWarning("No interactions logged yet"))
				return nil
			}
			renderTable(os.Stdout, historyTable(recs))
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of exchanges to show")
	cmd.Flags().String("user", "", "only show exchanges of this session id")
	return cmd
}
