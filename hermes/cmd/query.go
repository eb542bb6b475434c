package main

import (
	"context"
	"fmt"
	"os"

	"hermes/hermes/agents/actions"
	"hermes/hermes/utils/color"
	"hermes/hermes/utils/jsonutils"

	"github.com/spf13/cobra"
)

type QueryCmd struct{}

func NewQueryCmd() *QueryCmd {
	return &QueryCmd{}
}

func (c *QueryCmd) Command() *cobra.Command {
	names := make([]string, 0, len(actions.AllActions))
	for _, n := range actions.AllActions {
		names = append(names, string(n))
	}

	cmd := &cobra.Command{
		Use:       "query <action>",
		Short:     "Run one analytics action directly, without the model",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			actionArgs, err := queryArgs(cmd)
			if err != nil {
				return err
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

			res, err := a.Actions.ExecuteAction(ctx, args[0], actionArgs)
			if err != nil {
				return err
			}
			if asJSON {
				fmt.Println(jsonutils.ToIndentedJSON(res))
				return nil
			}
			t, msg, ok := resultTable(res)
			if !ok {
				fmt.Println(color.ColorWarning(msg))
				return nil
			}
			renderTable(os.Stdout, t)
			return nil
		},
	}
	cmd.Flags().Float64("threshold", actions.DefaultDeliveryThreshold, "delivery time threshold in days (warehouses_over_delivery)")
	cmd.Flags().Int("year", 0, "calendar year (monthly_avg_delay)")
	cmd.Flags().Int("month", 0, "calendar month 1-12 (monthly_avg_delay)")
	cmd.Flags().Int("window-weeks", actions.DefaultWindowWeeks, "weeks in the moving average (predict_next_week_delay)")
	cmd.Flags().Bool("json", false, "print the raw result as JSON")
	return cmd
}

// queryArgs maps explicitly set flags to action arguments.
func queryArgs(cmd *cobra.Command) (map[string]any, error) {
	args := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		v, err := flags.GetFloat64("threshold")
		if err != nil {
			return nil, fmt.Errorf("failed to get threshold flag: %w", err)
		}
		args["threshold"] = v
	}
	for flag, key := range map[string]string{"year": "year", "month": "month", "window-weeks": "window_weeks"} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetInt(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		args[key] = v
	}
	return args, nil
}
