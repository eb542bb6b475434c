package actions

func noArgs() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func definitions() []Definition {
	return []Definition{
		{
			Name:        ActionRouteWithBiggestDelayLastWeek,
			Description: "Find the route with the largest total delay in minutes over the last 7 days of data.",
			Parameters:  noArgs(),
		},
		{
			Name:        ActionDelayStatsByReason,
			Description: "Count delayed shipments per delay reason, most frequent first.",
			Parameters:  noArgs(),
		},
		{
			Name:        ActionWarehousesOverDelivery,
			Description: "List warehouses whose average delivery time in days is above a threshold.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"threshold": map[string]any{
						"type":        "number",
						"description": "Average delivery time threshold in days. Defaults to 5.",
					},
				},
			},
		},
		{
			Name:        ActionTop3WarehousesByProcessing,
			Description: "Return the three warehouses with the highest average delivery time.",
			Parameters:  noArgs(),
		},
		{
			Name:        ActionMonthlyAvgDelay,
			Description: "Average delay in minutes over all shipments of one calendar month.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"year": map[string]any{
						"type":        "integer",
						"description": "Four digit year, e.g. 2024.",
					},
					"month": map[string]any{
						"type":        "integer",
						"description": "Month number from 1 (January) to 12 (December).",
					},
				},
				"required": []string{"year", "month"},
			},
		},
		{
			Name:        ActionPredictNextWeekDelay,
			Description: "Forecast next week's average delay in minutes as a moving average of recent weekly averages.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"window_weeks": map[string]any{
						"type":        "integer",
						"description": "How many recent weeks to average. Defaults to 4.",
					},
				},
			},
		},
	}
}
