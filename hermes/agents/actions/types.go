package actions

import "encoding/json"

// WarehousesOverDeliveryParams defines the parameters for warehouses_over_delivery.
type WarehousesOverDeliveryParams struct {
	Threshold *float64 `json:"threshold,omitempty"` // Days; defaults to DefaultDeliveryThreshold
}

// MonthlyAvgDelayParams defines the parameters for monthly_avg_delay.
type MonthlyAvgDelayParams struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// PredictNextWeekDelayParams defines the parameters for predict_next_week_delay.
type PredictNextWeekDelayParams struct {
	WindowWeeks *int `json:"window_weeks,omitempty"` // Defaults to DefaultWindowWeeks
}

const (
	DefaultDeliveryThreshold = 5.0
	DefaultWindowWeeks       = 4
)

// messageOnly is the wire form of every "nothing to report" result.
type messageOnly struct {
	Message string `json:"message"`
}

// RouteDelayResult is the route with the largest summed delay in the trailing week.
type RouteDelayResult struct {
	Route             string `json:"route"`
	TotalDelayMinutes int64  `json:"total_delay_minutes"`
	From              string `json:"from"`
	To                string `json:"to"`
	Message           string `json:"message,omitempty"`
}

func (r RouteDelayResult) NoDataMessage() string { return r.Message }

func (r RouteDelayResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain RouteDelayResult
	return json.Marshal(plain(r))
}

// ReasonCount is the number of delayed shipments attributed to one reason.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// DelayStatsResult counts delayed shipments per reason, largest count first.
type DelayStatsResult struct {
	DelayByReason []ReasonCount `json:"delay_by_reason"`
	Message       string        `json:"message,omitempty"`
}

func (r DelayStatsResult) NoDataMessage() string { return r.Message }

func (r DelayStatsResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain DelayStatsResult
	return json.Marshal(plain(r))
}

// WarehouseAvg is a warehouse's mean delivery time in days.
type WarehouseAvg struct {
	Warehouse       string  `json:"warehouse"`
	AvgDeliveryTime float64 `json:"avg_delivery_time"`
}

// WarehousesOverDeliveryResult lists warehouses whose mean delivery time exceeds the threshold.
type WarehousesOverDeliveryResult struct {
	Threshold  float64        `json:"threshold"`
	Warehouses []WarehouseAvg `json:"warehouses"`
	Message    string         `json:"message,omitempty"`
}

func (r WarehousesOverDeliveryResult) NoDataMessage() string { return r.Message }

func (r WarehousesOverDeliveryResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain WarehousesOverDeliveryResult
	return json.Marshal(plain(r))
}

// Top3WarehousesResult holds at most three warehouses, slowest first.
type Top3WarehousesResult struct {
	Top3    []WarehouseAvg `json:"top3"`
	Message string         `json:"message,omitempty"`
}

func (r Top3WarehousesResult) NoDataMessage() string { return r.Message }

func (r Top3WarehousesResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain Top3WarehousesResult
	return json.Marshal(plain(r))
}

// MonthlyAvgDelayResult is the mean delay over one calendar month.
type MonthlyAvgDelayResult struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	AverageDelay float64 `json:"average_delay"`
	Message      string  `json:"message,omitempty"`
}

func (r MonthlyAvgDelayResult) NoDataMessage() string { return r.Message }

func (r MonthlyAvgDelayResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain MonthlyAvgDelayResult
	return json.Marshal(plain(r))
}

// WeekAvg is the mean delay of one ISO week, keyed by its Monday.
type WeekAvg struct {
	WeekStart string  `json:"week_start"`
	AvgDelay  float64 `json:"avg_delay"`
}

// PredictResult is a moving-average forecast of next week's mean delay.
type PredictResult struct {
	Method     string    `json:"method"`
	Prediction float64   `json:"prediction"`
	UsedWeeks  []WeekAvg `json:"used_weeks"`
	Message    string    `json:"message,omitempty"`
}

func (r PredictResult) NoDataMessage() string { return r.Message }

func (r PredictResult) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(messageOnly{r.Message})
	}
	type plain PredictResult
	return json.Marshal(plain(r))
}
