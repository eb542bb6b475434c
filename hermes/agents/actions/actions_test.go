package actions

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"hermes/hermes/sources/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---
func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ship(date, route, warehouse string, delay float64, reason string, delivery float64) dataset.Shipment {
	return dataset.Shipment{
		ID:           date + "/" + route,
		Date:         day(date),
		Route:        route,
		Warehouse:    warehouse,
		DelayMinutes: delay,
		DelayReason:  reason,
		DeliveryTime: delivery,
	}
}

func newActions(rows ...dataset.Shipment) *DataActions {
	return NewDataActions(dataset.New(rows))
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// january2024 covers 2024-01-01 (a Monday) through 2024-01-31.
func january2024() []dataset.Shipment {
	return []dataset.Shipment{
		ship("2024-01-01", "R3", "WH-B", 60, "Weather", 4),
		ship("2024-01-02", "R2", "WH-A", 500, "Weather", 6),
		ship("2024-01-10", "R3", "WH-B", 0, "", 4),
		ship("2024-01-24", "R2", "WH-C", 100, "Traffic", 5),
		ship("2024-01-25", "R1", "WH-A", 30, "Weather", 7),
		ship("2024-01-28", "R2", "WH-B", 45.7, "Traffic", 5),
		ship("2024-01-30", "R3", "WH-C", 0, "", 5),
		ship("2024-01-31", "R1", "WH-D", 20, "Customs", 2),
	}
}

// --- route_with_biggest_delay_last_week ---
func TestRouteWithBiggestDelayLastWeek(t *testing.T) {
	a := newActions(january2024()...)
	res := a.RouteWithBiggestDelayLastWeek()

	assert.Empty(t, res.Message)
	assert.Equal(t, "R1", res.Route)
	assert.EqualValues(t, 50, res.TotalDelayMinutes)
	assert.Equal(t, "2024-01-24", res.From)
	assert.Equal(t, "2024-01-31", res.To)
}

func TestRouteWindowIgnoresOlderRows(t *testing.T) {
	recent := []dataset.Shipment{
		ship("2024-01-28", "R2", "W", 45.7, "Traffic", 1),
		ship("2024-01-31", "R1", "W", 10, "Weather", 1),
	}
	base := newActions(recent...).RouteWithBiggestDelayLastWeek()

	withHistory := append([]dataset.Shipment{
		ship("2023-12-01", "R1", "W", 9000, "Weather", 1),
		ship("2024-01-24", "R1", "W", 9000, "Weather", 1), // exactly max-7d, excluded
	}, recent...)
	got := newActions(withHistory...).RouteWithBiggestDelayLastWeek()

	assert.Equal(t, base, got)
	assert.Equal(t, "R2", got.Route)
	assert.EqualValues(t, 45, got.TotalDelayMinutes, "total is truncated")
}

func TestRouteTieGoesToFirstKey(t *testing.T) {
	a := newActions(
		ship("2024-01-30", "R9", "W", 25, "x", 1),
		ship("2024-01-31", "R1", "W", 25, "x", 1),
	)
	assert.Equal(t, "R1", a.RouteWithBiggestDelayLastWeek().Route)
}

func TestRouteNoData(t *testing.T) {
	assert.Equal(t, "No shipment data available", newActions().RouteWithBiggestDelayLastWeek().Message)

	onTime := newActions(ship("2024-01-31", "R1", "W", 0, "", 1), ship("2024-01-30", "R2", "W", -3, "", 1))
	assert.Equal(t, "No delayed shipments in the last week", onTime.RouteWithBiggestDelayLastWeek().Message)
}

// --- delay_stats_by_reason ---
func TestDelayStatsByReason(t *testing.T) {
	a := newActions(january2024()...)
	res := a.DelayStatsByReason()

	require.Empty(t, res.Message)
	assert.Equal(t, []ReasonCount{
		{Reason: "Weather", Count: 3},
		{Reason: "Traffic", Count: 2},
		{Reason: "Customs", Count: 1},
	}, res.DelayByReason)

	total := 0
	for _, rc := range res.DelayByReason {
		total += rc.Count
	}
	assert.Equal(t, 6, total, "counts add up to the number of delayed shipments")
}

func TestDelayStatsSkipsRowsWithoutID(t *testing.T) {
	noID := ship("2024-01-02", "R1", "W", 15, "Weather", 1)
	noID.ID = ""
	a := newActions(
		ship("2024-01-01", "R1", "W", 10, "Weather", 1),
		noID,
		ship("2024-01-03", "R2", "W", 5, "Traffic", 1),
		ship("2024-01-04", "R2", "W", 5, "Traffic", 1),
	)
	assert.Equal(t, []ReasonCount{
		{Reason: "Traffic", Count: 2},
		{Reason: "Weather", Count: 1},
	}, a.DelayStatsByReason().DelayByReason)
}

func TestDelayStatsNoDelays(t *testing.T) {
	assert.Equal(t, "No delays found", newActions().DelayStatsByReason().Message)
	a := newActions(ship("2024-01-01", "R", "W", 0, "Weather", 1))
	assert.Equal(t, "No delays found", a.DelayStatsByReason().Message)
}

// --- warehouses_over_delivery ---
func warehouseRows() []dataset.Shipment {
	return []dataset.Shipment{
		ship("2024-01-01", "R", "WH-A", 0, "", 6),
		ship("2024-01-02", "R", "WH-A", 0, "", 7),
		ship("2024-01-01", "R", "WH-B", 0, "", 4),
		ship("2024-01-02", "R", "WH-B", 0, "", 5),
		ship("2024-01-03", "R", "WH-C", 0, "", 5),
		ship("2024-01-03", "R", "WH-D", 0, "", math.NaN()),
	}
}

func TestWarehousesOverDelivery(t *testing.T) {
	a := newActions(warehouseRows()...)

	res := a.WarehousesOverDelivery(WarehousesOverDeliveryParams{})
	require.Empty(t, res.Message)
	assert.Equal(t, 5.0, res.Threshold)
	assert.Equal(t, []WarehouseAvg{{Warehouse: "WH-A", AvgDeliveryTime: 6.5}}, res.Warehouses, "strictly above")

	res = a.WarehousesOverDelivery(WarehousesOverDeliveryParams{Threshold: floatPtr(4)})
	require.Empty(t, res.Message)
	var names []string
	for _, w := range res.Warehouses {
		names = append(names, w.Warehouse)
		assert.Greater(t, w.AvgDeliveryTime, 4.0)
	}
	assert.Equal(t, []string{"WH-A", "WH-B", "WH-C"}, names)
}

func TestWarehousesOverDeliveryMessages(t *testing.T) {
	a := newActions(warehouseRows()...)
	assert.Equal(t, "No warehouse above 10.0 days",
		a.WarehousesOverDelivery(WarehousesOverDeliveryParams{Threshold: floatPtr(10)}).Message)
	assert.Equal(t, "No warehouse above 6.5 days",
		a.WarehousesOverDelivery(WarehousesOverDeliveryParams{Threshold: floatPtr(6.5)}).Message)
	assert.Equal(t, "No data", newActions().WarehousesOverDelivery(WarehousesOverDeliveryParams{}).Message)
}

// --- top3_warehouses_by_processing ---
func TestTop3WarehousesByProcessing(t *testing.T) {
	a := newActions(warehouseRows()...)
	res := a.Top3WarehousesByProcessing()

	require.Empty(t, res.Message)
	require.Len(t, res.Top3, 3)
	assert.Equal(t, []WarehouseAvg{
		{Warehouse: "WH-A", AvgDeliveryTime: 6.5},
		{Warehouse: "WH-C", AvgDeliveryTime: 5},
		{Warehouse: "WH-B", AvgDeliveryTime: 4.5},
	}, res.Top3)
	for i := 1; i < len(res.Top3); i++ {
		assert.GreaterOrEqual(t, res.Top3[i-1].AvgDeliveryTime, res.Top3[i].AvgDeliveryTime)
	}
	assert.Equal(t, res, a.Top3WarehousesByProcessing(), "repeat calls agree")
}

func TestTop3FewerWarehousesAndTies(t *testing.T) {
	a := newActions(
		ship("2024-01-01", "R", "WH-Z", 0, "", 3),
		ship("2024-01-01", "R", "WH-M", 0, "", 3),
	)
	res := a.Top3WarehousesByProcessing()
	require.Len(t, res.Top3, 2)
	assert.Equal(t, "WH-M", res.Top3[0].Warehouse)
	assert.Equal(t, "WH-Z", res.Top3[1].Warehouse)

	assert.Equal(t, "No data", newActions().Top3WarehousesByProcessing().Message)
}

// --- monthly_avg_delay ---
func TestMonthlyAvgDelay(t *testing.T) {
	a := newActions(january2024()...)
	res, err := a.MonthlyAvgDelay(MonthlyAvgDelayParams{Year: 2024, Month: 1})
	require.NoError(t, err)
	require.Empty(t, res.Message)
	assert.InDelta(t, (60+500+0+100+30+45.7+0+20)/8.0, res.AverageDelay, 1e-9)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 1, res.Month)
}

func TestMonthlyAvgDelayNoData(t *testing.T) {
	a := newActions(january2024()...)
	res, err := a.MonthlyAvgDelay(MonthlyAvgDelayParams{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, "No data for 2/2024", res.Message)
	assert.Contains(t, res.Message, "2024")

	_, err = a.MonthlyAvgDelay(MonthlyAvgDelayParams{Year: 2024})
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

// --- predict_next_week_delay ---
func TestPredictNextWeekDelay(t *testing.T) {
	a := newActions(
		ship("2024-01-01", "R", "W", 10, "x", 1), // Monday
		ship("2024-01-07", "R", "W", 20, "x", 1), // Sunday, same week
		ship("2024-01-09", "R", "W", 30, "x", 1),
	)

	res := a.PredictNextWeekDelay(PredictNextWeekDelayParams{})
	require.Empty(t, res.Message)
	assert.Equal(t, "moving_avg_2w", res.Method, "names the weeks used, not the window")
	assert.InDelta(t, 22.5, res.Prediction, 1e-9)
	assert.Equal(t, []WeekAvg{
		{WeekStart: "2024-01-01", AvgDelay: 15},
		{WeekStart: "2024-01-08", AvgDelay: 30},
	}, res.UsedWeeks)

	res = a.PredictNextWeekDelay(PredictNextWeekDelayParams{WindowWeeks: intPtr(1)})
	assert.Equal(t, "moving_avg_1w", res.Method)
	assert.InDelta(t, 30, res.Prediction, 1e-9)
	assert.Len(t, res.UsedWeeks, 1)

	res = a.PredictNextWeekDelay(PredictNextWeekDelayParams{WindowWeeks: intPtr(0)})
	assert.Equal(t, "moving_avg_2w", res.Method)
	assert.Len(t, res.UsedWeeks, 2)
}

func TestPredictOverJanuary(t *testing.T) {
	a := newActions(january2024()...)

	res := a.PredictNextWeekDelay(PredictNextWeekDelayParams{WindowWeeks: intPtr(10)})
	require.Empty(t, res.Message)
	assert.Equal(t, "moving_avg_4w", res.Method)
	require.Len(t, res.UsedWeeks, 4)
	assert.Equal(t, WeekAvg{WeekStart: "2024-01-01", AvgDelay: 280}, res.UsedWeeks[0], "Jan 1 and Jan 2 share the first week")
	assert.Equal(t, "2024-01-08", res.UsedWeeks[1].WeekStart)
	assert.Equal(t, "2024-01-22", res.UsedWeeks[2].WeekStart)
	assert.Equal(t, "2024-01-29", res.UsedWeeks[3].WeekStart)
	assert.InDelta(t, (280+0+(100+30+45.7)/3+10)/4, res.Prediction, 1e-9)

	res = a.PredictNextWeekDelay(PredictNextWeekDelayParams{WindowWeeks: intPtr(3)})
	assert.Equal(t, "moving_avg_3w", res.Method)
	assert.Equal(t, "2024-01-08", res.UsedWeeks[0].WeekStart)
}

func TestPredictNotEnoughData(t *testing.T) {
	assert.Equal(t, "Not enough data", newActions().PredictNextWeekDelay(PredictNextWeekDelayParams{}).Message)
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, day("2024-01-01"), weekStart(time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, day("2024-01-08"), weekStart(day("2024-01-08")))
	assert.Equal(t, day("2023-12-25"), weekStart(day("2023-12-31")))

	// Monday 00:30 at +02:00 is still Sunday in UTC; the recorded date wins.
	plus2 := time.FixedZone("", 2*60*60)
	assert.Equal(t, day("2024-01-08"), weekStart(time.Date(2024, 1, 8, 0, 30, 0, 0, plus2)))
}

func TestOffsetDatesKeepTheirCalendarMonth(t *testing.T) {
	plus2 := time.FixedZone("", 2*60*60)
	a := newActions(dataset.Shipment{
		ID: "1", Date: time.Date(2024, 2, 1, 1, 0, 0, 0, plus2), Route: "R1", Warehouse: "W", DelayMinutes: 40,
	})
	res, err := a.MonthlyAvgDelay(MonthlyAvgDelayParams{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Message)
	assert.InDelta(t, 40, res.AverageDelay, 1e-9)

	res, err = a.MonthlyAvgDelay(MonthlyAvgDelayParams{Year: 2024, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, "No data for 1/2024", res.Message)
}

// --- ExecuteAction ---
func TestExecuteAction(t *testing.T) {
	ctx := context.Background()
	a := newActions(january2024()...)

	out, err := a.ExecuteAction(ctx, "monthly_avg_delay", map[string]any{"year": 2024.0, "month": 1.0})
	require.NoError(t, err)
	res, ok := out.(MonthlyAvgDelayResult)
	require.True(t, ok)
	assert.Equal(t, 1, res.Month)

	out, err = a.ExecuteAction(ctx, "warehouses_over_delivery", map[string]any{"threshold": 100, "extra": true})
	require.NoError(t, err)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"No warehouse above 100.0 days"}`, string(raw))

	out, err = a.ExecuteAction(ctx, "top3_warehouses_by_processing", nil)
	require.NoError(t, err)
	assert.Len(t, out.(Top3WarehousesResult).Top3, 3)
}

func TestExecuteActionErrors(t *testing.T) {
	ctx := context.Background()
	a := newActions(january2024()...)

	_, err := a.ExecuteAction(ctx, "drop_tables", nil)
	assert.True(t, errors.Is(err, ErrUnknownAction))

	_, err = a.ExecuteAction(ctx, "warehouses_over_delivery", map[string]any{"threshold": "high"})
	assert.True(t, errors.Is(err, ErrInvalidParams))

	_, err = a.ExecuteAction(ctx, "monthly_avg_delay", map[string]any{"year": 2024})
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestDefinitionsCoverEveryAction(t *testing.T) {
	a := newActions()
	defs := a.Definitions()
	require.Len(t, defs, len(AllActions))
	for i, d := range defs {
		assert.Equal(t, AllActions[i], d.Name)
		assert.NotEmpty(t, d.Description)
		assert.Equal(t, "object", d.Parameters["type"])
	}
}

func TestResultsMarshalFullShape(t *testing.T) {
	raw, err := json.Marshal(newActions(january2024()...).RouteWithBiggestDelayLastWeek())
	require.NoError(t, err)
	assert.JSONEq(t, `{"route":"R1","total_delay_minutes":50,"from":"2024-01-24","to":"2024-01-31"}`, string(raw))
}
