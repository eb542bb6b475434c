package actions

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hermes/hermes/sources/dataset"
)

const (
	dateLayout = "2006-01-02"
	lastWeek   = 7 * 24 * time.Hour
)

const (
	msgNoShipments       = "No shipment data available"
	msgNoDelaysLastWeek  = "No delayed shipments in the last week"
	msgNoDelays          = "No delays found"
	msgNotEnoughData     = "Not enough data"
	msgNoWeeklyData      = "No weekly data"
	monthlyNoDataPattern = "No data for %d/%d"
)

// RouteWithBiggestDelayLastWeek sums positive delays per route over the
// window (latest date - 7 days, latest date] and returns the route with
// the largest sum.
//
// Returns:
//   - The route, its truncated total delay and the window bounds as dates,
//     or a message when there is no data or no delayed shipment in the window.
func (a *DataActions) RouteWithBiggestDelayLastWeek() RouteDelayResult {
	end, ok := a.ds.MaxDate()
	if !ok {
		return RouteDelayResult{Message: msgNoShipments}
	}
	start := end.Add(-lastWeek)
	inWindow := func(s dataset.Shipment) bool {
		return isDelayed(s) && s.Date.After(start) && !s.Date.After(end)
	}

	groups := groupBy(a.ds, inWindow, byRoute, delayOf)
	if len(groups) == 0 {
		return RouteDelayResult{Message: msgNoDelaysLastWeek}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].sum > groups[j].sum })

	top := groups[0]
	return RouteDelayResult{
		Route:             top.key,
		TotalDelayMinutes: int64(top.sum),
		From:              start.Format(dateLayout),
		To:                end.Format(dateLayout),
	}
}

// DelayStatsByReason counts delayed shipments per reason, most frequent
// first; equal counts are ordered by reason. Only shipments with an id are
// counted.
func (a *DataActions) DelayStatsByReason() DelayStatsResult {
	groups := groupBy(a.ds, isDelayed, byReason, idPresent)
	if len(groups) == 0 {
		return DelayStatsResult{Message: msgNoDelays}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].n > groups[j].n })

	stats := make([]ReasonCount, 0, len(groups))
	for _, g := range groups {
		stats = append(stats, ReasonCount{Reason: g.key, Count: g.n})
	}
	return DelayStatsResult{DelayByReason: stats}
}

// MonthlyAvgDelay averages delay minutes over every shipment dated in the
// given calendar month, on-time shipments included.
//
// Returns:
//   - ErrInvalidParams when year or month is missing.
func (a *DataActions) MonthlyAvgDelay(params MonthlyAvgDelayParams) (MonthlyAvgDelayResult, error) {
	if params.Year == 0 || params.Month == 0 {
		return MonthlyAvgDelayResult{}, fmt.Errorf("%w: year and month are required", ErrInvalidParams)
	}
	inMonth := func(s dataset.Shipment) bool {
		return s.Date.Year() == params.Year && int(s.Date.Month()) == params.Month
	}

	var sum float64
	var n int
	for i := 0; i < a.ds.Len(); i++ {
		row := a.ds.Row(i)
		if !inMonth(row) || math.IsNaN(row.DelayMinutes) {
			continue
		}
		sum += row.DelayMinutes
		n++
	}
	if n == 0 {
		return MonthlyAvgDelayResult{Message: fmt.Sprintf(monthlyNoDataPattern, params.Month, params.Year)}, nil
	}
	return MonthlyAvgDelayResult{
		Year:         params.Year,
		Month:        params.Month,
		AverageDelay: sum / float64(n),
	}, nil
}
