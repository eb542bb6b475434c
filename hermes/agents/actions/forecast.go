package actions

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// weekStart returns Monday 00:00 of t's ISO week, taken from t's own
// wall-clock date.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// PredictNextWeekDelay buckets shipments by ISO week, averages delay per
// week and predicts the mean of the last window_weeks weekly averages.
// Fewer weeks than the window means all of them are used, and the method
// names the number of weeks actually averaged.
func (a *DataActions) PredictNextWeekDelay(params PredictNextWeekDelayParams) PredictResult {
	window := DefaultWindowWeeks
	if params.WindowWeeks != nil && *params.WindowWeeks > 0 {
		window = *params.WindowWeeks
	}
	if a.ds.Len() == 0 {
		return PredictResult{Message: msgNotEnoughData}
	}

	type bucket struct {
		sum float64
		n   int
	}
	buckets := make(map[time.Time]*bucket)
	for i := 0; i < a.ds.Len(); i++ {
		row := a.ds.Row(i)
		if math.IsNaN(row.DelayMinutes) {
			continue
		}
		ws := weekStart(row.Date)
		b, ok := buckets[ws]
		if !ok {
			b = &bucket{}
			buckets[ws] = b
		}
		b.sum += row.DelayMinutes
		b.n++
	}
	if len(buckets) == 0 {
		return PredictResult{Message: msgNoWeeklyData}
	}

	weeks := make([]time.Time, 0, len(buckets))
	for ws := range buckets {
		weeks = append(weeks, ws)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	if len(weeks) > window {
		weeks = weeks[len(weeks)-window:]
	}

	used := make([]WeekAvg, 0, len(weeks))
	var total float64
	for _, ws := range weeks {
		b := buckets[ws]
		avg := b.sum / float64(b.n)
		total += avg
		used = append(used, WeekAvg{WeekStart: ws.Format(dateLayout), AvgDelay: avg})
	}
	return PredictResult{
		Method:     fmt.Sprintf("moving_avg_%dw", len(used)),
		Prediction: total / float64(len(used)),
		UsedWeeks:  used,
	}
}
