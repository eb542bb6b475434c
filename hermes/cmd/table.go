package main

import (
	"fmt"
	"io"
	"strconv"

	"hermes/hermes/agents/actions"
	"hermes/hermes/agents/getters"
	"hermes/hermes/sources/sqlstore/models"

	"github.com/olekukonko/tablewriter"
)

type tableData struct {
	header []string
	rows   [][]string
}

func renderTable(w io.Writer, t tableData) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader(t.header)
	table.AppendBulk(t.rows)
	table.Render()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// resultTable lays out an action result. ok is false for results that carry
// a message instead of data.
func resultTable(res any) (t tableData, msg string, ok bool) {
	if r, isResult := res.(actions.Result); isResult && r.NoDataMessage() != "" {
		return tableData{}, r.NoDataMessage(), false
	}
	switch r := res.(type) {
	case actions.RouteDelayResult:
		return tableData{
			header: []string{"Route", "Total delay (min)", "From", "To"},
			rows:   [][]string{{r.Route, strconv.FormatInt(r.TotalDelayMinutes, 10), r.From, r.To}},
		}, "", true
	case actions.DelayStatsResult:
		t = tableData{header: []string{"Reason", "Delayed shipments"}}
		for _, rc := range r.DelayByReason {
			t.rows = append(t.rows, []string{rc.Reason, strconv.Itoa(rc.Count)})
		}
		return t, "", true
	case actions.WarehousesOverDeliveryResult:
		t = tableData{header: []string{"Warehouse", fmt.Sprintf("Avg delivery (days) > %s", ff(r.Threshold))}}
		for _, wh := range r.Warehouses {
			t.rows = append(t.rows, []string{wh.Warehouse, ff(wh.AvgDeliveryTime)})
		}
		return t, "", true
	case actions.Top3WarehousesResult:
		t = tableData{header: []string{"#", "Warehouse", "Avg delivery (days)"}}
		for i, wh := range r.Top3 {
			t.rows = append(t.rows, []string{strconv.Itoa(i + 1), wh.Warehouse, ff(wh.AvgDeliveryTime)})
		}
		return t, "", true
	case actions.MonthlyAvgDelayResult:
		return tableData{
			header: []string{"Year", "Month", "Avg delay (min)"},
			rows:   [][]string{{strconv.Itoa(r.Year), strconv.Itoa(r.Month), ff(r.AverageDelay)}},
		}, "", true
	case actions.PredictResult:
		t = tableData{header: []string{"Week", "Avg delay (min)"}}
		for _, wk := range r.UsedWeeks {
			t.rows = append(t.rows, []string{wk.WeekStart, ff(wk.AvgDelay)})
		}
		t.rows = append(t.rows, []string{"next (" + r.Method + ")", ff(r.Prediction)})
		return t, "", true
	}
	return tableData{}, fmt.Sprintf("%v", res), false
}

func historyTable(recs []models.ChatInteraction) tableData {
	t := tableData{header: []string{"ID", "User", "Asked at", "Question", "Answer", "ms", "Model"}}
	for _, r := range recs {
		model := ""
		if r.ModelName != nil {
			model = *r.ModelName
		}
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.UserID,
			r.UserTimestamp,
			truncate(r.UserMessage, 60),
			truncate(r.AssistantMessage, 80),
			strconv.FormatFloat(r.ResponseTimeMs, 'f', 0, 64),
			model,
		})
	}
	return t
}

func summaryTable(s getters.DatasetSummary) tableData {
	return tableData{
		header: []string{"Rows", "From", "To", "Routes", "Warehouses", "Delay reasons"},
		rows: [][]string{{
			strconv.Itoa(s.Rows), s.From, s.To,
			strconv.Itoa(len(s.Routes)), strconv.Itoa(len(s.Warehouses)), strconv.Itoa(len(s.Reasons)),
		}},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
