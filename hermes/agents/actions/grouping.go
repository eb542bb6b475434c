package actions

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"hermes/hermes/sources/dataset"
)

// group accumulates one key's non-NaN values.
type group struct {
	key string
	n   int
	sum float64
}

func (g group) mean() (float64, bool) {
	if g.n == 0 {
		return 0, false
	}
	return g.sum / float64(g.n), true
}

// groupBy buckets the rows accepted by keep under key(row). Blank keys are
// skipped. Groups come back in ascending key order so that later stable
// sorts break ties deterministically.
func groupBy(
	ds *dataset.Dataset,
	keep func(dataset.Shipment) bool,
	key func(dataset.Shipment) string,
	value func(dataset.Shipment) float64,
) []group {
	index := make(map[string]int)
	var groups []group
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if keep != nil && !keep(row) {
			continue
		}
		k := key(row)
		if k == "" {
			continue
		}
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, group{key: k})
		}
		g := &groups[pos]
		if v := value(row); !math.IsNaN(v) {
			g.n++
			g.sum += v
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}

func isDelayed(s dataset.Shipment) bool { return s.DelayMinutes > 0 }

func byRoute(s dataset.Shipment) string         { return s.Route }
func byWarehouse(s dataset.Shipment) string     { return s.Warehouse }
func byReason(s dataset.Shipment) string        { return s.DelayReason }
func delayOf(s dataset.Shipment) float64        { return s.DelayMinutes }
func deliveryTimeOf(s dataset.Shipment) float64 { return s.DeliveryTime }

// idPresent counts 1 for a shipment with an id and NaN (not observed) otherwise.
func idPresent(s dataset.Shipment) float64 {
	if strings.TrimSpace(s.ID) == "" {
		return math.NaN()
	}
	return 1
}

// warehouseAverages returns every warehouse with at least one delivery
// time observation, in ascending name order.
func warehouseAverages(ds *dataset.Dataset) []WarehouseAvg {
	var out []WarehouseAvg
	for _, g := range groupBy(ds, nil, byWarehouse, deliveryTimeOf) {
		if avg, ok := g.mean(); ok {
			out = append(out, WarehouseAvg{Warehouse: g.key, AvgDeliveryTime: avg})
		}
	}
	return out
}

// formatNumber renders a float the way users type it: integral values keep
// one decimal place (5.0), others use the shortest exact form (6.25).
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
