// hermes/agents/getters/getters.go
package getters

import (
	"sort"

	"hermes/hermes/sources/dataset"
)

// DatasetSummary describes what the loaded shipment data covers.
type DatasetSummary struct {
	Rows       int      `json:"rows"`
	From       string   `json:"from,omitempty"`
	To         string   `json:"to,omitempty"`
	Routes     []string `json:"routes"`
	Warehouses []string `json:"warehouses"`
	Reasons    []string `json:"delay_reasons"`
}

// DataGetters exposes read-only views of the dataset that are not analytics
// actions: the model never calls them, the API and CLI do.
type DataGetters struct {
	ds *dataset.Dataset
}

func NewDataGetters(ds *dataset.Dataset) *DataGetters {
	if ds == nil {
		ds = dataset.Empty()
	}
	return &DataGetters{ds: ds}
}

// Summary lists the distinct routes, warehouses and delay reasons in name
// order together with the covered date range.
func (g *DataGetters) Summary() DatasetSummary {
	routes := map[string]struct{}{}
	warehouses := map[string]struct{}{}
	reasons := map[string]struct{}{}
	s := DatasetSummary{Rows: g.ds.Len()}

	for i := 0; i < g.ds.Len(); i++ {
		row := g.ds.Row(i)
		if i == 0 || row.Date.Format("2006-01-02") < s.From {
			s.From = row.Date.Format("2006-01-02")
		}
		addNonBlank(routes, row.Route)
		addNonBlank(warehouses, row.Warehouse)
		if row.DelayMinutes > 0 {
			addNonBlank(reasons, row.DelayReason)
		}
	}
	if latest, ok := g.ds.MaxDate(); ok {
		s.To = latest.Format("2006-01-02")
	}
	s.Routes = sortedKeys(routes)
	s.Warehouses = sortedKeys(warehouses)
	s.Reasons = sortedKeys(reasons)
	return s
}

func addNonBlank(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
