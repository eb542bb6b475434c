package actions

import "sort"

const msgNoData = "No data"

// WarehousesOverDelivery returns, in name order, the warehouses whose mean
// delivery time is strictly above the threshold (default 5 days).
func (a *DataActions) WarehousesOverDelivery(params WarehousesOverDeliveryParams) WarehousesOverDeliveryResult {
	threshold := DefaultDeliveryThreshold
	if params.Threshold != nil {
		threshold = *params.Threshold
	}
	if a.ds.Len() == 0 {
		return WarehousesOverDeliveryResult{Message: msgNoData}
	}

	over := []WarehouseAvg{}
	for _, w := range warehouseAverages(a.ds) {
		if w.AvgDeliveryTime > threshold {
			over = append(over, w)
		}
	}
	if len(over) == 0 {
		return WarehousesOverDeliveryResult{Message: "No warehouse above " + formatNumber(threshold) + " days"}
	}
	return WarehousesOverDeliveryResult{Threshold: threshold, Warehouses: over}
}

// Top3WarehousesByProcessing returns up to three warehouses with the highest
// mean delivery time. Equal means keep name order.
func (a *DataActions) Top3WarehousesByProcessing() Top3WarehousesResult {
	avgs := warehouseAverages(a.ds)
	if len(avgs) == 0 {
		return Top3WarehousesResult{Message: msgNoData}
	}
	sort.SliceStable(avgs, func(i, j int) bool { return avgs[i].AvgDeliveryTime > avgs[j].AvgDeliveryTime })
	if len(avgs) > 3 {
		avgs = avgs[:3]
	}
	return Top3WarehousesResult{Top3: avgs}
}
