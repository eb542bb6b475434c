// Package dataset holds the shipment records the analytics actions read.
package dataset

import (
	"time"
)

// Shipment is one row of logistics data. DelayReason is only meaningful
// when DelayMinutes > 0. Missing numeric cells are NaN.
type Shipment struct {
	ID           string
	Date         time.Time
	Route        string
	Warehouse    string
	DelayMinutes float64
	DelayReason  string
	DeliveryTime float64 // days
}

// Dataset is an immutable set of shipments. A nil or empty Dataset is a
// valid, expected state.
type Dataset struct {
	rows    []Shipment
	maxDate time.Time
}

// New copies rows into a new Dataset.
func New(rows []Shipment) *Dataset {
	d := &Dataset{rows: make([]Shipment, len(rows))}
	copy(d.rows, rows)
	for i, r := range d.rows {
		if i == 0 || r.Date.After(d.maxDate) {
			d.maxDate = r.Date
		}
	}
	return d
}

// Empty returns a dataset with zero rows.
func Empty() *Dataset {
	return &Dataset{}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Row returns a copy of the i-th shipment.
func (d *Dataset) Row(i int) Shipment {
	return d.rows[i]
}

// MaxDate is the latest shipment date; ok is false for an empty dataset.
func (d *Dataset) MaxDate() (t time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, false
	}
	return d.maxDate, true
}
