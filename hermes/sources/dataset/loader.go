package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"hermes/hermes/utils/logging"

	"go.uber.org/zap"
)

const (
	ColID           = "id"
	ColDate         = "date"
	ColRoute        = "route"
	ColWarehouse    = "warehouse"
	ColDelayMinutes = "delay_minutes"
	ColDelayReason  = "delay_reason"
	ColDeliveryTime = "delivery_time"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{ColDate, ColRoute, ColWarehouse, ColDelayMinutes, ColDelayReason, ColDeliveryTime, ColID}

var ErrMalformed = errors.New("malformed shipment data")

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// ObjectFetcher reads a whole object from a bucket.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Load reads a CSV file. Any read or parse error yields an empty dataset;
// the error is logged, never returned.
func Load(path string) *Dataset {
	f, err := os.Open(path)
	if err != nil {
		logging.AppLogger.Warn("shipment data unavailable, using empty dataset",
			zap.String("path", path), zap.Error(err))
		return Empty()
	}
	defer f.Close()
	return parseOrEmpty(f, path)
}

// LoadObject is Load for a CSV stored in object storage.
func LoadObject(ctx context.Context, fetcher ObjectFetcher, key string) *Dataset {
	data, err := fetcher.Fetch(ctx, key)
	if err != nil {
		logging.AppLogger.Warn("shipment object unavailable, using empty dataset",
			zap.String("key", key), zap.Error(err))
		return Empty()
	}
	return parseOrEmpty(bytes.NewReader(data), key)
}

func parseOrEmpty(r io.Reader, source string) *Dataset {
	ds, err := Parse(r)
	if err != nil {
		logging.AppLogger.Warn("shipment data malformed, using empty dataset",
			zap.String("source", source), zap.Error(err))
		return Empty()
	}
	logging.AppLogger.Info("shipment data loaded", zap.String("source", source), zap.Int("rows", ds.Len()))
	return ds
}

// Parse reads shipments from CSV with a header row. It fails on a missing
// required column, an unparsable date or a non-numeric numeric cell.
// Empty numeric cells become NaN.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV headers: %v", ErrMalformed, err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	var rows []Shipment
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		s, err := parseRow(rec, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		rows = append(rows, s)
	}
	return New(rows), nil
}

func parseRow(rec []string, index map[string]int) (Shipment, error) {
	get := func(col string) string {
		return strings.TrimSpace(rec[index[col]])
	}
	date, err := parseDate(get(ColDate))
	if err != nil {
		return Shipment{}, err
	}
	delay, err := parseNumber(ColDelayMinutes, get(ColDelayMinutes))
	if err != nil {
		return Shipment{}, err
	}
	delivery, err := parseNumber(ColDeliveryTime, get(ColDeliveryTime))
	if err != nil {
		return Shipment{}, err
	}
	return Shipment{
		ID:           get(ColID),
		Date:         date,
		Route:        get(ColRoute),
		Warehouse:    get(ColWarehouse),
		DelayMinutes: delay,
		DelayReason:  get(ColDelayReason),
		DeliveryTime: delivery,
	}, nil
}

// parseDate reads dates without an offset as UTC. An explicit offset is
// kept so calendar months and weeks follow the recorded wall clock.
func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}

func parseNumber(col, v string) (float64, error) {
	if v == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, v)
	}
	return f, nil
}
