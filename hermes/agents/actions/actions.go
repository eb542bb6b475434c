// Package actions provides the named analytics operations the agent can call over the shipment dataset.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hermes/hermes/sources/dataset"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"

	"go.uber.org/zap"
)

// ActionName identifies one analytics operation.
type ActionName string

const (
	ActionRouteWithBiggestDelayLastWeek ActionName = "route_with_biggest_delay_last_week"
	ActionDelayStatsByReason            ActionName = "delay_stats_by_reason"
	ActionWarehousesOverDelivery        ActionName = "warehouses_over_delivery"
	ActionTop3WarehousesByProcessing    ActionName = "top3_warehouses_by_processing"
	ActionMonthlyAvgDelay               ActionName = "monthly_avg_delay"
	ActionPredictNextWeekDelay          ActionName = "predict_next_week_delay"
)

// AllActions lists every action in the order they are advertised.
var AllActions = []ActionName{
	ActionRouteWithBiggestDelayLastWeek,
	ActionDelayStatsByReason,
	ActionWarehousesOverDelivery,
	ActionTop3WarehousesByProcessing,
	ActionMonthlyAvgDelay,
	ActionPredictNextWeekDelay,
}

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidParams = errors.New("invalid action params")
)

// Definition describes an action to a model: its name, what it answers and
// a JSON schema for its arguments.
type Definition struct {
	Name        ActionName
	Description string
	Parameters  map[string]any
}

// Executor runs actions by name. The agent depends on this, not on DataActions.
type Executor interface {
	Definitions() []Definition
	ExecuteAction(ctx context.Context, name string, args map[string]any) (any, error)
}

// Result is implemented by every action result. A non-empty NoDataMessage
// means the action found nothing to report.
type Result interface {
	NoDataMessage() string
}

type actionFn func(args map[string]any) (Result, error)

// DataActions runs the analytics actions over one immutable dataset.
// It holds no mutable state and is safe for concurrent use.
type DataActions struct {
	fnMaps map[ActionName]actionFn
	ds     *dataset.Dataset
}

var _ Executor = (*DataActions)(nil)

// NewDataActions initializes a new DataActions instance over a dataset.
// It sets up the function map for available actions.
//
// Parameters:
//   - ds: The shipment dataset. A nil dataset behaves as an empty one.
//
// Returns:
//   - A pointer to an initialized DataActions instance.
func NewDataActions(ds *dataset.Dataset) *DataActions {
	if ds == nil {
		ds = dataset.Empty()
	}
	a := &DataActions{
		fnMaps: make(map[ActionName]actionFn, len(AllActions)),
		ds:     ds,
	}
	a.fnMaps[ActionRouteWithBiggestDelayLastWeek] = bind(func(NoParams) RouteDelayResult {
		return a.RouteWithBiggestDelayLastWeek()
	})
	a.fnMaps[ActionDelayStatsByReason] = bind(func(NoParams) DelayStatsResult {
		return a.DelayStatsByReason()
	})
	a.fnMaps[ActionWarehousesOverDelivery] = bind(a.WarehousesOverDelivery)
	a.fnMaps[ActionTop3WarehousesByProcessing] = bind(func(NoParams) Top3WarehousesResult {
		return a.Top3WarehousesByProcessing()
	})
	a.fnMaps[ActionMonthlyAvgDelay] = bindChecked(a.MonthlyAvgDelay)
	a.fnMaps[ActionPredictNextWeekDelay] = bind(a.PredictNextWeekDelay)
	return a
}

// Definitions returns the tool definitions for every action.
func (a *DataActions) Definitions() []Definition {
	return definitions()
}

// ExecuteAction decodes args into the action's parameters and runs it.
//
// Parameters:
//   - ctx: Request context, used for trace-aware logging.
//   - name: One of the ActionName values.
//   - args: Decoded JSON arguments. Unknown keys are ignored.
//
// Returns:
//   - The action result, a value implementing Result.
//   - ErrUnknownAction or ErrInvalidParams (wrapped) on failure.
func (a *DataActions) ExecuteAction(ctx context.Context, name string, args map[string]any) (any, error) {
	fn, ok := a.fnMaps[ActionName(name)]
	if !ok {
		metrics.ToolCalls.WithLabelValues("unknown", metrics.ResultError).Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	defer logging.LogDuration(ctx, "action."+name)()

	res, err := fn(args)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(name, metrics.ResultError).Inc()
		logging.AppLogger.Warn("action failed", zap.String("action", name), zap.Error(err))
		return nil, err
	}
	outcome := metrics.ResultOK
	if res.NoDataMessage() != "" {
		outcome = metrics.ResultFallback
	}
	metrics.ToolCalls.WithLabelValues(name, outcome).Inc()
	return res, nil
}

// NoParams is the parameter type of actions that take no arguments.
type NoParams struct{}

func bind[P any, R Result](fn func(P) R) actionFn {
	return func(args map[string]any) (Result, error) {
		var p P
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return fn(p), nil
	}
}

func bindChecked[P any, R Result](fn func(P) (R, error)) actionFn {
	return func(args map[string]any) (Result, error) {
		var p P
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return fn(p)
	}
}

// decodeParams maps loosely typed arguments onto a params struct by a JSON round trip.
func decodeParams(args map[string]any, dst any) error {
	if len(args) == 0 {
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
