package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"hermes/hermes/agents/actions"
	"hermes/hermes/agents/getters"
)

// AnalyticsController runs the analytics actions directly, without the model.
type AnalyticsController struct {
	actions actions.Executor
	getters *getters.DataGetters
}

func NewAnalyticsController(executor actions.Executor, g *getters.DataGetters) *AnalyticsController {
	return &AnalyticsController{actions: executor, getters: g}
}

// ActionInfo is the API view of an action definition.
type ActionInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func (c *AnalyticsController) List() []ActionInfo {
	defs := c.actions.Definitions()
	out := make([]ActionInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, ActionInfo{Name: string(d.Name), Description: d.Description, Parameters: d.Parameters})
	}
	return out
}

func (c *AnalyticsController) Summary() getters.DatasetSummary {
	return c.getters.Summary()
}

// Run executes one action and maps its error to an HTTP status.
func (c *AnalyticsController) Run(ctx context.Context, name string, args map[string]any) (any, int, error) {
	res, err := c.actions.ExecuteAction(ctx, name, args)
	switch {
	case errors.Is(err, actions.ErrUnknownAction):
		return nil, http.StatusNotFound, err
	case errors.Is(err, actions.ErrInvalidParams):
		return nil, http.StatusBadRequest, err
	case err != nil:
		return nil, http.StatusInternalServerError, err
	}
	return res, http.StatusOK, nil
}

// ArgsFromQuery turns query parameters into action arguments. Numeric
// values become numbers; the first value of a repeated key wins.
func ArgsFromQuery(q url.Values) map[string]any {
	args := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		if f, err := strconv.ParseFloat(vs[0], 64); err == nil {
			args[k] = f
			continue
		}
		args[k] = vs[0]
	}
	return args
}
