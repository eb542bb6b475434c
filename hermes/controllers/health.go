package controllers

import (
	"context"
	"net/http"
	"time"

	httputils "hermes/hermes/utils/http"
)

// Pinger checks a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	shipments int
	db        Pinger
}

func NewHealthController(shipments int, db Pinger) *HealthController {
	return &HealthController{shipments: shipments, db: db}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Shipments int    `json:"shipments"`
	Database  string `json:"database,omitempty"`
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Shipments: h.shipments}
	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}
	httputils.WriteJSON(w, status, resp)
}
