package routes

import (
	"net/http"

	"hermes/hermes/controllers"
	httputils "hermes/hermes/utils/http"

	"github.com/go-chi/chi/v5"
)

// AnalyticsRoutes exposes the actions without the model. They read only the
// shared dataset, so no session is required.
func AnalyticsRoutes(ctrl *controllers.AnalyticsController) chi.Router {
	r := chi.NewRouter()

	r.Get("/", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.List(), http.StatusOK, nil
	}))

	r.Get("/dataset", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Summary(), http.StatusOK, nil
	}))

	// GET /analytics/{action}?threshold=6
	r.Get("/{action}", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Run(r.Context(), chi.URLParam(r, "action"), controllers.ArgsFromQuery(r.URL.Query()))
	}))

	// POST /analytics/{action} {"year": 2024, "month": 1}
	r.Post("/{action}", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
		args := map[string]any{}
		if err := httputils.DecodeJSON(r, &args); err != nil {
			return nil, http.StatusBadRequest, err
		}
		return ctrl.Run(r.Context(), chi.URLParam(r, "action"), args)
	}))
	return r
}
