// hermes/routes/auth.go
package routes

import (
	"net/http"

	"hermes/hermes/controllers"
	httputils "hermes/hermes/utils/http"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/session", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
		sess, err := ctrl.NewSession()
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return sess, http.StatusCreated, nil
	}))
	return r
}
