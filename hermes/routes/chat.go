package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"hermes/hermes/agents/core"
	"hermes/hermes/controllers"
	"hermes/hermes/middlewares"
	httputils "hermes/hermes/utils/http"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ChatRoutes(ctrl *controllers.ChatController, jwtSecret string) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(jwtSecret))

		// POST /chat/ : ask one question
		gr.Post("/", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
			var req types.ChatRequest
			if err := httputils.DecodeJSON(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			resp, err := ctrl.Chat(r.Context(), middlewares.UserID(r.Context()), req, nil)
			if errors.Is(err, core.ErrEmptyQuestion) {
				return nil, http.StatusBadRequest, err
			}
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return resp, http.StatusOK, nil
		}))

		// GET /chat/history?limit= : this session's exchanges
		gr.Get("/history", httputils.HandleJSON(func(r *http.Request) (any, int, error) {
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					return nil, http.StatusBadRequest, errors.New("limit must be a non-negative integer")
				}
				limit = n
			}
			history, err := ctrl.History(r.Context(), middlewares.UserID(r.Context()), limit)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return history, http.StatusOK, nil
		}))
	})

	// the websocket authenticates with its first frame
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token       string            `json:"token"`
			ChatRequest types.ChatRequest `json:"chat_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			writeWSError(r, conn, "invalid json")
			conn.Close(websocket.StatusUnsupportedData, "invalid json")
			return
		}
		userID, err := middlewares.ParseToken([]byte(jwtSecret), input.Token)
		if err != nil {
			writeWSError(r, conn, "invalid token")
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		ctrl.ChatWebSocket(ctx, conn, userID, input.ChatRequest)
	})
	return r
}

func writeWSError(r *http.Request, conn *websocket.Conn, msg string) {
	data, _ := json.Marshal(types.WSEvent{Type: "error", Payload: msg})
	if err := conn.Write(r.Context(), websocket.MessageText, data); err != nil {
		logging.ErrorLogger.Error("websocket write error", zap.Error(err))
	}
}
