package types

type SessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
