// hermes/controllers/auth.go
package controllers

import (
	"time"

	"hermes/hermes/middlewares"
	"hermes/hermes/utils/types"

	"github.com/google/uuid"
)

// SessionTTL bounds how long a session token is accepted.
const SessionTTL = 24 * time.Hour

// AuthController hands out session identities. A session id only scopes
// interaction history; it grants no other access.
type AuthController struct {
	secret []byte
}

func NewAuthController(secret string) *AuthController {
	return &AuthController{secret: []byte(secret)}
}

// NewSession mints a fresh session id and a signed token carrying it.
func (c *AuthController) NewSession() (types.SessionResponse, error) {
	userID := uuid.NewString()
	token, err := middlewares.IssueToken(c.secret, userID, SessionTTL)
	if err != nil {
		return types.SessionResponse{}, err
	}
	return types.SessionResponse{Token: token, UserID: userID}, nil
}
