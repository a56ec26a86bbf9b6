package handlers

import (
	"context"
	"net/http"

	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

// SessionLogout mirrors the session service's always-succeeding logout.
type SessionLogout interface {
	Logout(ctx context.Context, token string)
}

type SessionHandler struct {
	sessions SessionLogout
}

func NewSessionHandler(sessions SessionLogout) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Me returns the resolved session user. Anonymous callers get a null
// user rather than an error so the SPA shell can render public pages.
func (h *SessionHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())

		response.Success(w, http.StatusOK, map[string]any{"user": user})
	}
}

func (h *SessionHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := middleware.TokenFromContext(r.Context())

		h.sessions.Logout(r.Context(), token)

		response.Success(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}
