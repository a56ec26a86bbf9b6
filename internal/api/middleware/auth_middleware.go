package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/guard"
	"github.com/plantmart/storefront-gateway/internal/models"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

type contextKey string

const (
	UserContextKey  = contextKey("user")
	TokenContextKey = contextKey("token")
)

// SessionResolver exchanges a bearer token for a user; anonymous
// resolves to (nil, nil).
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// WithSession resolves the bearer token (if any) and stashes the user
// and raw token in the request context. It never rejects: anonymous
// requests flow through so public routes keep working; the guard
// decides what is actually reachable.
func (m *AuthMiddleware) WithSession(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		token := bearerToken(r)

		user, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			logger.Error("Session resolution failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		ctx := context.WithValue(r.Context(), TokenContextKey, token)

		if user != nil {
			ctx = context.WithValue(ctx, UserContextKey, user)

			requestScopedLogger := logger.With(
				slog.String("userId", user.ID),
				slog.String("userType", string(user.UserType)))
			ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole adapts the guard's decision table to HTTP. requiredRole
// nil means any authenticated user.
func (m *AuthMiddleware) RequireRole(requiredRole *models.Role, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		user := UserFromContext(r.Context())

		outcome := guard.Evaluate(guard.Input{
			User:           user,
			RequiredRole:   requiredRole,
			SessionLoading: false, // resolution already completed in WithSession
		})

		switch outcome.Decision {
		case guard.DecisionUnauthenticated:
			// Preserve the requested location for post-login return.
			redirect := outcome.RedirectTo + "?from=" + url.QueryEscape(r.URL.RequestURI())
			response.ErrorWithRedirect(w, errors.UnauthorizedError("Authentication required"), redirect)

		case guard.DecisionForbidden:
			logger.Warn("Role mismatch on protected route",
				slog.String("required", string(*requiredRole)))
			response.ErrorWithRedirect(w, errors.ForbiddenError("Insufficient permission"), outcome.RedirectTo)

		case guard.DecisionSellerPending:
			response.Error(w, errors.SellerPendingError(outcome.Message))

		case guard.DecisionSellerRejected:
			response.Error(w, errors.SellerRejectedError(outcome.Message))

		case guard.DecisionAuthorized:
			next.ServeHTTP(w, r)

		default:
			response.Error(w, errors.InternalError("Unhandled authorization state"))
		}
	}
}

// RequireAuth gates a route to any authenticated user.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.HandlerFunc {
	return m.RequireRole(nil, next)
}

func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}

	return nil
}

func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(TokenContextKey).(string); ok {
		return token
	}

	return ""
}

func bearerToken(r *http.Request) string {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
