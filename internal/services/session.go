package service

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/models"
)

// AuthAPI is the slice of the marketplace client the session layer
// needs: token validation and best-effort logout.
type AuthAPI interface {
	Me(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type cachedSession struct {
	user      *models.User
	expiresAt time.Time
}

// SessionService exchanges bearer tokens for user records via the
// backend's whoami endpoint and caches the result so the guard does
// not hit the backend on every request.
type SessionService struct {
	backend  AuthAPI
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cachedSession
}

func NewSessionService(backend AuthAPI, cacheTTL time.Duration) *SessionService {
	return &SessionService{
		backend:  backend,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedSession),
	}
}

// Resolve turns a bearer token into a user. An absent, expired or
// invalid token resolves to (nil, nil): anonymous is a valid state and
// never an error. Only backend outages surface as errors.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {

	if token == "" {
		return nil, nil
	}

	// Cheap local expiry check before spending a round trip. The
	// signature is the backend's to verify; we only read the claims.
	claims := &models.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			s.evict(token)

			return nil, nil
		}
	}

	if user, ok := s.lookup(token); ok {
		return user, nil
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {

		if appErr, ok := appErrors.IsAppError(err); ok &&
			(appErr.StatusCode == http.StatusUnauthorized || appErr.StatusCode == http.StatusForbidden) {
			// Stale token: silently reset to unauthenticated, the
			// normal login flow takes over on the next guarded route.
			s.evict(token)

			return nil, nil
		}

		return nil, err
	}

	s.store(token, user)

	return user, nil
}

// Logout notifies the backend best-effort and always clears local
// state; from the caller's perspective logout cannot fail.
func (s *SessionService) Logout(ctx context.Context, token string) {

	if token == "" {
		return
	}

	if err := s.backend.Logout(ctx, token); err != nil {
		slog.Warn("Backend logout failed, clearing local session anyway",
			slog.String("error", err.Error()))
	}

	s.evict(token)
}

func (s *SessionService) lookup(token string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.user, true
}

func (s *SessionService) store(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[token] = cachedSession{user: user, expiresAt: time.Now().Add(s.cacheTTL)}
}

func (s *SessionService) evict(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, token)
}
