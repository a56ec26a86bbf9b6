package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appErrors "github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/metrics"
	"github.com/plantmart/storefront-gateway/internal/models"
)

// OrderPlacer is the slice of the marketplace client checkout needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, token string, req *models.OrderRequest, idempotencyKey string) (*models.Order, error)
}

// AttemptLimiter throttles repeated checkout attempts per session.
type AttemptLimiter interface {
	Allow(ctx context.Context, sessionID string) (allowed bool, remaining, retryAfter int, err error)
}

type CheckoutService struct {
	carts     *CartService
	backend   OrderPlacer
	limiter   AttemptLimiter // may be nil when redis is not configured
	validator *validator.Validate

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewCheckoutService(carts *CartService, backend OrderPlacer, limiter AttemptLimiter) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		backend:   backend,
		limiter:   limiter,
		validator: validator.New(),
		inFlight:  make(map[string]bool),
	}
}

// Checkout submits the session's cart as one order. Preconditions are
// checked before any network call; on backend failure the cart is left
// exactly as it was so the user can retry manually. Checkout is not
// re-entrant per session: a second call while one is in flight is
// rejected without reaching the backend.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID, token string, address *models.ShippingAddress) (*models.Order, error) {

	if err := s.validator.Struct(address); err != nil {
		metrics.CountCheckout("rejected")

		return nil, appErrors.ValidationError("Shipping address is incomplete").WithError(err)
	}

	cart := s.carts.GetCart(sessionID)

	if cart.IsEmpty() || cart.SellerID == "" {
		metrics.CountCheckout("rejected")

		return nil, appErrors.BadRequestError("Cannot checkout with an empty cart")
	}

	if err := s.acquire(sessionID); err != nil {
		metrics.CountCheckout("rejected")

		return nil, err
	}
	defer s.release(sessionID)

	if s.limiter != nil {

		allowed, _, retryAfter, err := s.limiter.Allow(ctx, sessionID)
		if err == nil && !allowed {
			metrics.CountCheckout("throttled")

			return nil, appErrors.TooManyRequestsError("Too many checkout attempts").
				WithDetail(fmt.Sprintf("retry after %ds", retryAfter))
		}
		// A limiter outage never blocks checkout; the backend still
		// deduplicates via the idempotency key.
	}

	req := &models.OrderRequest{
		SellerID:        cart.SellerID,
		Items:           make([]models.OrderItemRequest, 0, len(cart.Lines)),
		ShippingAddress: *address,
	}

	for _, line := range cart.Lines {
		req.Items = append(req.Items, models.OrderItemRequest{
			InventoryItemID: line.ItemID,
			Quantity:        line.Quantity,
		})
	}

	// Fresh key per attempt: a manual retry after failure is a new
	// submission, not a replay of the failed one.
	idempotencyKey := uuid.NewString()

	order, err := s.backend.CreateOrder(ctx, token, req, idempotencyKey)
	if err != nil {
		metrics.CountCheckout("failed")

		return nil, err
	}

	// Only the snapshot that was actually ordered comes out of the
	// cart; anything added while the request was in flight survives.
	s.carts.RemoveSubmitted(sessionID, cart.Lines)
	metrics.CountCheckout("success")

	return order, nil
}

func (s *CheckoutService) acquire(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[sessionID] {
		return appErrors.CheckoutInFlightError("A checkout is already in progress for this session")
	}

	s.inFlight[sessionID] = true

	return nil
}

func (s *CheckoutService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, sessionID)
}

