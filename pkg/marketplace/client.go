// Package marketplace is the REST client for the external plant
// marketplace backend. The gateway is a pure consumer of that API: it
// defines no wire format of its own.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appErrors "github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/metrics"
	"github.com/plantmart/storefront-gateway/internal/models"
)

type Client struct {
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

func New(baseURL string, timeout time.Duration) *Client {

	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0). // failed calls surface to the user, never retried silently
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Content-Type", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "marketplace-backend",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, to)
		},
	})

	return &Client{rest: rest, breaker: breaker, baseURL: baseURL}
}

// BaseURL is used by the health endpoint to probe backend reachability.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {

	var user models.User

	err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
}

// CreateOrder submits one checkout attempt. The idempotency key is
// generated fresh per attempt so the backend can deduplicate a
// double-submitted request without merging distinct retries.
func (c *Client) CreateOrder(ctx context.Context, token string, req *models.OrderRequest, idempotencyKey string) (*models.Order, error) {

	var order models.Order

	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	err := c.do(ctx, http.MethodPost, "/orders", token, headers, req, &order)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *Client) CustomerOrders(ctx context.Context, token string) ([]models.Order, error) {

	var orders []models.Order

	err := c.do(ctx, http.MethodGet, "/orders/customer", token, nil, nil, &orders)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *Client) SellerOrders(ctx context.Context, token string) ([]models.Order, error) {

	var orders []models.Order

	err := c.do(ctx, http.MethodGet, "/orders/seller", token, nil, nil, &orders)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status models.OrderStatus) (*models.Order, error) {

	var order models.Order

	path := fmt.Sprintf("/orders/%s/status?status=%s", orderID, status)

	err := c.do(ctx, http.MethodPut, path, token, nil, nil, &order)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *Client) ProcessPayment(ctx context.Context, token, orderID string, req *models.PaymentRequest) error {
	return c.do(ctx, http.MethodPost, "/payment/order/"+orderID, token, nil, req, nil)
}

// PendingSellers lists seller applications awaiting review.
func (c *Client) PendingSellers(ctx context.Context, token string) ([]models.SellerAccount, error) {

	var sellers []models.SellerAccount

	err := c.do(ctx, http.MethodGet, "/admin/sellers/pending", token, nil, nil, &sellers)
	if err != nil {
		return nil, err
	}

	return sellers, nil
}

func (c *Client) ApproveSeller(ctx context.Context, token, sellerID string) error {
	return c.do(ctx, http.MethodPut, "/admin/sellers/"+sellerID+"/approve", token, nil, nil, nil)
}

func (c *Client) RejectSeller(ctx context.Context, token, sellerID string) error {
	return c.do(ctx, http.MethodPut, "/admin/sellers/"+sellerID+"/reject", token, nil, nil, nil)
}

// OwnInventory lists the calling seller's stock; the backend derives
// the seller from the token.
func (c *Client) OwnInventory(ctx context.Context, token string) ([]models.InventoryItem, error) {

	var items []models.InventoryItem

	err := c.do(ctx, http.MethodGet, "/inventory", token, nil, nil, &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) CreateInventoryItem(ctx context.Context, token string, req *models.InventoryItemRequest) (*models.InventoryItem, error) {

	var item models.InventoryItem

	err := c.do(ctx, http.MethodPost, "/inventory", token, nil, req, &item)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) UpdateInventoryItem(ctx context.Context, token, itemID string, req *models.InventoryItemRequest) (*models.InventoryItem, error) {

	var item models.InventoryItem

	err := c.do(ctx, http.MethodPut, "/inventory/"+itemID, token, nil, req, &item)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) SellerInventory(ctx context.Context, sellerID string) ([]models.InventoryItem, error) {

	var items []models.InventoryItem

	// Public endpoint, no token: catalog browsing is an anonymous flow.
	err := c.do(ctx, http.MethodGet, "/inventory/seller/"+sellerID, "", nil, nil, &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// do runs one request through the circuit breaker. Transport failures
// and 5xx responses count against the breaker; 4xx responses are the
// backend doing its job and are mapped after the breaker.
func (c *Client) do(ctx context.Context, method, path, token string, headers map[string]string, body, out any) error {

	result, err := c.breaker.Execute(func() (any, error) {

		req := c.rest.R().SetContext(ctx)

		if token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}

		for k, v := range headers {
			req.SetHeader(k, v)
		}

		if body != nil {
			req.SetBody(body)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, appErrors.UpstreamError("Marketplace backend unreachable").WithError(err)
		}

		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, appErrors.UpstreamError("Marketplace backend error").
				WithDetail(fmt.Sprintf("backend returned status %d", resp.StatusCode()))
		}

		return resp, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return appErrors.UnavailableError("Marketplace backend is unavailable").WithError(err)
		}

		return err
	}

	resp := result.(*resty.Response)

	if resp.StatusCode() >= http.StatusBadRequest {
		return mapClientError(resp)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return appErrors.UpstreamError("Invalid response from marketplace backend").WithError(err)
		}
	}

	return nil
}

func mapClientError(resp *resty.Response) error {

	detail := upstreamMessage(resp.Body())

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return appErrors.UnauthorizedError("Invalid or expired token").WithDetail(detail)
	case http.StatusForbidden:
		return appErrors.ForbiddenError("Not allowed by marketplace backend").WithDetail(detail)
	case http.StatusNotFound:
		return appErrors.NotFoundError("Resource not found").WithDetail(detail)
	case http.StatusConflict, http.StatusBadRequest, http.StatusUnprocessableEntity:
		return appErrors.BadRequestError("Marketplace backend rejected the request").WithDetail(detail)
	default:
		return appErrors.UpstreamError("Unexpected response from marketplace backend").
			WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode(), detail))
	}
}

// upstreamMessage pulls a human-readable message out of the backend's
// error body, falling back to the raw payload.
func upstreamMessage(body []byte) string {

	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}

		if parsed.Error != "" {
			return parsed.Error
		}
	}

	return string(body)
}
