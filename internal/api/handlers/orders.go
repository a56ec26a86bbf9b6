package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/models"
	"github.com/plantmart/storefront-gateway/internal/utils"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

// OrderAPI is the slice of the marketplace client the order views use.
type OrderAPI interface {
	CustomerOrders(ctx context.Context, token string) ([]models.Order, error)
	SellerOrders(ctx context.Context, token string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status models.OrderStatus) (*models.Order, error)
	ProcessPayment(ctx context.Context, token, orderID string, req *models.PaymentRequest) error
}

type OrderHandler struct {
	backend   OrderAPI
	validator *validator.Validate
}

func NewOrderHandler(backend OrderAPI) *OrderHandler {
	return &OrderHandler{
		backend:   backend,
		validator: validator.New(),
	}
}

func (h *OrderHandler) CustomerOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := middleware.TokenFromContext(r.Context())

		orders, err := h.backend.CustomerOrders(r.Context(), token)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) SellerOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := middleware.TokenFromContext(r.Context())

		orders, err := h.backend.SellerOrders(r.Context(), token)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		orderID := r.PathValue("id")
		if orderID == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))

			return
		}

		status := r.URL.Query().Get("status")
		if status == "" {
			response.Error(w, errors.BadRequestError("Status query parameter is required"))

			return
		}

		order, err := h.backend.UpdateOrderStatus(r.Context(), token, orderID, models.OrderStatus(status))
		if err != nil {
			response.Error(w, err)

			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", orderID),
			slog.String("status", status))

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ProcessPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		orderID := r.PathValue("id")
		if orderID == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))

			return
		}

		var req models.PaymentRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))

			return
		}

		if err := h.validator.Struct(req); err != nil {
			if validationErrs, ok := utils.ValidationMessages(err); ok {
				response.ValidationError(w, validationErrs)

				return
			}

			response.Error(w, errors.ValidationError("Invalid input"))

			return
		}

		if err := h.backend.ProcessPayment(r.Context(), token, orderID, &req); err != nil {
			response.Error(w, err)

			return
		}

		logger.Info("Payment submitted", slog.String("orderId", orderID))

		response.Success(w, http.StatusOK, map[string]string{"status": "payment submitted"})
	}
}
