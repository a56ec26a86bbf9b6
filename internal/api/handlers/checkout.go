package handlers

import (
	"log/slog"
	"net/http"

	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/models"
	service "github.com/plantmart/storefront-gateway/internal/services"
	"github.com/plantmart/storefront-gateway/internal/utils"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		user := middleware.UserFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		var req models.CheckoutRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))

			return
		}

		order, err := h.checkout.Checkout(r.Context(), user.ID, token, &req.ShippingAddress)
		if err != nil {
			logger.Warn("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID),
			slog.String("status", string(order.Status)))

		response.Success(w, http.StatusCreated, order)
	}
}
