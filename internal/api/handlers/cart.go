package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/models"
	service "github.com/plantmart/storefront-gateway/internal/services"
	"github.com/plantmart/storefront-gateway/internal/utils"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

type CartHandler struct {
	carts     *service.CartService
	validator *validator.Validate
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{
		carts:     carts,
		validator: validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())

		cart := h.carts.GetCart(user.ID)

		response.Success(w, http.StatusOK, models.CartResponse{
			Cart:  cart,
			Total: cart.Total(),
		})
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		user := middleware.UserFromContext(r.Context())

		var req models.AddItemRequest
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

		cart, replaced := h.carts.AddItem(user.ID, &req)

		resp := models.CartResponse{Cart: cart, Total: cart.Total()}

		if replaced {
			logger.Info("Cart replaced on seller conflict",
				slog.String("newSellerId", req.SellerID))

			resp.Warning = service.SellerConflictWarning
		}

		response.Success(w, http.StatusOK, resp)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		var req models.UpdateQuantityRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))

			return
		}

		cart := h.carts.UpdateQuantity(user.ID, itemID, req.Quantity)

		response.Success(w, http.StatusOK, models.CartResponse{
			Cart:  cart,
			Total: cart.Total(),
		})
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		cart := h.carts.RemoveItem(user.ID, itemID)

		response.Success(w, http.StatusOK, models.CartResponse{
			Cart:  cart,
			Total: cart.Total(),
		})
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user := middleware.UserFromContext(r.Context())

		h.carts.Clear(user.ID)

		response.Success(w, http.StatusOK, models.CartResponse{
			Cart:  &models.Cart{Lines: []models.CartLine{}},
			Total: 0,
		})
	}
}
