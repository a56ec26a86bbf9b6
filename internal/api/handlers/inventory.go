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

type InventoryAPI interface {
	SellerInventory(ctx context.Context, sellerID string) ([]models.InventoryItem, error)
	OwnInventory(ctx context.Context, token string) ([]models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, token string, req *models.InventoryItemRequest) (*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, token, itemID string, req *models.InventoryItemRequest) (*models.InventoryItem, error)
}

type InventoryHandler struct {
	backend   InventoryAPI
	validator *validator.Validate
}

func NewInventoryHandler(backend InventoryAPI) *InventoryHandler {
	return &InventoryHandler{
		backend:   backend,
		validator: validator.New(),
	}
}

// SellerInventory is public: catalog browsing needs no session.
func (h *InventoryHandler) SellerInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sellerID := r.PathValue("id")
		if sellerID == "" {
			response.Error(w, errors.BadRequestError("Seller ID is required"))

			return
		}

		items, err := h.backend.SellerInventory(r.Context(), sellerID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

// OwnInventory lists the calling seller's stock.
func (h *InventoryHandler) OwnInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := middleware.TokenFromContext(r.Context())

		items, err := h.backend.OwnInventory(r.Context(), token)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

func (h *InventoryHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		req, ok := h.decodeItem(w, r)
		if !ok {
			return
		}

		item, err := h.backend.CreateInventoryItem(r.Context(), token, req)
		if err != nil {
			response.Error(w, err)

			return
		}

		logger.Info("Inventory item created", slog.String("itemId", item.ID))

		response.Success(w, http.StatusCreated, item)
	}
}

func (h *InventoryHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		req, ok := h.decodeItem(w, r)
		if !ok {
			return
		}

		item, err := h.backend.UpdateInventoryItem(r.Context(), token, itemID, req)
		if err != nil {
			response.Error(w, err)

			return
		}

		logger.Info("Inventory item updated", slog.String("itemId", itemID))

		response.Success(w, http.StatusOK, item)
	}
}

func (h *InventoryHandler) decodeItem(w http.ResponseWriter, r *http.Request) (*models.InventoryItemRequest, bool) {

	var req models.InventoryItemRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))

		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		if validationErrs, ok := utils.ValidationMessages(err); ok {
			response.ValidationError(w, validationErrs)

			return nil, false
		}

		response.Error(w, errors.ValidationError("Invalid input"))

		return nil, false
	}

	return &req, true
}
