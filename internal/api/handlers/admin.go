package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/errors"
	"github.com/plantmart/storefront-gateway/internal/models"
	"github.com/plantmart/storefront-gateway/internal/utils/response"
)

// AdminAPI is the slice of the marketplace client the seller approval
// workflow uses.
type AdminAPI interface {
	PendingSellers(ctx context.Context, token string) ([]models.SellerAccount, error)
	ApproveSeller(ctx context.Context, token, sellerID string) error
	RejectSeller(ctx context.Context, token, sellerID string) error
}

type AdminHandler struct {
	backend AdminAPI
}

func NewAdminHandler(backend AdminAPI) *AdminHandler {
	return &AdminHandler{backend: backend}
}

func (h *AdminHandler) PendingSellers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := middleware.TokenFromContext(r.Context())

		sellers, err := h.backend.PendingSellers(r.Context(), token)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, sellers)
	}
}

func (h *AdminHandler) ApproveSeller() http.HandlerFunc {
	return h.decide("approve", h.backend.ApproveSeller)
}

func (h *AdminHandler) RejectSeller() http.HandlerFunc {
	return h.decide("reject", h.backend.RejectSeller)
}

// decide shares the approve/reject shape: both act on one seller ID
// and answer with the decision taken.
func (h *AdminHandler) decide(decision string, act func(ctx context.Context, token, sellerID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		sellerID := r.PathValue("id")
		if sellerID == "" {
			response.Error(w, errors.BadRequestError("Seller ID is required"))

			return
		}

		if err := act(r.Context(), token, sellerID); err != nil {
			response.Error(w, err)

			return
		}

		logger.Info("Seller application decided",
			slog.String("sellerId", sellerID),
			slog.String("decision", decision))

		response.Success(w, http.StatusOK, map[string]string{
			"sellerId": sellerID,
			"decision": decision,
		})
	}
}
