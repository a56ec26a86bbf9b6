package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantmart/storefront-gateway/internal/api/handlers"
	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/models"
	service "github.com/plantmart/storefront-gateway/internal/services"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	user := &models.User{ID: "user-1", UserType: models.RoleCustomer}

	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.CartResponse {
	t.Helper()

	var body struct {
		Success bool                `json:"success"`
		Data    models.CartResponse `json:"data"`
	}

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.True(t, body.Success)

	return body.Data
}

func TestCartHandler(t *testing.T) {
	t.Run("GetCart - Empty For New Session", func(t *testing.T) {
		// Arrange
		handler := handlers.NewCartHandler(service.NewCartService())
		rec := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/cart", ""))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		data := decodeCart(t, rec)
		assert.Empty(t, data.Cart.Lines)
		assert.Zero(t, data.Total)
	})

	t.Run("AddItem - Returns Cart With Total", func(t *testing.T) {
		// Arrange
		handler := handlers.NewCartHandler(service.NewCartService())
		body := `{"item_id":"item-1","name":"Aloe Vera","unit_price":12.5,"seller_id":"seller-a"}`
		rec := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		data := decodeCart(t, rec)
		require.Len(t, data.Cart.Lines, 1)
		assert.Equal(t, 1, data.Cart.Lines[0].Quantity)
		assert.InDelta(t, 12.5, data.Total, 0.001)
		assert.Empty(t, data.Warning)
	})

	t.Run("AddItem - Seller Conflict Surfaces Warning", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		handler := handlers.NewCartHandler(carts)

		first := `{"item_id":"item-1","name":"Aloe Vera","unit_price":12.5,"seller_id":"seller-a"}`
		handler.AddItem().ServeHTTP(httptest.NewRecorder(), authedRequest(http.MethodPost, "/api/v1/cart/items", first))

		second := `{"item_id":"item-9","name":"Lavender Oil","unit_price":24.5,"seller_id":"seller-b"}`
		rec := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", second))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		data := decodeCart(t, rec)
		assert.Equal(t, service.SellerConflictWarning, data.Warning)
		require.Len(t, data.Cart.Lines, 1)
		assert.Equal(t, "item-9", data.Cart.Lines[0].ItemID)
		assert.Equal(t, "seller-b", data.Cart.SellerID)
	})

	t.Run("AddItem - Missing Fields Rejected", func(t *testing.T) {
		// Arrange
		handler := handlers.NewCartHandler(service.NewCartService())
		rec := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"name":"Aloe Vera"}`))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UpdateQuantity - Zero Removes The Line", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		handler := handlers.NewCartHandler(carts)

		carts.AddItem("user-1", &models.AddItemRequest{
			ItemID: "item-1", Name: "Aloe Vera", UnitPrice: 12.5, SellerID: "seller-a",
		})

		req := authedRequest(http.MethodPut, "/api/v1/cart/items/item-1", `{"quantity":0}`)
		req.SetPathValue("id", "item-1")
		rec := httptest.NewRecorder()

		// Act
		handler.UpdateQuantity().ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		data := decodeCart(t, rec)
		assert.Empty(t, data.Cart.Lines)
		assert.Empty(t, data.Cart.SellerID)
	})

	t.Run("RemoveItem - Missing Path Value Rejected", func(t *testing.T) {
		// Arrange
		handler := handlers.NewCartHandler(service.NewCartService())
		rec := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/v1/cart/items/", ""))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ClearCart - Empties The Session Cart", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		handler := handlers.NewCartHandler(carts)

		carts.AddItem("user-1", &models.AddItemRequest{
			ItemID: "item-1", Name: "Aloe Vera", UnitPrice: 12.5, SellerID: "seller-a",
		})

		rec := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/v1/cart", ""))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, carts.GetCart("user-1").IsEmpty())
	})
}
