package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantmart/storefront-gateway/internal/models"
	service "github.com/plantmart/storefront-gateway/internal/services"
)

func addReq(itemID, name string, price float64, sellerID string) *models.AddItemRequest {
	return &models.AddItemRequest{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: price,
		SellerID:  sellerID,
	}
}

func TestAddItem(t *testing.T) {
	const sessionID = "session-1"

	t.Run("Success - First Item Binds Seller", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()

		// Act
		cart, replaced := carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Assert
		assert.False(t, replaced)
		assert.Equal(t, "seller-a", cart.SellerID)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Success - Duplicate Add Increments Quantity", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		cart, replaced := carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Assert
		assert.False(t, replaced)
		require.Len(t, cart.Lines, 1, "duplicate add must not create a second line")
		assert.Equal(t, 2, cart.Lines[0].Quantity)
	})

	t.Run("Success - Seller Conflict Replaces Cart", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		carts.AddItem(sessionID, addReq("item-2", "Neem Oil", 8.00, "seller-a"))

		// Act
		cart, replaced := carts.AddItem(sessionID, addReq("item-9", "Tulsi", 5.00, "seller-b"))

		// Assert
		assert.True(t, replaced, "caller must be told to surface the mixed-seller warning")
		assert.Equal(t, "seller-b", cart.SellerID)
		require.Len(t, cart.Lines, 1, "conflict replaces, never merges")
		assert.Equal(t, "item-9", cart.Lines[0].ItemID)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Invariant - All Lines Share The Cart Seller", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()

		sequence := []*models.AddItemRequest{
			addReq("item-1", "Aloe Vera", 12.50, "seller-a"),
			addReq("item-2", "Neem Oil", 8.00, "seller-a"),
			addReq("item-3", "Tulsi", 5.00, "seller-b"),
			addReq("item-3", "Tulsi", 5.00, "seller-b"),
			addReq("item-4", "Lavender", 9.99, "seller-c"),
		}

		// Act & Assert
		for _, req := range sequence {
			cart, _ := carts.AddItem(sessionID, req)

			require.NotEmpty(t, cart.SellerID)
			for _, line := range cart.Lines {
				assert.Equal(t, req.SellerID, cart.SellerID)
				assert.NotZero(t, line.Quantity)
			}
		}
	})

	t.Run("Success - Carts Are Session Scoped", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem("session-1", addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		other := carts.GetCart("session-2")

		// Assert
		assert.True(t, other.IsEmpty())
		assert.Empty(t, other.SellerID)
	})
}

func TestUpdateQuantity(t *testing.T) {
	const sessionID = "session-1"

	t.Run("Success - Sets Quantity", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		cart := carts.UpdateQuantity(sessionID, "item-1", 7)

		// Assert
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 7, cart.Lines[0].Quantity)
	})

	t.Run("Zero Quantity Removes Line", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		cart := carts.UpdateQuantity(sessionID, "item-1", 0)

		// Assert
		assert.Empty(t, cart.Lines)
		assert.Empty(t, cart.SellerID, "emptying the cart clears the seller binding")
	})

	t.Run("Negative Quantity Removes Line", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		carts.AddItem(sessionID, addReq("item-2", "Neem Oil", 8.00, "seller-a"))

		// Act
		cart := carts.UpdateQuantity(sessionID, "item-1", -3)

		// Assert
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "item-2", cart.Lines[0].ItemID)
		assert.Equal(t, "seller-a", cart.SellerID)
	})
}

func TestRemoveItem(t *testing.T) {
	const sessionID = "session-1"

	t.Run("Success - Removes Line", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		carts.AddItem(sessionID, addReq("item-2", "Neem Oil", 8.00, "seller-a"))

		// Act
		cart := carts.RemoveItem(sessionID, "item-1")

		// Assert
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "item-2", cart.Lines[0].ItemID)
	})

	t.Run("No-op - Absent Item", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		cart := carts.RemoveItem(sessionID, "item-404")

		// Assert
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "seller-a", cart.SellerID)
	})
}

func TestCartTotal(t *testing.T) {
	const sessionID = "session-1"

	t.Run("Empty Cart Totals Zero", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()

		// Act
		cart := carts.GetCart(sessionID)

		// Assert
		assert.Zero(t, cart.Total())
	})

	t.Run("Total Is Sum Of Price Times Quantity", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 15.99, "seller-a"))
		carts.UpdateQuantity(sessionID, "item-1", 2)
		carts.AddItem(sessionID, addReq("item-2", "Neem Oil", 24.50, "seller-a"))

		// Act
		cart := carts.GetCart(sessionID)

		// Assert
		assert.InDelta(t, 56.48, cart.Total(), 0.001)
	})

	t.Run("Total Follows Quantity Changes", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 10.00, "seller-a"))

		// Act & Assert - recomputed freshly on each call
		assert.InDelta(t, 10.00, carts.GetCart(sessionID).Total(), 0.001)

		carts.UpdateQuantity(sessionID, "item-1", 3)
		assert.InDelta(t, 30.00, carts.GetCart(sessionID).Total(), 0.001)

		carts.RemoveItem(sessionID, "item-1")
		assert.Zero(t, carts.GetCart(sessionID).Total())
	})
}

func TestRemoveSubmitted(t *testing.T) {
	const sessionID = "session-1"

	t.Run("Removes Exactly The Submitted Snapshot", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		submitted := carts.GetCart(sessionID).Lines

		carts.AddItem(sessionID, addReq("item-2", "Neem Oil", 8.00, "seller-a"))

		// Act
		carts.RemoveSubmitted(sessionID, submitted)

		// Assert
		cart := carts.GetCart(sessionID)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "item-2", cart.Lines[0].ItemID)
		assert.Equal(t, "seller-a", cart.SellerID)
	})

	t.Run("Quantity Added After Snapshot Remains", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		submitted := carts.GetCart(sessionID).Lines

		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

		// Act
		carts.RemoveSubmitted(sessionID, submitted)

		// Assert
		cart := carts.GetCart(sessionID)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Empty Result Clears The Cart", func(t *testing.T) {
		// Arrange
		carts := service.NewCartService()
		carts.AddItem(sessionID, addReq("item-1", "Aloe Vera", 12.50, "seller-a"))
		submitted := carts.GetCart(sessionID).Lines

		// Act
		carts.RemoveSubmitted(sessionID, submitted)

		// Assert
		cart := carts.GetCart(sessionID)
		assert.True(t, cart.IsEmpty())
		assert.Empty(t, cart.SellerID)
	})
}

func TestClear(t *testing.T) {
	// Arrange
	carts := service.NewCartService()
	carts.AddItem("session-1", addReq("item-1", "Aloe Vera", 12.50, "seller-a"))

	// Act
	carts.Clear("session-1")

	// Assert
	cart := carts.GetCart("session-1")
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.SellerID)
}
