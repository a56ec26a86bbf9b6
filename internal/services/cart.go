package service

import (
	"sync"

	"github.com/plantmart/storefront-gateway/internal/models"
)

// SellerConflictWarning is surfaced to the user whenever adding an item
// from a different seller wipes the existing cart.
const SellerConflictWarning = "You can only order from one seller at a time. Your cart has been cleared."

// CartService owns every live cart, one per session, in memory only.
// Carts deliberately do not survive a restart; only the session token
// is persisted anywhere, never the cart contents.
type CartService struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

func NewCartService() *CartService {
	return &CartService{carts: make(map[string]*models.Cart)}
}

// GetCart returns a snapshot of the session's cart. A session with no
// cart yet gets an empty one.
func (s *CartService) GetCart(sessionID string) *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return &models.Cart{Lines: []models.CartLine{}}
	}

	return snapshot(cart)
}

// AddItem appends or increments a line. If the cart already belongs to
// a different seller, the existing lines are discarded and a fresh
// single-line cart is started for the new seller (replace, not merge).
// The second return reports that replacement so the caller can warn
// the user.
func (s *CartService) AddItem(sessionID string, req *models.AddItemRequest) (*models.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &models.Cart{}
		s.carts[sessionID] = cart
	}

	if !cart.IsEmpty() && cart.SellerID != req.SellerID {
		cart.SellerID = req.SellerID
		cart.Lines = []models.CartLine{{
			ItemID:    req.ItemID,
			Name:      req.Name,
			UnitPrice: req.UnitPrice,
			Quantity:  1,
		}}

		return snapshot(cart), true
	}

	cart.SellerID = req.SellerID

	for i := range cart.Lines {
		if cart.Lines[i].ItemID == req.ItemID {
			cart.Lines[i].Quantity++

			return snapshot(cart), false
		}
	}

	cart.Lines = append(cart.Lines, models.CartLine{
		ItemID:    req.ItemID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  1,
	})

	return snapshot(cart), false
}

// UpdateQuantity sets a line's quantity; zero or negative removes the
// line. No upper bound is enforced here, stock is the backend's call
// at checkout time.
func (s *CartService) UpdateQuantity(sessionID, itemID string, quantity int) *models.Cart {

	if quantity <= 0 {
		return s.RemoveItem(sessionID, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return &models.Cart{Lines: []models.CartLine{}}
	}

	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines[i].Quantity = quantity

			break
		}
	}

	return snapshot(cart)
}

// RemoveItem deletes the line if present, no-op otherwise. Emptying
// the cart also clears its seller binding.
func (s *CartService) RemoveItem(sessionID, itemID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return &models.Cart{Lines: []models.CartLine{}}
	}

	lines := cart.Lines[:0]

	for _, line := range cart.Lines {
		if line.ItemID != itemID {
			lines = append(lines, line)
		}
	}

	cart.Lines = lines

	if cart.IsEmpty() {
		cart.SellerID = ""
	}

	return snapshot(cart)
}

// RemoveSubmitted subtracts the quantities of a placed order from the
// live cart. Lines or quantity added after the order snapshot was
// taken stay in the cart instead of being silently dropped.
func (s *CartService) RemoveSubmitted(sessionID string, submitted []models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return
	}

	for _, placed := range submitted {
		for i := range cart.Lines {
			if cart.Lines[i].ItemID == placed.ItemID {
				cart.Lines[i].Quantity -= placed.Quantity

				break
			}
		}
	}

	lines := cart.Lines[:0]

	for _, line := range cart.Lines {
		if line.Quantity > 0 {
			lines = append(lines, line)
		}
	}

	cart.Lines = lines

	if cart.IsEmpty() {
		delete(s.carts, sessionID)
	}
}

func (s *CartService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
}

func snapshot(cart *models.Cart) *models.Cart {

	copied := &models.Cart{
		SellerID: cart.SellerID,
		Lines:    make([]models.CartLine, len(cart.Lines)),
	}

	copy(copied.Lines, cart.Lines)

	return copied
}
