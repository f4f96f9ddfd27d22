package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/models"
)

func product(id uint, name string, price float64) models.Product {
	p := models.Product{Name: name, Price: price}
	p.ID = id
	return p
}

func newService() *cart.Service {
	return cart.NewService(cart.NewMemoryStore())
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	s := newService()
	key := cart.UserKey("John Doe")

	_, err := s.AddItem(key, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	c, err := s.AddItem(key, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, float64(50), c.Subtotal())
}

func TestAddItemAppendsNewLine(t *testing.T) {
	s := newService()
	key := cart.UserKey("John Doe")

	_, err := s.AddItem(key, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	c, err := s.AddItem(key, product(2, "Tote Bag", 20))
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, uint(2), c.Lines[1].ProductID)
	assert.Equal(t, 1, c.Lines[1].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := newService()
	key := cart.UserKey("John Doe")
	_, err := s.AddItem(key, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)

	c, err := s.UpdateQuantity(key, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Lines[0].Quantity)

	// Zero removes the line.
	c, err = s.UpdateQuantity(key, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	s := newService()
	_, err := s.UpdateQuantity(cart.UserKey("John Doe"), 99, 3)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestRemoveItem(t *testing.T) {
	s := newService()
	key := cart.UserKey("John Doe")
	_, err := s.AddItem(key, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	_, err = s.AddItem(key, product(2, "Tote Bag", 20))
	require.NoError(t, err)

	c, err := s.RemoveItem(key, 1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, uint(2), c.Lines[0].ProductID)

	_, err = s.RemoveItem(key, 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestCartsAreIsolatedPerKey(t *testing.T) {
	s := newService()

	_, err := s.AddItem(cart.UserKey("John Doe"), product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	_, err = s.AddItem(cart.GuestKey("sess-1"), product(2, "Tote Bag", 20))
	require.NoError(t, err)

	assert.Len(t, s.Get(cart.UserKey("John Doe")).Lines, 1)
	assert.Len(t, s.Get(cart.GuestKey("sess-1")).Lines, 1)
	assert.Empty(t, s.Get(cart.GuestKey("sess-2")).Lines)
}

func TestMergeOnLoginSumsSharedLines(t *testing.T) {
	s := newService()
	guestKey := cart.GuestKey("sess-1")
	userKey := cart.UserKey("John Doe")

	// Guest picked 2 bottles and a tote; the stored user cart already has
	// 1 bottle and wraps.
	_, err := s.AddItem(guestKey, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	_, err = s.AddItem(guestKey, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	_, err = s.AddItem(guestKey, product(2, "Tote Bag", 20))
	require.NoError(t, err)
	_, err = s.AddItem(userKey, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)
	_, err = s.AddItem(userKey, product(3, "Food Wraps", 18))
	require.NoError(t, err)

	merged, err := s.MergeOnLogin(guestKey, userKey)
	require.NoError(t, err)

	require.Len(t, merged.Lines, 3)
	assert.Equal(t, 3, merged.Lines[merged.Find(1)].Quantity)
	assert.Equal(t, 1, merged.Lines[merged.Find(2)].Quantity)
	assert.Equal(t, 1, merged.Lines[merged.Find(3)].Quantity)

	// The merge lands under the user key and the guest key is gone.
	assert.Equal(t, merged, s.Get(userKey))
	assert.Empty(t, s.Get(guestKey).Lines)
}

func TestMergeOnLoginEmptyGuest(t *testing.T) {
	s := newService()
	userKey := cart.UserKey("John Doe")
	_, err := s.AddItem(userKey, product(1, "Eco Water Bottle", 25))
	require.NoError(t, err)

	merged, err := s.MergeOnLogin(cart.GuestKey("sess-empty"), userKey)
	require.NoError(t, err)
	require.Len(t, merged.Lines, 1)
	assert.Equal(t, 1, merged.Lines[0].Quantity)
}

func TestGuestKeyClassification(t *testing.T) {
	assert.True(t, cart.IsGuestKey(cart.GuestKey("sess-1")))
	assert.False(t, cart.IsGuestKey(cart.UserKey("John Doe")))
	assert.False(t, cart.IsGuestKey("cartItems_"))
}
