package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gearshop/app/models"
)

func product(id uint, name string, price string) models.Product {
	return models.Product{
		Model: gorm.Model{ID: id},
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func TestCart_AddItem_NewProductsAppendInOrder(t *testing.T) {
	p1 := product(1, "P1", "100.00")
	p2 := product(2, "P2", "50.00")

	cart := models.NewCart()
	cart.AddItem(p1, 1)
	cart.AddItem(p2, 1)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, uint(2), lines[1].Product.ID)
}

func TestCart_AddItem_ExistingProductAccumulates(t *testing.T) {
	p1 := product(1, "P1", "100.00")
	p2 := product(2, "P2", "50.00")

	cart := models.NewCart()
	cart.AddItem(p1, 1)
	cart.AddItem(p2, 1)
	cart.AddItem(p1, 10)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	// The merged line keeps its original position.
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, 11, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCart_AddItem_NonPositiveQuantityIgnored(t *testing.T) {
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", "100.00"), 0)
	cart.AddItem(product(1, "P1", "100.00"), -3)

	assert.True(t, cart.IsEmpty())
}

func TestCart_RemoveLine(t *testing.T) {
	p1 := product(1, "P1", "100.00")
	p2 := product(2, "P2", "50.00")
	p3 := product(3, "P3", "25.00")

	cart := models.NewCart()
	cart.AddItem(p1, 1)
	cart.AddItem(p2, 3)
	cart.AddItem(p3, 5)
	cart.AddItem(p2, 1)

	cart.RemoveLine(p2.ID)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, uint(3), lines[1].Product.ID)
}

func TestCart_RemoveLine_AbsentProductIsNoOp(t *testing.T) {
	p1 := product(1, "P1", "100.00")

	cart := models.NewCart()
	cart.AddItem(p1, 2)
	cart.RemoveLine(99)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCart_Total(t *testing.T) {
	p1 := product(1, "P1", "100.00")
	p2 := product(2, "P2", "50.00")

	cart := models.NewCart()
	cart.AddItem(p1, 1)
	cart.AddItem(p2, 1)
	cart.AddItem(p1, 3)

	// 4 × 100 + 1 × 50
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("450")),
		"total = %s", cart.Total())
}

func TestCart_Total_ExactDecimalArithmetic(t *testing.T) {
	// 0.10 + 0.20 must be exactly 0.30, not 0.30000000000000004.
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", "0.10"), 1)
	cart.AddItem(product(2, "P2", "0.20"), 1)

	assert.Equal(t, "0.30", cart.Total().StringFixed(2))
}

func TestCart_Total_EmptyCartIsExactlyZero(t *testing.T) {
	cart := models.NewCart()
	assert.True(t, cart.Total().IsZero())
}

func TestCart_Clear(t *testing.T) {
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", "100.00"), 1)
	cart.AddItem(product(2, "P2", "50.00"), 1)

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())

	// Cart stays usable after clearing.
	cart.AddItem(product(3, "P3", "25.00"), 2)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestCart_LinesIsASnapshot(t *testing.T) {
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", "100.00"), 1)

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestCart_JSONRoundTrip(t *testing.T) {
	cart := models.NewCart()
	cart.AddItem(product(1, "Kayak", "275.00"), 2)
	cart.AddItem(product(2, "Lifejacket", "48.95"), 1)

	data, err := json.Marshal(cart)
	require.NoError(t, err)

	restored := models.NewCart()
	require.NoError(t, json.Unmarshal(data, restored))

	lines := restored.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Kayak", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, restored.Total().Equal(cart.Total()))
}
