package cart

import (
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 99

// Add puts quantity units of item in the cart, merging with an existing
// line. The line keeps the freshest item snapshot.
func Add(c *models.Cart, item models.Item, quantity int) error {
	if quantity < 1 {
		return apperrors.Validation("cart.Add", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Item = item
			c.Items[i].Quantity = min(c.Items[i].Quantity+quantity, MaxQuantity)
			return nil
		}
	}
	c.Items = append(c.Items, models.CartItem{Item: item, Quantity: min(quantity, MaxQuantity)})
	return nil
}

// SetQuantity overwrites a line's quantity; quantity <= 0 removes the line.
func SetQuantity(c *models.Cart, itemID string, quantity int) error {
	if quantity <= 0 {
		return Remove(c, itemID)
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = min(quantity, MaxQuantity)
			return nil
		}
	}
	return apperrors.NotFound("cart.SetQuantity", "Item is not in the cart")
}

func Remove(c *models.Cart, itemID string) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("cart.Remove", "Item is not in the cart")
}

// Subtotal is Σ(price × quantity) over the cart.
func Subtotal(c *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, ci := range c.Items {
		total = total.Add(ci.LineTotal())
	}
	return total
}

// Count is the number of units in the cart.
func Count(c *models.Cart) int {
	n := 0
	for _, ci := range c.Items {
		n += ci.Quantity
	}
	return n
}
