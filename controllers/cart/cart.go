package cartControllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/cart"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/adega-api/controllers/product"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartCookie identifies the visitor's cart.
const CartCookie = "cart_id"

// Carts resolves the visitor cart from the request cookie.
type Carts struct {
	Repo   cart.Repository
	TTL    time.Duration
	Secure bool
}

// Load returns the visitor's cart, issuing a new cart cookie on first visit.
func (cs Carts) Load(c *gin.Context) (*models.Cart, error) {
	id, err := c.Cookie(CartCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartCookie, id, int(cs.TTL.Seconds()), "/", "", cs.Secure, true)

	loaded, err := cs.Repo.Load(c.Request.Context(), id)
	if err != nil {
		log.Printf("❌ Failed to load cart %s: %v", id, err)
		return nil, apperrors.External("cart.Load", "Failed to load cart", err)
	}
	return loaded, nil
}

func (cs Carts) Save(ctx context.Context, cart *models.Cart) error {
	if err := cs.Repo.Save(ctx, cart); err != nil {
		log.Printf("❌ Failed to save cart %s: %v", cart.ID, err)
		return apperrors.External("cart.Save", "Failed to save cart", err)
	}
	return nil
}

// Clear drops the whole cart document.
func (cs Carts) Clear(ctx context.Context, id string) error {
	if err := cs.Repo.Clear(ctx, id); err != nil {
		log.Printf("❌ Failed to clear cart %s: %v", id, err)
		return apperrors.External("cart.Clear", "Failed to clear cart", err)
	}
	return nil
}

type CartItemInput struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=99"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartView is the cart with its money totals.
type CartView struct {
	ID          string                `json:"id"`
	Items       []models.CartItem     `json:"items"`
	Count       int                   `json:"count"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	DeliveryFee decimal.Decimal       `json:"deliveryFee"`
	Total       decimal.Decimal       `json:"total"`
	Checkout    *models.CheckoutState `json:"checkout,omitempty"`
}

func view(ctx context.Context, db *gorm.DB, c *models.Cart) (CartView, error) {
	store, err := settingscontroller.GetStoreSettings(ctx, db)
	if err != nil {
		return CartView{}, err
	}
	subtotal := cart.Subtotal(c)
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartView{
		ID:          c.ID,
		Items:       items,
		Count:       cart.Count(c),
		Subtotal:    subtotal,
		DeliveryFee: store.DeliveryFee,
		Total:       subtotal.Add(store.DeliveryFee),
		Checkout:    c.Checkout,
	}, nil
}

// editCart loads the cart, applies edit, saves and responds with the view.
func editCart(c *gin.Context, db *gorm.DB, carts Carts, edit func(*models.Cart) error) {
	current, err := carts.Load(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := edit(current); err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := carts.Save(c.Request.Context(), current); err != nil {
		apperrors.Respond(c, err)
		return
	}
	v, err := view(c.Request.Context(), db, current)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /cart
func GetCart(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		v, err := view(c.Request.Context(), db, current)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// POST /cart/items
func AddCartItem(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "itemId and quantity (1-99) are required"})
			return
		}

		item, err := productcontroller.GetItem(c.Request.Context(), db, input.ItemID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		editCart(c, db, carts, func(current *models.Cart) error {
			return cart.Add(current, item.Item, input.Quantity)
		})
	}
}

// PUT /cart/items/:itemId - quantity <= 0 removes the line.
func UpdateCartItem(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		editCart(c, db, carts, func(current *models.Cart) error {
			return cart.SetQuantity(current, c.Param("itemId"), *input.Quantity)
		})
	}
}

// DELETE /cart/items/:itemId
func DeleteCartItem(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		editCart(c, db, carts, func(current *models.Cart) error {
			return cart.Remove(current, c.Param("itemId"))
		})
	}
}

// DELETE /cart - drops the lines and any unfinished checkout, keeps the
// order history. A cart without history is removed from the store.
func ClearCart(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		current.Items = nil
		current.Checkout = nil
		if len(current.OrderIDs) == 0 {
			err = carts.Clear(c.Request.Context(), current.ID)
		} else {
			err = carts.Save(c.Request.Context(), current)
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		v, err := view(c.Request.Context(), db, current)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// GET /orders/mine
func MyOrders(db *gorm.DB, carts Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		orders, err := orderControllers.ListOrdersByIDs(c.Request.Context(), db, current.OrderIDs)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
