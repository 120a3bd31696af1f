package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/adega-api/controllers/cart"
	checkoutcontroller "github.com/junaidrashid-git/adega-api/controllers/checkout"
	highlightcontroller "github.com/junaidrashid-git/adega-api/controllers/highlight"
	productcontroller "github.com/junaidrashid-git/adega-api/controllers/product"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/web"
)

// SetupStoreRoutes registers the public storefront endpoints.
func SetupStoreRoutes(r *gin.Engine, d Deps) {
	db := d.DB

	// ──────────────── Pages & Catalog ────────────────
	r.GET("/", web.Storefront(db))
	r.GET("/store/settings", settingscontroller.GetStoreInfo(db, d.Secrets))
	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/items", productcontroller.GetItems(db))
	r.GET("/items/:id", productcontroller.GetItemByID(db))
	r.GET("/highlights", highlightcontroller.GetActiveHighlights(db))

	// ──────────────── Shopping Cart ────────────────
	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart(db, d.Carts))
		cartGroup.DELETE("", cartControllers.ClearCart(db, d.Carts))
		cartGroup.POST("/items", cartControllers.AddCartItem(db, d.Carts))
		cartGroup.PUT("/items/:itemId", cartControllers.UpdateCartItem(db, d.Carts))
		cartGroup.DELETE("/items/:itemId", cartControllers.DeleteCartItem(db, d.Carts))
	}

	// ──────────────── Checkout ────────────────
	ctl := &checkoutcontroller.Controller{
		DB:       db,
		Carts:    d.Carts,
		Secrets:  d.Secrets,
		Gateways: d.Gateways,
		Notifier: d.Hub,
		Rand:     d.Rand,
	}
	checkoutGroup := r.Group("/checkout")
	{
		checkoutGroup.GET("", ctl.Get())
		checkoutGroup.POST("/start", ctl.Start())
		checkoutGroup.POST("/delivery", ctl.Delivery())
		checkoutGroup.POST("/payment-intent", ctl.PaymentIntent())
		checkoutGroup.POST("/finalize", ctl.FinalizeHandler())
		checkoutGroup.POST("/back", ctl.Back())
	}

	r.GET("/orders/mine", cartControllers.MyOrders(db, d.Carts))
}
