package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/middleware"
	"github.com/junaidrashid-git/adega-api/web"
)

// SetupOrderRoutes registers the admin order console.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	db := d.DB
	consolePage := web.AdminOrders(db)
	listJSON := orderControllers.GetAllOrdersHandler(db)

	orders := r.Group("/admin/orders")
	orders.Use(middleware.RequireAdmin(d.Sessions))
	{
		// Browsers get the console page, API clients the JSON listing
		orders.GET("", func(c *gin.Context) {
			if middleware.WantsHTML(c) {
				consolePage(c)
				return
			}
			listJSON(c)
		})

		// websocket endpoint for real-time order updates
		orders.GET("/ws", d.Hub.Handler())

		orders.PATCH("/bulk", orderControllers.BulkUpdateHandler(db))
		orders.DELETE("/bulk", orderControllers.BulkDeleteHandler(db))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
	}
}

// SetupPaymentRoutes registers the Stripe webhook. The signing secret is
// read from the payment settings on every call.
func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	secret := func(ctx context.Context) (string, error) {
		p, err := settingscontroller.GetPaymentSettings(ctx, d.DB, d.Secrets)
		return p.StripeWebhookSecret, err
	}

	payment := r.Group("/payment")
	{
		payment.POST("/webhook",
			middleware.StripeWebhookAuth(secret),
			orderControllers.StripeWebhook(d.DB),
		)
	}
}
