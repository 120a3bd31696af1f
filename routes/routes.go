package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/auth"
	"github.com/junaidrashid-git/adega-api/checkout"
	cartControllers "github.com/junaidrashid-git/adega-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/payment"
	"github.com/junaidrashid-git/adega-api/storage"
	"github.com/junaidrashid-git/adega-api/validation"
	"github.com/junaidrashid-git/adega-api/web"
	"gorm.io/gorm"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB       *gorm.DB
	Sessions *auth.Sessions
	Account  auth.AdminAccount
	Verifier auth.TokenVerifier // nil disables Google sign-in
	Login    web.LoginPage
	Carts    cartControllers.Carts
	Uploader storage.Uploader
	Secrets  settingscontroller.Secrets
	Gateways payment.Factory
	Hub      *orderControllers.Hub
	Rand     checkout.Rand
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	validation.Register()
	r.SetHTMLTemplate(web.Templates())

	// Uploaded images served from disk
	if local, ok := d.Uploader.(*storage.LocalUploader); ok {
		r.Static(storage.PublicPath, local.Dir())
	}

	// 1️⃣ Storefront: catalog, cart, checkout (cookie cart, no login)
	SetupStoreRoutes(r, d)

	// 2️⃣ Admin login / logout
	SetupAuthRoutes(r, d)

	// 3️⃣ Admin back office (session-protected)
	SetupAdminRoutes(r, d)

	// 4️⃣ Order console + live feed
	SetupOrderRoutes(r, d)

	// 5️⃣ Stripe webhook
	SetupPaymentRoutes(r, d)
}
