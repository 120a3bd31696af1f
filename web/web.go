// Package web renders the server-side HTML shells: the storefront home,
// the admin login page and the admin order console.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	highlightcontroller "github.com/junaidrashid-git/adega-api/controllers/highlight"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/adega-api/controllers/product"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) },
	"date":  func(o models.Order) string { return o.CreatedAt.Format("02/01/2006 15:04") },
}

// Templates parses the embedded pages; gin renders them by file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// LoginPage configures the admin login screen.
type LoginPage struct {
	GoogleEnabled     bool
	FirebaseProjectID string
}

// GET /
func Storefront(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		store, err := settingscontroller.GetStoreSettings(ctx, db)
		if err != nil {
			renderError(c, err)
			return
		}
		categories, err := productcontroller.ListCategories(ctx, db)
		if err != nil {
			renderError(c, err)
			return
		}
		highlights, err := highlightcontroller.ListActive(ctx, db)
		if err != nil {
			renderError(c, err)
			return
		}
		page, err := productcontroller.ListItems(ctx, db, productcontroller.ItemQuery{
			CategoryID: c.Query("categoryId"),
			Search:     c.Query("search"),
			Cursor:     c.Query("cursor"),
		})
		if err != nil {
			renderError(c, err)
			return
		}

		c.HTML(http.StatusOK, "storefront.html", gin.H{
			"Store":      store,
			"Categories": categories,
			"Highlights": highlights,
			"Page":       page,
			"Search":     c.Query("search"),
			"CategoryID": c.Query("categoryId"),
		})
	}
}

// GET /admin/login
func AdminLogin(page LoginPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin_login.html", gin.H{
			"Failed":            c.Query("error") != "",
			"GoogleEnabled":     page.GoogleEnabled,
			"FirebaseProjectID": page.FirebaseProjectID,
		})
	}
}

// GET /admin/orders (HTML)
func AdminOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := orderControllers.FilterFromQuery(c)
		list, err := orderControllers.ListOrders(c.Request.Context(), db, filter)
		if err != nil {
			renderError(c, err)
			return
		}
		c.HTML(http.StatusOK, "admin_orders.html", gin.H{
			"List":            list,
			"Filter":          filter,
			"PaymentStatuses": models.PaymentStatuses(),
			"OrderStatuses":   models.OrderStatuses(),
			"PaymentMethods":  []models.PaymentMethod{models.PaymentMethodCard, models.PaymentMethodOnDelivery},
			"PrevPage":        list.Metadata.CurrentPage - 1,
			"NextPage":        list.Metadata.CurrentPage + 1,
		})
	}
}

func renderError(c *gin.Context, err error) {
	c.HTML(apperrors.Status(err), "error.html", gin.H{"Message": apperrors.Message(err)})
}
