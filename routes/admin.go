package routes

import (
	"github.com/gin-gonic/gin"
	highlightcontroller "github.com/junaidrashid-git/adega-api/controllers/highlight"
	productcontroller "github.com/junaidrashid-git/adega-api/controllers/product"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	uploadcontroller "github.com/junaidrashid-git/adega-api/controllers/upload"
	"github.com/junaidrashid-git/adega-api/middleware"
)

// SetupAdminRoutes registers the "/admin/*" catalog and settings endpoints.
// Requires an admin session.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	db := d.DB
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Sessions))
	{
		// ─────────── Item Management ───────────
		itemAdmin := adminGroup.Group("/items")
		{
			itemAdmin.GET("", productcontroller.GetItems(db))
			itemAdmin.POST("", productcontroller.CreateItemHandler(db))
			itemAdmin.PUT("/:id", productcontroller.UpdateItemHandler(db))
			itemAdmin.DELETE("/:id", productcontroller.DeleteItemHandler(db))
			itemAdmin.POST("/import-excel", productcontroller.ImportItemsFromExcel(db))
			itemAdmin.GET("/export-excel", productcontroller.ExportItemsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productcontroller.GetAllCategories(db))
			categoryAdmin.POST("", productcontroller.CreateCategoryHandler(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategoryHandler(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategoryHandler(db))
		}

		// ─────────── Highlights (carousel) ───────────
		highlightAdmin := adminGroup.Group("/highlights")
		{
			highlightAdmin.GET("", highlightcontroller.GetHighlights(db))
			highlightAdmin.POST("", highlightcontroller.CreateHighlight(db))
			highlightAdmin.POST("/swap", highlightcontroller.SwapHighlights(db))
			highlightAdmin.PUT("/:id", highlightcontroller.UpdateHighlight(db))
			highlightAdmin.PATCH("/:id/active", highlightcontroller.SetHighlightActive(db))
			highlightAdmin.DELETE("/:id", highlightcontroller.DeleteHighlight(db))
		}

		// ─────────── Settings ───────────
		settingsAdmin := adminGroup.Group("/settings")
		{
			settingsAdmin.GET("/store", settingscontroller.GetStore(db))
			settingsAdmin.PUT("/store", settingscontroller.UpdateStore(db))
			settingsAdmin.GET("/payment", settingscontroller.GetPayment(db, d.Secrets))
			settingsAdmin.PUT("/payment", settingscontroller.UpdatePayment(db))
		}

		adminGroup.POST("/uploads", uploadcontroller.UploadImage(d.Uploader))
	}
}
