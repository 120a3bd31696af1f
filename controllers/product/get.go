package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/gorm"
)

// GetItem returns a single item with its category name.
func GetItem(ctx context.Context, db *gorm.DB, id string) (ItemView, error) {
	var item models.Item
	if err := db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemView{}, apperrors.NotFound("item.Get", "Product not found")
		}
		log.Printf("❌ Failed to retrieve item %s: %v", id, err)
		return ItemView{}, apperrors.External("item.Get", "Failed to retrieve product", err)
	}

	view := ItemView{Item: item, CategoryName: models.UncategorizedLabel}
	var category models.Category
	err := db.WithContext(ctx).Select("name").First(&category, "id = ?", item.CategoryID).Error
	switch {
	case err == nil:
		view.CategoryName = category.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("❌ Failed to resolve category for item %s: %v", id, err)
		return ItemView{}, apperrors.External("item.Get", "Failed to retrieve product", err)
	}
	return view, nil
}

// GET /items/:id
func GetItemByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := GetItem(c.Request.Context(), db, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
