package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/gorm"
)

// UpdateItem overwrites an item in place. Concurrent edits are last-write-wins.
func UpdateItem(ctx context.Context, db *gorm.DB, id string, in ItemInput) (models.Item, error) {
	var item models.Item
	if err := db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, apperrors.NotFound("item.Update", "Product not found")
		}
		log.Printf("❌ Failed to load item %s: %v", id, err)
		return models.Item{}, apperrors.External("item.Update", "Failed to update product", err)
	}
	if err := in.validate(ctx, db, "item.Update"); err != nil {
		return models.Item{}, err
	}

	item.Title = strings.TrimSpace(in.Title)
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price.Round(2)
	item.ImageURL = strings.TrimSpace(in.ImageURL)
	item.CategoryID = in.CategoryID

	if err := db.WithContext(ctx).Save(&item).Error; err != nil {
		log.Printf("❌ Failed to update item %s: %v", id, err)
		return models.Item{}, apperrors.External("item.Update", "Failed to update product", err)
	}
	return item, nil
}

// PUT /admin/items/:id
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, price (> 0), imageUrl and categoryId are required"})
			return
		}
		item, err := UpdateItem(c.Request.Context(), db, c.Param("id"), in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
