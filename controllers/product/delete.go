package productcontroller

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/gorm"
)

func DeleteItem(ctx context.Context, db *gorm.DB, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if result.Error != nil {
		log.Printf("❌ Failed to delete item %s: %v", id, result.Error)
		return apperrors.External("item.Delete", "Failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("item.Delete", "Product not found")
	}
	return nil
}

// DELETE /admin/items/:id
func DeleteItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := DeleteItem(c.Request.Context(), db, c.Param("id")); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
