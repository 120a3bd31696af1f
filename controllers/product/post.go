package productcontroller

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemInput struct {
	Title       string          `json:"title" binding:"required,min=2,max=120"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price" binding:"required,gt=0"`
	ImageURL    string          `json:"imageUrl" binding:"required,url"`
	CategoryID  string          `json:"categoryId" binding:"required"`
}

func (in ItemInput) validate(ctx context.Context, db *gorm.DB, op string) error {
	if len(strings.TrimSpace(in.Title)) < 2 {
		return apperrors.Validation(op, "Title is required")
	}
	if !in.Price.IsPositive() {
		return apperrors.Validation(op, "Price must be greater than zero")
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return apperrors.Validation(op, "Image is required")
	}
	exists, err := categoryExists(ctx, db, in.CategoryID)
	if err != nil {
		log.Printf("❌ Failed to validate category %s: %v", in.CategoryID, err)
		return apperrors.External(op, "Failed to validate category", err)
	}
	if !exists {
		return apperrors.Validation(op, "Category does not exist")
	}
	return nil
}

// CreateItem validates and stores a new item. Price must be > 0.
func CreateItem(ctx context.Context, db *gorm.DB, in ItemInput) (models.Item, error) {
	if err := in.validate(ctx, db, "item.Create"); err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CategoryID:  in.CategoryID,
	}
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		log.Printf("❌ Failed to create item: %v", err)
		return models.Item{}, apperrors.External("item.Create", "Failed to create product", err)
	}
	log.Printf("📝 Item created: %s (%s)", item.Title, item.ID)
	return item, nil
}

// POST /admin/items
func CreateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, price (> 0), imageUrl and categoryId are required"})
			return
		}
		item, err := CreateItem(c.Request.Context(), db, in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}
