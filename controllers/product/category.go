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

type CategoryInput struct {
	Name string `json:"name" binding:"required,min=2,max=60"`
}

// -------- Core Logic --------

func ListCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error) {
	categories := []models.Category{}
	if err := db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		log.Printf("❌ Failed to fetch categories: %v", err)
		return nil, apperrors.External("category.List", "Failed to fetch categories", err)
	}
	return categories, nil
}

func CreateCategory(ctx context.Context, db *gorm.DB, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return models.Category{}, apperrors.Validation("category.Create", "Category name is required")
	}
	category := models.Category{Name: name}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		log.Printf("❌ Failed to create category: %v", err)
		return models.Category{}, apperrors.External("category.Create", "Failed to create category", err)
	}
	return category, nil
}

func UpdateCategory(ctx context.Context, db *gorm.DB, id string, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return models.Category{}, apperrors.Validation("category.Update", "Category name is required")
	}

	var category models.Category
	if err := db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, apperrors.NotFound("category.Update", "Category not found")
		}
		return models.Category{}, apperrors.External("category.Update", "Failed to update category", err)
	}

	category.Name = name
	if err := db.WithContext(ctx).Save(&category).Error; err != nil {
		log.Printf("❌ Failed to update category %s: %v", id, err)
		return models.Category{}, apperrors.External("category.Update", "Failed to update category", err)
	}
	return category, nil
}

// DeleteCategory removes the category only. Items keep their categoryId and
// are listed under the fallback label.
func DeleteCategory(ctx context.Context, db *gorm.DB, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		log.Printf("❌ Failed to delete category %s: %v", id, result.Error)
		return apperrors.External("category.Delete", "Failed to delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("category.Delete", "Category not found")
	}
	return nil
}

// categoryNames maps every category id to its name.
func categoryNames(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	var categories []models.Category
	if err := db.WithContext(ctx).Select("id", "name").Find(&categories).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func categoryExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// -------- Handlers --------

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := ListCategories(c.Request.Context(), db)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// POST /admin/categories
func CreateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
			return
		}
		category, err := CreateCategory(c.Request.Context(), db, in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// PUT /admin/categories/:id
func UpdateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
			return
		}
		category, err := UpdateCategory(c.Request.Context(), db, c.Param("id"), in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := DeleteCategory(c.Request.Context(), db, c.Param("id")); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
