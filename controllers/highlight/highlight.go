package highlightcontroller

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
	"gorm.io/gorm/clause"
)

// swapSentinel parks a row during a swap. Real positions start at 0.
const swapSentinel = -1

type HighlightInput struct {
	Title       string  `json:"title" binding:"required,min=2,max=120"`
	Description string  `json:"description" binding:"max=500"`
	ImageURL    string  `json:"imageUrl" binding:"required,url"`
	Link        *string `json:"link" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type SwapRequest struct {
	IDA string `json:"idA" binding:"required"`
	IDB string `json:"idB" binding:"required"`
}

// -------- Core Logic --------

func ListAll(ctx context.Context, db *gorm.DB) ([]models.Highlight, error) {
	highlights := []models.Highlight{}
	if err := db.WithContext(ctx).Order("position ASC").Find(&highlights).Error; err != nil {
		log.Printf("❌ Failed to fetch highlights: %v", err)
		return nil, apperrors.External("highlight.List", "Failed to get highlights", err)
	}
	return highlights, nil
}

// ListActive returns the storefront carousel, ordered by position.
func ListActive(ctx context.Context, db *gorm.DB) ([]models.Highlight, error) {
	highlights := []models.Highlight{}
	if err := db.WithContext(ctx).Where("is_active = ?", true).Order("position ASC").Find(&highlights).Error; err != nil {
		log.Printf("❌ Failed to fetch active highlights: %v", err)
		return nil, apperrors.External("highlight.ListActive", "Failed to get highlights", err)
	}
	return highlights, nil
}

// Create appends the highlight at max(position)+1.
func Create(ctx context.Context, db *gorm.DB, in HighlightInput) (models.Highlight, error) {
	if err := in.validate("highlight.Create"); err != nil {
		return models.Highlight{}, err
	}

	h := models.Highlight{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Link:        cleanLink(in.Link),
		IsActive:    in.IsActive == nil || *in.IsActive,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&models.Highlight{}).Select("COALESCE(MAX(position), -1)").Scan(&maxPos).Error; err != nil {
			return err
		}
		h.Position = maxPos + 1
		return tx.Create(&h).Error
	})
	if err != nil {
		log.Printf("❌ Failed to create highlight: %v", err)
		return models.Highlight{}, apperrors.External("highlight.Create", "Failed to create highlight", err)
	}
	log.Printf("📝 Highlight created at position %d: %s", h.Position, h.ID)
	return h, nil
}

func Update(ctx context.Context, db *gorm.DB, id string, in HighlightInput) (models.Highlight, error) {
	if err := in.validate("highlight.Update"); err != nil {
		return models.Highlight{}, err
	}

	var h models.Highlight
	if err := db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return models.Highlight{}, notFoundOr("highlight.Update", err)
	}

	h.Title = strings.TrimSpace(in.Title)
	h.Description = strings.TrimSpace(in.Description)
	h.ImageURL = strings.TrimSpace(in.ImageURL)
	h.Link = cleanLink(in.Link)
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	if err := db.WithContext(ctx).Save(&h).Error; err != nil {
		log.Printf("❌ Failed to update highlight %s: %v", id, err)
		return models.Highlight{}, apperrors.External("highlight.Update", "Failed to update highlight", err)
	}
	return h, nil
}

func SetActive(ctx context.Context, db *gorm.DB, id string, active bool) (models.Highlight, error) {
	result := db.WithContext(ctx).Model(&models.Highlight{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		log.Printf("❌ Failed to toggle highlight %s: %v", id, result.Error)
		return models.Highlight{}, apperrors.External("highlight.SetActive", "Failed to update highlight", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Highlight{}, apperrors.NotFound("highlight.SetActive", "Highlight not found")
	}

	var h models.Highlight
	if err := db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return models.Highlight{}, notFoundOr("highlight.SetActive", err)
	}
	return h, nil
}

func Delete(ctx context.Context, db *gorm.DB, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Highlight{})
	if result.Error != nil {
		log.Printf("❌ Failed to delete highlight %s: %v", id, result.Error)
		return apperrors.External("highlight.Delete", "Failed to delete highlight", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("highlight.Delete", "Highlight not found")
	}
	return nil
}

// SwapPositions exchanges the positions of two highlights in one
// transaction. Both rows are locked first; if either is missing nothing is
// written. The first row passes through swapSentinel so the unique index
// on position holds after every statement.
func SwapPositions(ctx context.Context, db *gorm.DB, idA, idB string) error {
	if idA == "" || idB == "" || idA == idB {
		return apperrors.Validation("highlight.Swap", "Two different highlights are required")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.Highlight
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []string{idA, idB}).
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) != 2 {
			return apperrors.NotFound("highlight.Swap", "Highlight not found")
		}

		a, b := rows[0], rows[1]
		steps := []struct {
			id  string
			pos int
		}{
			{a.ID, swapSentinel},
			{b.ID, a.Position},
			{a.ID, b.Position},
		}
		for _, s := range steps {
			if err := tx.Model(&models.Highlight{}).Where("id = ?", s.id).Update("position", s.pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		log.Printf("❌ Failed to swap highlights %s and %s: %v", idA, idB, err)
		return apperrors.External("highlight.Swap", "Failed to reorder highlights", err)
	}
	log.Printf("✅ Highlights %s and %s swapped", idA, idB)
	return nil
}

func (in HighlightInput) validate(op string) error {
	if len(strings.TrimSpace(in.Title)) < 2 {
		return apperrors.Validation(op, "Title is required")
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return apperrors.Validation(op, "Image is required")
	}
	return nil
}

func cleanLink(link *string) *string {
	if link == nil {
		return nil
	}
	v := strings.TrimSpace(*link)
	if v == "" {
		return nil
	}
	return &v
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(op, "Highlight not found")
	}
	log.Printf("❌ %s: %v", op, err)
	return apperrors.External(op, "Failed to load highlight", err)
}

// -------- Handlers --------

// GET /highlights
func GetActiveHighlights(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		highlights, err := ListActive(c.Request.Context(), db)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, highlights)
	}
}

// GET /admin/highlights
func GetHighlights(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		highlights, err := ListAll(c.Request.Context(), db)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, highlights)
	}
}

// POST /admin/highlights
func CreateHighlight(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in HighlightInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and imageUrl are required"})
			return
		}
		h, err := Create(c.Request.Context(), db, in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, h)
	}
}

// PUT /admin/highlights/:id
func UpdateHighlight(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in HighlightInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and imageUrl are required"})
			return
		}
		h, err := Update(c.Request.Context(), db, c.Param("id"), in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

// PATCH /admin/highlights/:id/active
func SetHighlightActive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}
		h, err := SetActive(c.Request.Context(), db, c.Param("id"), *body.IsActive)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

// DELETE /admin/highlights/:id
func DeleteHighlight(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Delete(c.Request.Context(), db, c.Param("id")); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Highlight deleted successfully"})
	}
}

// POST /admin/highlights/swap
func SwapHighlights(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SwapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "idA and idB are required"})
			return
		}
		if err := SwapPositions(c.Request.Context(), db, req.IDA, req.IDB); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Highlights reordered"})
	}
}
