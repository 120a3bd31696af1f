package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// ItemQuery selects one page of the catalog. Cursor is the id of the last
// item of the previous page.
type ItemQuery struct {
	CategoryID string
	Search     string
	Limit      int
	Cursor     string
}

// ItemView is an item with its category name resolved.
type ItemView struct {
	models.Item
	CategoryName string `json:"categoryName"`
}

type ItemPage struct {
	Items      []ItemView `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
	HasMore    bool       `json:"hasMore"`
}

// -------- Core Logic --------

// ListItems returns the page after q.Cursor, newest first.
//
// Without a search term the page comes from a keyset query. With one, the
// whole (category-filtered) catalog is loaded and matched on title in
// memory, then sliced after the cursor position.
func ListItems(ctx context.Context, db *gorm.DB, q ItemQuery) (ItemPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	names, err := categoryNames(ctx, db)
	if err != nil {
		log.Printf("❌ Failed to fetch categories: %v", err)
		return ItemPage{}, apperrors.External("item.List", "Failed to fetch items", err)
	}

	var items []models.Item
	var hasMore bool
	if search := strings.TrimSpace(q.Search); search != "" {
		items, hasMore, err = pageBySearch(ctx, db, q.CategoryID, search, q.Cursor, limit)
	} else {
		items, hasMore, err = pageByCursor(ctx, db, q.CategoryID, q.Cursor, limit)
	}
	if err != nil {
		return ItemPage{}, err
	}

	page := ItemPage{Items: make([]ItemView, 0, len(items)), HasMore: hasMore}
	for _, item := range items {
		page.Items = append(page.Items, toView(item, names))
	}
	if hasMore && len(items) > 0 {
		page.NextCursor = items[len(items)-1].ID
	}
	return page, nil
}

func pageByCursor(ctx context.Context, db *gorm.DB, categoryID, cursor string, limit int) ([]models.Item, bool, error) {
	query := db.WithContext(ctx).Model(&models.Item{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if cursor != "" {
		var last models.Item
		if err := db.WithContext(ctx).Select("id", "created_at").First(&last, "id = ?", cursor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, apperrors.Validation("item.List", "Invalid cursor")
			}
			log.Printf("❌ Failed to resolve cursor %s: %v", cursor, err)
			return nil, false, apperrors.External("item.List", "Failed to fetch items", err)
		}
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", last.CreatedAt, last.CreatedAt, last.ID)
	}

	var items []models.Item
	// one extra row tells whether another page exists
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&items).Error; err != nil {
		log.Printf("❌ Failed to fetch items: %v", err)
		return nil, false, apperrors.External("item.List", "Failed to fetch items", err)
	}

	if len(items) > limit {
		return items[:limit], true, nil
	}
	return items, false, nil
}

func pageBySearch(ctx context.Context, db *gorm.DB, categoryID, search, cursor string, limit int) ([]models.Item, bool, error) {
	query := db.WithContext(ctx).Model(&models.Item{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var all []models.Item
	if err := query.Order("created_at DESC").Order("id DESC").Find(&all).Error; err != nil {
		log.Printf("❌ Failed to fetch items for search: %v", err)
		return nil, false, apperrors.External("item.List", "Failed to fetch items", err)
	}

	needle := strings.ToLower(search)
	matched := make([]models.Item, 0, len(all))
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matched = append(matched, item)
		}
	}

	start := 0
	if cursor != "" {
		idx := -1
		for i, item := range matched {
			if item.ID == cursor {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false, apperrors.Validation("item.List", "Invalid cursor")
		}
		start = idx + 1
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], end < len(matched), nil
}

func toView(item models.Item, names map[string]string) ItemView {
	name, ok := names[item.CategoryID]
	if !ok {
		name = models.UncategorizedLabel
	}
	return ItemView{Item: item, CategoryName: name}
}

// -------- Handlers --------

// GET /items?categoryId=&search=&limit=&cursor=
func GetItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := DefaultPageLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = n
		}

		page, err := ListItems(c.Request.Context(), db, ItemQuery{
			CategoryID: strings.TrimSpace(c.Query("categoryId")),
			Search:     c.Query("search"),
			Limit:      limit,
			Cursor:     strings.TrimSpace(c.Query("cursor")),
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
