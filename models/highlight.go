package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Highlight is a storefront carousel entry. Position orders the carousel
// and is unique across all highlights.
type Highlight struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	Link        *string   `json:"link,omitempty"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Position    int       `gorm:"not null;uniqueIndex" json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *Highlight) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return nil
}
