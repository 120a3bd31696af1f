package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UncategorizedLabel is shown for items whose category no longer exists.
const UncategorizedLabel = "Sem categoria"

type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}
