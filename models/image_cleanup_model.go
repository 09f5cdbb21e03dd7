package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageCleanup queues a chat image whose storage deletion failed when its
// message was destroyed. A cron job retries these until they go through.
type ImageCleanup struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ImagePath string    `gorm:"size:255;not null"`
	Attempts  int       `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *ImageCleanup) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
