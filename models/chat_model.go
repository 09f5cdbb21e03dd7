package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is one message inside a transaction. Text may be empty only when an
// image is attached. ReadAt stays null until the other participant opens
// the conversation.
type Chat struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SoldItemID uuid.UUID  `gorm:"not null;index" json:"sold_item_id"`
	SenderID   uuid.UUID  `gorm:"not null;index" json:"sender_id"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	ImagePath  *string    `gorm:"size:255" json:"image_path"`
	ReadAt     *time.Time `json:"read_at"`

	Sender   User     `gorm:"foreignkey:SenderID" json:"sender"`
	SoldItem SoldItem `gorm:"foreignkey:SoldItemID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
