package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SoldItem records a completed sale. A transaction chat exists iff the
// listing has a SoldItem row; its two participants are the buyer here and
// the seller on the Item.
type SoldItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemID  uuid.UUID `gorm:"not null;uniqueIndex" json:"item_id"`
	BuyerID uuid.UUID `gorm:"not null;index" json:"buyer_id"`

	Item  Item   `gorm:"foreignkey:ItemID" json:"item"`
	Buyer User   `gorm:"foreignkey:BuyerID" json:"-"`
	Chats []Chat `gorm:"foreignkey:SoldItemID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (s *SoldItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
