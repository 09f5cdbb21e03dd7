package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SellerID uuid.UUID `gorm:"not null;index" json:"seller_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`

	Seller   User      `gorm:"foreignkey:SellerID" json:"-"`
	SoldItem *SoldItem `gorm:"foreignkey:ItemID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
