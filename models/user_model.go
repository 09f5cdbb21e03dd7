package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is projected into chat payloads as {name, profile}; credentials
// never serialize.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"-"`
	Password string    `gorm:"not null" json:"-"`

	Profile *Profile `gorm:"foreignkey:UserID" json:"profile"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
