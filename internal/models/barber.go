package models

import "time"

// Barber is the provider profile of a User. One per user.
type Barber struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	Bio      string `gorm:"size:500" json:"bio"`
	PhotoURL string `gorm:"size:255" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
