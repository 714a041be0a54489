package models

import "time"

type Message struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	SenderID   uint  `gorm:"index;not null" json:"sender_id"`
	Sender     *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;" json:"sender,omitempty"`
	ReceiverID uint  `gorm:"index;not null" json:"receiver_id"`
	Receiver   *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE;" json:"receiver,omitempty"`

	Subject  string     `gorm:"size:255" json:"subject"`
	Content  string     `gorm:"type:text;not null" json:"content"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
	ReadAt   *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
