package models

import "time"

// Schedule is one working day of a barber. Date is stored at UTC midnight.
type Schedule struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	BarberID uint    `gorm:"uniqueIndex:idx_schedule_barber_date;not null" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber,omitempty"`

	Date      time.Time `gorm:"type:date;uniqueIndex:idx_schedule_barber_date;not null" json:"date"`
	IsWorking bool      `gorm:"not null" json:"is_working"`

	TimeSlots []TimeSlot `gorm:"constraint:OnDelete:CASCADE;" json:"time_slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
