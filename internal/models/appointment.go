package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	BarberID uint    `gorm:"index;not null" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber,omitempty"`

	Status          string    `gorm:"size:20;default:'pending'" json:"status"`
	AppointmentDate time.Time `gorm:"type:date;index" json:"appointment_date"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	TimeSlots []TimeSlot `gorm:"many2many:appointment_time_slots;" json:"time_slots"`
	Services  []Service  `gorm:"many2many:appointment_services;" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentTimeSlot is the only source of truth for slot membership.
// A slot can be linked to at most one appointment.
type AppointmentTimeSlot struct {
	AppointmentID uint `gorm:"primaryKey"`
	TimeSlotID    uint `gorm:"primaryKey;uniqueIndex:idx_appointment_time_slots_slot"`
}

func (AppointmentTimeSlot) TableName() string {
	return "appointment_time_slots"
}

type AppointmentService struct {
	AppointmentID uint `gorm:"primaryKey"`
	ServiceID     uint `gorm:"primaryKey"`
}

func (AppointmentService) TableName() string {
	return "appointment_services"
}
