package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type SlotDTO struct {
	ID        uint   `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ServiceDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}

// AppointmentDTO flattens an appointment with its slots and services.
// StartTime and EndTime span the booked slots and are empty once the
// slots are released.
type AppointmentDTO struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	BarberID        uint       `json:"barber_id"`
	Status          string     `json:"status"`
	AppointmentDate string     `json:"appointment_date"`
	StartTime       string     `json:"start_time,omitempty"`
	EndTime         string     `json:"end_time,omitempty"`
	Notes           string     `json:"notes"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	TimeSlots     []SlotDTO    `json:"time_slots"`
	Services      []ServiceDTO `json:"services"`
	TotalPrice    float64      `json:"total_price"`
	TotalDuration int          `json:"total_duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAppointment(ap *models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:              ap.ID,
		UserID:          ap.UserID,
		BarberID:        ap.BarberID,
		Status:          ap.Status,
		AppointmentDate: ap.AppointmentDate.Format("2006-01-02"),
		Notes:           ap.Notes,
		CancelledAt:     ap.CancelledAt,
		CompletedAt:     ap.CompletedAt,
		TimeSlots:       make([]SlotDTO, 0, len(ap.TimeSlots)),
		Services:        make([]ServiceDTO, 0, len(ap.Services)),
		CreatedAt:       ap.CreatedAt,
		UpdatedAt:       ap.UpdatedAt,
	}

	// "HH:MM" compares correctly as a string.
	for _, s := range ap.TimeSlots {
		out.TimeSlots = append(out.TimeSlots, SlotDTO{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime})
		if out.StartTime == "" || s.StartTime < out.StartTime {
			out.StartTime = s.StartTime
		}
		if s.EndTime > out.EndTime {
			out.EndTime = s.EndTime
		}
	}
	for _, s := range ap.Services {
		out.Services = append(out.Services, ServiceDTO{ID: s.ID, Name: s.Name, DurationMin: s.DurationMin, Price: s.Price})
		out.TotalPrice += s.Price
		out.TotalDuration += s.DurationMin
	}
	return out
}

func NewAppointments(in []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(in))
	for i := range in {
		out = append(out, NewAppointment(&in[i]))
	}
	return out
}
