package dto

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestNewAppointmentSpansSlots(t *testing.T) {
	ap := &models.Appointment{
		ID:              4,
		Status:          "confirmed",
		AppointmentDate: time.Date(2030, 3, 9, 0, 0, 0, 0, time.UTC),
		TimeSlots: []models.TimeSlot{
			{ID: 2, StartTime: "10:30", EndTime: "11:00"},
			{ID: 1, StartTime: "10:00", EndTime: "10:30"},
		},
		Services: []models.Service{
			{ID: 1, Name: "Haircut", DurationMin: 30, Price: 25},
			{ID: 2, Name: "Beard", DurationMin: 15, Price: 10.5},
		},
	}

	got := NewAppointment(ap)
	if got.AppointmentDate != "2030-03-09" || got.StartTime != "10:00" || got.EndTime != "11:00" {
		t.Fatalf("unexpected span %+v", got)
	}
	if got.TotalPrice != 35.5 || got.TotalDuration != 45 || len(got.Services) != 2 {
		t.Fatalf("unexpected totals %+v", got)
	}

	empty := NewAppointment(&models.Appointment{Status: "cancelled"})
	if empty.StartTime != "" || empty.TimeSlots == nil || empty.Services == nil {
		t.Fatalf("released appointment should render empty lists, got %+v", empty)
	}
}
