package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListFilter struct {
	Page     int
	Limit    int
	BarberID *uint
	Upcoming bool
	Past     bool
	Today    time.Time
}

type Repository interface {
	BarberExists(ctx context.Context, id uint) (bool, error)

	// Create stores the schedule and its TimeSlots together.
	Create(ctx context.Context, s *models.Schedule) error
	Get(ctx context.Context, id uint) (*models.Schedule, error)
	List(ctx context.Context, f ListFilter) ([]models.Schedule, int64, error)
	SetWorking(ctx context.Context, id uint, working bool) error

	AddSlots(ctx context.Context, scheduleID uint, slots []models.TimeSlot) error

	// Delete refuses schedules with booked slots.
	Delete(ctx context.Context, id uint) (bool, error)
}
