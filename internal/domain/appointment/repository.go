package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ListFilter selects appointments. Today is the caller's start of day and is
// only read when Upcoming or Past is set.
type ListFilter struct {
	Page     int
	Limit    int
	UserID   *uint
	BarberID *uint
	Upcoming bool
	Past     bool
	Today    time.Time
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// BookingUpdate is applied in a single transaction. FromStatus guards against
// a concurrent status change since the appointment was read.
type BookingUpdate struct {
	Appointment *models.Appointment
	FromStatus  Status

	// SlotIDs replaces the linked slots when non-nil. What to release and
	// what to book is decided against the links seen under the row lock.
	SlotIDs []uint
	// ReleaseSlots unlinks every slot of the appointment.
	ReleaseSlots bool
	// CheckSlots re-validates the linked slots against Appointment.BarberID
	// and sets Appointment.AppointmentDate from them.
	CheckSlots bool

	ReplaceServices bool
	ServiceIDs      []uint
}

// NotificationDetails is the denormalised view used for emails.
type NotificationDetails struct {
	AppointmentID   uint
	ClientFirstName string
	ClientName      string
	ClientEmail     string
	BarberFirstName string
	BarberName      string
	BarberEmail     string
	ServiceNames    []string
	Date            time.Time
	StartTime       string
}

type Repository interface {
	// -------- References --------
	UserExists(ctx context.Context, id uint) (bool, error)
	BarberExists(ctx context.Context, id uint) (bool, error)

	// GetSlots returns the slots found among ids, each with its Schedule.
	GetSlots(ctx context.Context, ids []uint) ([]models.TimeSlot, error)
	CountServices(ctx context.Context, ids []uint) (int64, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		ap *models.Appointment,
		slotIDs []uint,
		serviceIDs []uint,
	) error

	UpdateBooking(ctx context.Context, in BookingUpdate) error

	DeleteBooking(ctx context.Context, id uint) (bool, error)

	// -------- Queries --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, int64, error)

	GetNotificationDetails(
		ctx context.Context,
		appointmentID uint,
	) (*NotificationDetails, error)

	// -------- Availability --------
	ListFreeSlots(
		ctx context.Context,
		barberID uint,
		date time.Time,
	) ([]models.TimeSlot, error)
}
