package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const MaxPageSize = 100

type ListAppointmentsInput struct {
	Page     int
	Limit    int
	UserID   *uint
	BarberID *uint
	Upcoming bool
	Past     bool
}

type AppointmentPage struct {
	Items []models.Appointment
	Total int64
	Page  int
	Limit int
}

type ListAppointments struct {
	repo  domain.Repository
	clock *timezone.Clock
}

func NewListAppointments(
	repo domain.Repository,
	clock *timezone.Clock,
) *ListAppointments {
	return &ListAppointments{
		repo:  repo,
		clock: clock,
	}
}

// ValidatePage checks page >= 1 and limit in [1, MaxPageSize].
func ValidatePage(page, limit int) error {
	if page < 1 {
		return httperr.ErrInvalidInput("page must be >= 1")
	}
	if limit < 1 || limit > MaxPageSize {
		return httperr.ErrInvalidInput("limit must be between 1 and %d", MaxPageSize)
	}
	return nil
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (*AppointmentPage, error) {

	if err := ValidatePage(in.Page, in.Limit); err != nil {
		return nil, err
	}

	out := &AppointmentPage{
		Items: []models.Appointment{},
		Page:  in.Page,
		Limit: in.Limit,
	}

	// Upcoming and past together can never match.
	if in.Upcoming && in.Past {
		return out, nil
	}

	items, total, err := uc.repo.ListAppointments(ctx, domain.ListFilter{
		Page:     in.Page,
		Limit:    in.Limit,
		UserID:   in.UserID,
		BarberID: in.BarberID,
		Upcoming: in.Upcoming,
		Past:     in.Past,
		Today:    uc.clock.Today(),
	})
	if err != nil {
		return nil, err
	}

	out.Items = items
	out.Total = total
	return out, nil
}
