package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	appointmentuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type ListSchedulesInput struct {
	Page     int
	Limit    int
	BarberID *uint
	Upcoming bool
	Past     bool
}

type SchedulePage struct {
	Items []models.Schedule
	Total int64
	Page  int
	Limit int
}

type ListSchedules struct {
	repo  domain.Repository
	clock *timezone.Clock
}

func NewListSchedules(repo domain.Repository, clock *timezone.Clock) *ListSchedules {
	return &ListSchedules{repo: repo, clock: clock}
}

func (uc *ListSchedules) Execute(ctx context.Context, in ListSchedulesInput) (*SchedulePage, error) {
	if err := appointmentuc.ValidatePage(in.Page, in.Limit); err != nil {
		return nil, err
	}

	out := &SchedulePage{Items: []models.Schedule{}, Page: in.Page, Limit: in.Limit}
	if in.Upcoming && in.Past {
		return out, nil
	}

	items, total, err := uc.repo.List(ctx, domain.ListFilter{
		Page:     in.Page,
		Limit:    in.Limit,
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
