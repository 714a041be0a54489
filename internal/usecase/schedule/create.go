package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CreateScheduleInput struct {
	BarberID  uint
	Date      time.Time
	IsWorking bool
	Slots     []domain.SlotInput
	ActorID   *uint
}

type CreateSchedule struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewCreateSchedule(repo domain.Repository, audit audit.Recorder) *CreateSchedule {
	return &CreateSchedule{repo: repo, audit: audit}
}

func (uc *CreateSchedule) Execute(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	if in.Date.IsZero() {
		return nil, httperr.ErrInvalidInput("date is required")
	}
	if err := domain.ValidateSlots(in.Slots); err != nil {
		return nil, err
	}

	ok, err := uc.repo.BarberExists(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrInvalidReference("barber")
	}

	s := &models.Schedule{
		BarberID:  in.BarberID,
		Date:      time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC),
		IsWorking: in.IsWorking,
	}
	for _, sl := range in.Slots {
		s.TimeSlots = append(s.TimeSlots, models.TimeSlot{StartTime: sl.Start, EndTime: sl.End})
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &s.ID,
	})

	return uc.repo.Get(ctx, s.ID)
}
