package schedule

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type GetSchedule struct {
	repo domain.Repository
}

func NewGetSchedule(repo domain.Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(ctx context.Context, id uint) (*models.Schedule, error) {
	return uc.repo.Get(ctx, id)
}

// ======================================================
// UPDATE
// ======================================================

type UpdateScheduleInput struct {
	ID        uint
	IsWorking *bool
	AddSlots  []domain.SlotInput
	ActorID   *uint
}

type UpdateSchedule struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateSchedule(repo domain.Repository, audit audit.Recorder) *UpdateSchedule {
	return &UpdateSchedule{repo: repo, audit: audit}
}

// Execute toggles the working flag and appends slots that must not overlap
// the existing ones.
func (uc *UpdateSchedule) Execute(ctx context.Context, in UpdateScheduleInput) (*models.Schedule, error) {
	current, err := uc.repo.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if len(in.AddSlots) > 0 {
		all := make([]domain.SlotInput, 0, len(current.TimeSlots)+len(in.AddSlots))
		for _, s := range current.TimeSlots {
			all = append(all, domain.SlotInput{Start: s.StartTime, End: s.EndTime})
		}
		all = append(all, in.AddSlots...)
		if err := domain.ValidateSlots(all); err != nil {
			return nil, err
		}

		slots := make([]models.TimeSlot, 0, len(in.AddSlots))
		for _, s := range in.AddSlots {
			slots = append(slots, models.TimeSlot{StartTime: s.Start, EndTime: s.End})
		}
		if err := uc.repo.AddSlots(ctx, in.ID, slots); err != nil {
			return nil, err
		}
	}

	if in.IsWorking != nil && *in.IsWorking != current.IsWorking {
		if err := uc.repo.SetWorking(ctx, in.ID, *in.IsWorking); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "schedule_updated",
		Entity:   "schedule",
		EntityID: &in.ID,
	})

	return uc.repo.Get(ctx, in.ID)
}

// ======================================================
// DELETE
// ======================================================

type DeleteSchedule struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewDeleteSchedule(repo domain.Repository, audit audit.Recorder) *DeleteSchedule {
	return &DeleteSchedule{repo: repo, audit: audit}
}

func (uc *DeleteSchedule) Execute(ctx context.Context, id uint, actorID *uint) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return httperr.ErrNotFound("schedule")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &id,
	})
	return nil
}
