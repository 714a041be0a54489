package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit audit.Recorder,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute reports false when there was nothing to delete.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (deleted bool, err error) {

	started := time.Now()
	ctx, span := startSpan(ctx, "appointment.delete")
	defer func() { observe(span, "delete", started, err) }()

	deleted, err = uc.repo.DeleteBooking(ctx, appointmentID)
	if err != nil || !deleted {
		return false, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return true, nil
}
