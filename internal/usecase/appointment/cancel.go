package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CancelAppointment is the status-only shortcut for cancelling.
type CancelAppointment struct {
	update *UpdateAppointment
}

func NewCancelAppointment(update *UpdateAppointment) *CancelAppointment {
	return &CancelAppointment{update: update}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {
	status := string(domain.StatusCancelled)
	return uc.update.Execute(ctx, UpdateAppointmentInput{
		ID:      appointmentID,
		Status:  &status,
		ActorID: actorID,
	})
}
