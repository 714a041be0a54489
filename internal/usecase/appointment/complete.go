package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CompleteAppointment struct {
	update *UpdateAppointment
}

func NewCompleteAppointment(update *UpdateAppointment) *CompleteAppointment {
	return &CompleteAppointment{update: update}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {
	status := string(domain.StatusCompleted)
	return uc.update.Execute(ctx, UpdateAppointmentInput{
		ID:      appointmentID,
		Status:  &status,
		ActorID: actorID,
	})
}
