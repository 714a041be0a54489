package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// UpdateAppointmentInput is a partial update. Nil means unchanged; an empty
// non-nil id list is rejected.
type UpdateAppointmentInput struct {
	ID uint

	UserID      *uint
	BarberID    *uint
	Status      *string
	Notes       *string
	TimeSlotIDs []uint
	ServiceIDs  []uint

	// ActorID is recorded in the audit trail.
	ActorID *uint
}

type UpdateAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	notifier Notifier
	clock    *timezone.Clock
	log      *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	notifier Notifier,
	clock *timezone.Clock,
	log *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := startSpan(ctx, "appointment.update")
	defer func() { observe(span, "update", started, err) }()

	// --------------------------------------------------
	// 1. Input shape
	// --------------------------------------------------
	if in.TimeSlotIDs != nil && len(in.TimeSlotIDs) == 0 {
		return nil, httperr.ErrInvalidInput("time_slot_ids cannot be empty")
	}
	if in.ServiceIDs != nil && len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrInvalidInput("service_ids cannot be empty")
	}

	current, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(current.Status)
	to := from
	if in.Status != nil {
		st, ok := domain.ParseStatus(*in.Status)
		if !ok {
			return nil, httperr.ErrInvalidInput("unknown status %q", *in.Status)
		}
		to = st
	}

	cancelling := to == domain.StatusCancelled && from != domain.StatusCancelled
	replaceSlots := in.TimeSlotIDs != nil
	changesBooking := replaceSlots || in.ServiceIDs != nil ||
		(in.UserID != nil && *in.UserID != current.UserID) ||
		(in.BarberID != nil && *in.BarberID != current.BarberID)

	if from.Terminal() && changesBooking {
		return nil, httperr.ErrInvalidState("appointment is " + string(from))
	}
	if in.Status != nil && (to != from || from.Terminal()) {
		if err := domain.CanTransition(from, to); err != nil {
			return nil, err
		}
	}
	if cancelling && replaceSlots {
		return nil, httperr.ErrInvalidInput("time slots cannot change while cancelling")
	}

	// --------------------------------------------------
	// 2. References (user, barber, slots, services)
	// --------------------------------------------------
	userID := current.UserID
	if in.UserID != nil && *in.UserID != current.UserID {
		if err := checkUser(ctx, uc.repo, *in.UserID); err != nil {
			return nil, err
		}
		userID = *in.UserID
	}

	barberID := current.BarberID
	barberChanged := false
	if in.BarberID != nil && *in.BarberID != current.BarberID {
		if err := checkBarber(ctx, uc.repo, *in.BarberID); err != nil {
			return nil, err
		}
		barberID = *in.BarberID
		barberChanged = true
	}

	var nextSlots []models.TimeSlot
	if replaceSlots {
		if nextSlots, err = loadSlots(ctx, uc.repo, domain.UniqueIDs(in.TimeSlotIDs)); err != nil {
			return nil, err
		}
	}

	var serviceIDs []uint
	if in.ServiceIDs != nil {
		serviceIDs = domain.UniqueIDs(in.ServiceIDs)
		if err := checkServices(ctx, uc.repo, serviceIDs); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3. Slot consistency
	// --------------------------------------------------
	update := domain.BookingUpdate{
		Appointment:     current,
		FromStatus:      from,
		ReplaceServices: in.ServiceIDs != nil,
		ServiceIDs:      serviceIDs,
	}

	switch {
	case replaceSlots:
		date, err := domain.BookingDate(barberID, nextSlots)
		if err != nil {
			return nil, err
		}
		current.AppointmentDate = date
		update.SlotIDs = slotIDs(nextSlots)

	case barberChanged:
		// The kept slots are checked against the new barber under the lock.
		update.CheckSlots = true
	}

	// --------------------------------------------------
	// 4. Status
	// --------------------------------------------------
	var cancelDetails *domain.NotificationDetails
	if to != from {
		if err := domain.Transition(current, to, uc.clock.Now()); err != nil {
			return nil, err
		}
	}
	if cancelling {
		update.ReleaseSlots = true

		// Slot links are gone after commit, so the email details are read now.
		d, err := uc.repo.GetNotificationDetails(ctx, current.ID)
		if err != nil {
			uc.log.Warn("cannot load cancellation details", zap.Uint("appointment_id", current.ID), zap.Error(err))
		} else {
			cancelDetails = d
		}
	}

	current.UserID = userID
	current.BarberID = barberID
	if in.Notes != nil {
		current.Notes = *in.Notes
	}

	// --------------------------------------------------
	// 5. Atomic write
	// --------------------------------------------------
	if err := uc.repo.UpdateBooking(ctx, update); err != nil {
		return nil, err
	}

	action := "appointment_updated"
	if cancelling {
		action = "appointment_cancelled"
	} else if to == domain.StatusCompleted && from != to {
		action = "appointment_completed"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &current.ID,
		Metadata: map[string]any{"from": from, "to": to},
	})

	if cancelDetails != nil {
		notify(ctx, uc.log, "cancellation", current.ID, func(ctx context.Context) error {
			return uc.notifier.BookingCancelled(ctx, *cancelDetails)
		})
	}

	return uc.repo.GetAppointment(ctx, current.ID)
}
