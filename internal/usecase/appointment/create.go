package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID      uint
	BarberID    uint
	TimeSlotIDs []uint
	ServiceIDs  []uint
	Status      string
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    audit.Recorder
	notifier Notifier
	log      *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	notifier Notifier,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	started := time.Now()
	ctx, span := startSpan(ctx, "appointment.create")
	defer func() { observe(span, "create", started, err) }()

	// --------------------------------------------------
	// 1. Input shape
	// --------------------------------------------------
	slotIDs := domain.UniqueIDs(in.TimeSlotIDs)
	serviceIDs := domain.UniqueIDs(in.ServiceIDs)
	if len(slotIDs) == 0 {
		return nil, httperr.ErrInvalidInput("at least one time slot is required")
	}
	if len(serviceIDs) == 0 {
		return nil, httperr.ErrInvalidInput("at least one service is required")
	}

	status, err := domain.InitialStatus(in.Status)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. References (user, barber, slots, services)
	// --------------------------------------------------
	if err := checkUser(ctx, uc.repo, in.UserID); err != nil {
		return nil, err
	}
	if err := checkBarber(ctx, uc.repo, in.BarberID); err != nil {
		return nil, err
	}
	slots, err := loadSlots(ctx, uc.repo, slotIDs)
	if err != nil {
		return nil, err
	}
	if err := checkServices(ctx, uc.repo, serviceIDs); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Slot consistency -> appointment date
	// --------------------------------------------------
	date, err := domain.BookingDate(in.BarberID, slots)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Atomic write
	// --------------------------------------------------
	created := &models.Appointment{
		UserID:          in.UserID,
		BarberID:        in.BarberID,
		Status:          string(status),
		AppointmentDate: date,
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, created, slotIDs, serviceIDs); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Audit + notifications (post commit)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
		Metadata: map[string]any{"time_slot_ids": slotIDs, "service_ids": serviceIDs},
	})

	notify(ctx, uc.log, "confirmation", created.ID, func(ctx context.Context) error {
		d, err := uc.repo.GetNotificationDetails(ctx, created.ID)
		if err != nil {
			return err
		}
		return uc.notifier.BookingConfirmed(ctx, *d)
	})

	// The booking is committed; a failed re-read must not report it as failed.
	out, err := uc.repo.GetAppointment(ctx, created.ID)
	if err != nil {
		uc.log.Warn("cannot reload created appointment", zap.Uint("appointment_id", created.ID), zap.Error(err))
		return created, nil
	}
	return out, nil
}
