package appointment

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/observability/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/observability/tracing"
)

// Notifier sends booking emails after commit. Errors are only logged.
type Notifier interface {
	BookingConfirmed(ctx context.Context, d domain.NotificationDetails) error
	BookingCancelled(ctx context.Context, d domain.NotificationDetails) error
}

// ======================================================
// Reference checks, in the order they are reported
// ======================================================

func checkUser(ctx context.Context, repo domain.Repository, id uint) error {
	ok, err := repo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrInvalidReference("user")
	}
	return nil
}

func checkBarber(ctx context.Context, repo domain.Repository, id uint) error {
	ok, err := repo.BarberExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrInvalidReference("barber")
	}
	return nil
}

// loadSlots expects ids without duplicates.
func loadSlots(ctx context.Context, repo domain.Repository, ids []uint) ([]models.TimeSlot, error) {
	slots, err := repo.GetSlots(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(ids) {
		return nil, httperr.ErrInvalidReference("time_slot")
	}
	return slots, nil
}

func checkServices(ctx context.Context, repo domain.Repository, ids []uint) error {
	n, err := repo.CountServices(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return httperr.ErrInvalidReference("service")
	}
	return nil
}

func slotIDs(slots []models.TimeSlot) []uint {
	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// ======================================================
// Observability
// ======================================================

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return "error"
}

// observe ends span and records the booking metric for operation.
func observe(span oteltrace.Span, operation string, started time.Time, err error) {
	metrics.ObserveBooking(operation, resultOf(err), time.Since(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resultOf(err))
	}
	span.End()
}

func startSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return tracing.Tracer().Start(ctx, name)
}

// notify runs after commit. It outlives request cancellation and only logs.
func notify(
	ctx context.Context,
	log *zap.Logger,
	kind string,
	appointmentID uint,
	send func(context.Context) error,
) {
	if err := send(context.WithoutCancel(ctx)); err != nil {
		log.Warn("booking notification failed",
			zap.String("kind", kind),
			zap.Uint("appointment_id", appointmentID),
			zap.Error(httperr.ErrNotificationFailure(err)),
		)
	}
}
