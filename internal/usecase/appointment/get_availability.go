package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute lists the unbooked slots of the barber's working schedule on Date.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	ok, err := uc.repo.BarberExists(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrNotFound("barber")
	}

	free, err := uc.repo.ListFreeSlots(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.TimeSlot, 0, len(free))
	for _, s := range free {
		slots = append(slots, domain.TimeSlot{
			ID:    s.ID,
			Start: s.StartTime,
			End:   s.EndTime,
		})
	}
	return slots, nil
}
