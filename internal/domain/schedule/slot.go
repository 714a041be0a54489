package schedule

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const ClockLayout = "15:04"

type SlotInput struct {
	Start string
	End   string
}

// ValidateSlots checks HH:MM bounds and that no two slots overlap.
func ValidateSlots(slots []SlotInput) error {
	type span struct{ start, end time.Time }

	spans := make([]span, 0, len(slots))
	for _, s := range slots {
		start, err := time.Parse(ClockLayout, s.Start)
		if err != nil {
			return httperr.ErrInvalidInput("invalid start_time %q", s.Start)
		}
		end, err := time.Parse(ClockLayout, s.End)
		if err != nil {
			return httperr.ErrInvalidInput("invalid end_time %q", s.End)
		}
		if !end.After(start) {
			return httperr.ErrInvalidInput("slot %s-%s ends before it starts", s.Start, s.End)
		}
		spans = append(spans, span{start, end})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })
	for i := 1; i < len(spans); i++ {
		if spans[i].start.Before(spans[i-1].end) {
			return httperr.ErrInvalidInput("time slots overlap")
		}
	}
	return nil
}
