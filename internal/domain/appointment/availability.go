package appointment

import "time"

type AvailabilityInput struct {
	BarberID uint
	Date     time.Time
}

type TimeSlot struct {
	ID    uint   `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}
