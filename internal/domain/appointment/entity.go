package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the next status, stamping cancelled_at / completed_at.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCancelled, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, now)
}

// ===============================
// Slot rules
// ===============================

// UniqueIDs drops duplicates and keeps first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BookingDate checks that every slot belongs to barberID and that all of them
// share one schedule date, which becomes the appointment date.
// Slots must be loaded with their Schedule.
func BookingDate(barberID uint, slots []models.TimeSlot) (time.Time, error) {
	if len(slots) == 0 {
		return time.Time{}, httperr.ErrInvalidInput("at least one time slot is required")
	}

	var date time.Time
	for i, s := range slots {
		if s.Schedule == nil {
			return time.Time{}, httperr.ErrInconsistentSlots("time slot without schedule")
		}
		if s.Schedule.BarberID != barberID {
			return time.Time{}, httperr.ErrInconsistentSlots("time slot belongs to another barber")
		}
		d := DateOnly(s.Schedule.Date)
		if i == 0 {
			date = d
			continue
		}
		if !d.Equal(date) {
			return time.Time{}, httperr.ErrInconsistentSlots("time slots span more than one date")
		}
	}
	return date, nil
}

// DateOnly truncates t to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EarliestStart returns the smallest HH:MM start among slots.
func EarliestStart(slots []models.TimeSlot) string {
	if len(slots) == 0 {
		return ""
	}
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	sort.Strings(starts)
	return starts[0]
}

// SlotDiff returns the ids to release and to book when current is replaced by next.
func SlotDiff(current, next []uint) (release, book []uint) {
	cur := make(map[uint]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	nxt := make(map[uint]struct{}, len(next))
	for _, id := range next {
		nxt[id] = struct{}{}
		if _, ok := cur[id]; !ok {
			book = append(book, id)
		}
	}
	for _, id := range current {
		if _, ok := nxt[id]; !ok {
			release = append(release, id)
		}
	}
	return release, book
}
