package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && !httperr.IsBusiness(err, httperr.CodeInvalidState) {
			t.Fatalf("%s -> %s: expected invalid_state, got %v", tc.from, tc.to, err)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	st, err := InitialStatus("")
	if err != nil || st != StatusPending {
		t.Fatalf("expected pending default, got %q %v", st, err)
	}
	if st, err := InitialStatus("confirmed"); err != nil || st != StatusConfirmed {
		t.Fatalf("expected confirmed, got %q %v", st, err)
	}
	for _, bad := range []string{"completed", "cancelled", "scheduled"} {
		if _, err := InitialStatus(bad); !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
			t.Fatalf("%s: expected invalid_input, got %v", bad, err)
		}
	}
}

func TestTransitionStamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	if err := Cancel(ap, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatalf("cancelled_at not stamped")
	}
	if err := Complete(ap, now); err == nil {
		t.Fatalf("expected cancelled appointment to reject completion")
	}

	ap = &models.Appointment{Status: string(StatusPending)}
	if err := Complete(ap, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ap.CompletedAt == nil || ap.Status != string(StatusCompleted) {
		t.Fatalf("completion not recorded: %+v", ap)
	}
}

func TestBookingDate(t *testing.T) {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 1)

	sched := &models.Schedule{ID: 1, BarberID: 7, Date: day}
	slots := []models.TimeSlot{
		{ID: 1, Schedule: sched},
		{ID: 2, Schedule: sched},
	}

	got, err := BookingDate(7, slots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(day) {
		t.Fatalf("expected %v, got %v", day, got)
	}

	if _, err := BookingDate(8, slots); !httperr.IsBusiness(err, httperr.CodeInconsistentSlots) {
		t.Fatalf("expected inconsistent_slots for foreign barber, got %v", err)
	}

	mixed := append(slots, models.TimeSlot{ID: 3, Schedule: &models.Schedule{BarberID: 7, Date: other}})
	if _, err := BookingDate(7, mixed); !httperr.IsBusiness(err, httperr.CodeInconsistentSlots) {
		t.Fatalf("expected inconsistent_slots for two dates, got %v", err)
	}
}

func TestSlotDiff(t *testing.T) {
	release, book := SlotDiff([]uint{1, 2, 3}, []uint{3, 4})
	if len(release) != 2 || release[0] != 1 || release[1] != 2 {
		t.Fatalf("unexpected release %v", release)
	}
	if len(book) != 1 || book[0] != 4 {
		t.Fatalf("unexpected book %v", book)
	}

	if ids := UniqueIDs([]uint{5, 5, 2, 5}); len(ids) != 2 || ids[0] != 5 || ids[1] != 2 {
		t.Fatalf("unexpected unique ids %v", ids)
	}
}
