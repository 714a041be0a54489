package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func TestCreateAndListSchedules(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := repository.NewScheduleGormRepository(gdb)
	clock := timezone.FixedClock(time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC), "UTC")
	ctx := context.Background()

	barber := testutil.CreateBarber(t, gdb, testutil.CreateUser(t, gdb, "Ben", "", "b@example.com"))
	create := NewCreateSchedule(repo, audit.Discard{})

	for _, day := range []int{3, 5, 8} {
		_, err := create.Execute(ctx, CreateScheduleInput{
			BarberID:  barber.ID,
			Date:      testutil.Day(2026, 6, day),
			IsWorking: true,
			Slots:     []domain.SlotInput{{Start: "10:00", End: "10:30"}, {Start: "09:00", End: "09:30"}},
		})
		if err != nil {
			t.Fatalf("create day %d: %v", day, err)
		}
	}

	_, err := create.Execute(ctx, CreateScheduleInput{BarberID: barber.ID, Date: testutil.Day(2026, 6, 5)})
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("expected conflict for duplicate day, got %v", err)
	}
	_, err = create.Execute(ctx, CreateScheduleInput{BarberID: 999, Date: testutil.Day(2026, 6, 9)})
	if !httperr.IsBusiness(err, httperr.CodeInvalidReference) {
		t.Fatalf("expected invalid_reference, got %v", err)
	}

	list := NewListSchedules(repo, clock)
	page, err := list.Execute(ctx, ListSchedulesInput{Page: 1, Limit: 10, Upcoming: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 upcoming schedules, got %d", page.Total)
	}
	first := page.Items[0]
	if len(first.TimeSlots) != 2 || first.TimeSlots[0].StartTime != "09:00" {
		t.Fatalf("slots not preloaded in order: %+v", first.TimeSlots)
	}

	page, _ = list.Execute(ctx, ListSchedulesInput{Page: 1, Limit: 10, Past: true})
	if page.Total != 1 {
		t.Fatalf("expected 1 past schedule, got %d", page.Total)
	}
	if _, err := list.Execute(ctx, ListSchedulesInput{Page: 0, Limit: 10}); !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := repository.NewScheduleGormRepository(gdb)
	ctx := context.Background()

	barber := testutil.CreateBarber(t, gdb, testutil.CreateUser(t, gdb, "Ben", "", "b@example.com"))
	sched := testutil.CreateSchedule(t, gdb, barber.ID, testutil.Day(2026, 6, 10))
	slot := testutil.CreateSlot(t, gdb, sched.ID, "09:00", "09:30")

	update := NewUpdateSchedule(repo, audit.Discard{})
	off := false
	got, err := update.Execute(ctx, UpdateScheduleInput{
		ID:        sched.ID,
		IsWorking: &off,
		AddSlots:  []domain.SlotInput{{Start: "09:30", End: "10:00"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.IsWorking || len(got.TimeSlots) != 2 {
		t.Fatalf("unexpected schedule %+v", got)
	}

	_, err = update.Execute(ctx, UpdateScheduleInput{ID: sched.ID, AddSlots: []domain.SlotInput{{Start: "09:15", End: "09:45"}}})
	if !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
		t.Fatalf("expected overlap rejection, got %v", err)
	}

	del := NewDeleteSchedule(repo, audit.Discard{})

	gdb.Model(slot).Update("is_booked", true)
	if err := del.Execute(ctx, sched.ID, nil); !httperr.IsBusiness(err, httperr.CodeInvalidState) {
		t.Fatalf("expected invalid_state with booked slot, got %v", err)
	}

	gdb.Model(slot).Update("is_booked", false)
	if err := del.Execute(ctx, sched.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := del.Execute(ctx, sched.ID, nil); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
