package repository

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

type fixture struct {
	repo    *AppointmentGormRepository
	user    *models.User
	barber  *models.Barber
	day     time.Time
	slots   []*models.TimeSlot
	service *models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)

	day := testutil.Day(2026, 6, 1)
	user := testutil.CreateUser(t, gdb, "Ana", "Client", "ana@example.com")
	bu := testutil.CreateUser(t, gdb, "Bruno", "Barber", "bruno@example.com")
	barber := testutil.CreateBarber(t, gdb, bu)
	sched := testutil.CreateSchedule(t, gdb, barber.ID, day)

	return &fixture{
		repo:   NewAppointmentGormRepository(gdb),
		user:   user,
		barber: barber,
		day:    day,
		slots: []*models.TimeSlot{
			testutil.CreateSlot(t, gdb, sched.ID, "09:00", "09:30"),
			testutil.CreateSlot(t, gdb, sched.ID, "09:30", "10:00"),
			testutil.CreateSlot(t, gdb, sched.ID, "10:00", "10:30"),
		},
		service: testutil.CreateService(t, gdb, "Haircut", 30, 25),
	}
}

func (f *fixture) book(t *testing.T, slotIDs ...uint) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		UserID:          f.user.ID,
		BarberID:        f.barber.ID,
		Status:          string(domain.StatusPending),
		AppointmentDate: f.day,
	}
	if err := f.repo.CreateBooking(context.Background(), ap, slotIDs, []uint{f.service.ID}); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return ap
}

func TestCreateBookingMarksSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, f.slots[0].ID, f.slots[1].ID)

	for _, s := range f.slots[:2] {
		if got := testutil.ReloadSlot(t, f.repo.db, s.ID); !got.IsBooked {
			t.Fatalf("slot %d not booked", s.ID)
		}
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[2].ID); got.IsBooked {
		t.Fatalf("untouched slot was booked")
	}

	loaded, err := f.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.TimeSlots) != 2 || len(loaded.Services) != 1 {
		t.Fatalf("expected 2 slots and 1 service, got %d / %d", len(loaded.TimeSlots), len(loaded.Services))
	}
	if loaded.TimeSlots[0].StartTime != "09:00" {
		t.Fatalf("slots not ordered by start time: %+v", loaded.TimeSlots)
	}
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, f.slots[0].ID)

	ap := &models.Appointment{
		UserID:          f.user.ID,
		BarberID:        f.barber.ID,
		Status:          string(domain.StatusPending),
		AppointmentDate: f.day,
	}
	err := f.repo.CreateBooking(ctx, ap, []uint{f.slots[1].ID, f.slots[0].ID}, []uint{f.service.ID})
	if !httperr.IsBusiness(err, httperr.CodeSlotAlreadyBooked) {
		t.Fatalf("expected slot_already_booked, got %v", err)
	}

	var count int64
	f.repo.db.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 appointment, got %d", count)
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[1].ID); got.IsBooked {
		t.Fatalf("slot flipped despite rollback")
	}
}

func TestDeleteBookingReleasesSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, f.slots[0].ID)

	ok, err := f.repo.DeleteBooking(ctx, ap.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[0].ID); got.IsBooked {
		t.Fatalf("slot not released")
	}

	var links int64
	f.repo.db.Model(&models.AppointmentTimeSlot{}).Count(&links)
	if links != 0 {
		t.Fatalf("expected no slot links, got %d", links)
	}
	f.repo.db.Model(&models.AppointmentService{}).Count(&links)
	if links != 0 {
		t.Fatalf("expected no service links, got %d", links)
	}

	if _, err := f.repo.GetAppointment(ctx, ap.ID); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}

	ok, err = f.repo.DeleteBooking(ctx, ap.ID)
	if err != nil || ok {
		t.Fatalf("second delete should report false, got ok=%v err=%v", ok, err)
	}
}

func TestUpdateBookingSwapsSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, f.slots[0].ID)

	err := f.repo.UpdateBooking(ctx, domain.BookingUpdate{
		Appointment: ap,
		FromStatus:  domain.StatusPending,
		SlotIDs:     []uint{f.slots[2].ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[0].ID); got.IsBooked {
		t.Fatalf("old slot still booked")
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[2].ID); !got.IsBooked {
		t.Fatalf("new slot not booked")
	}

	loaded, err := f.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.TimeSlots) != 1 || loaded.TimeSlots[0].ID != f.slots[2].ID {
		t.Fatalf("unexpected slots after swap: %+v", loaded.TimeSlots)
	}
}

func TestUpdateBookingFromStaleReadKeepsSlotsConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.book(t, f.slots[0].ID)

	// Both updates are built from the same read of a.
	first := *a
	stale := *a

	if err := f.repo.UpdateBooking(ctx, domain.BookingUpdate{
		Appointment: &first,
		FromStatus:  domain.StatusPending,
		SlotIDs:     []uint{f.slots[1].ID},
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// slot 0 is free again and another booking takes it.
	b := f.book(t, f.slots[0].ID)

	if err := f.repo.UpdateBooking(ctx, domain.BookingUpdate{
		Appointment: &stale,
		FromStatus:  domain.StatusPending,
		SlotIDs:     []uint{f.slots[2].ID},
	}); err != nil {
		t.Fatalf("stale update: %v", err)
	}

	loaded, err := f.repo.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if len(loaded.TimeSlots) != 1 || loaded.TimeSlots[0].ID != f.slots[2].ID {
		t.Fatalf("expected a to hold only slot 2, got %+v", loaded.TimeSlots)
	}

	other, err := f.repo.GetAppointment(ctx, b.ID)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if len(other.TimeSlots) != 1 || other.TimeSlots[0].ID != f.slots[0].ID {
		t.Fatalf("expected b to keep slot 0, got %+v", other.TimeSlots)
	}

	want := map[uint]bool{f.slots[0].ID: true, f.slots[1].ID: false, f.slots[2].ID: true}
	for id, booked := range want {
		if got := testutil.ReloadSlot(t, f.repo.db, id); got.IsBooked != booked {
			t.Fatalf("slot %d: is_booked=%v, want %v", id, got.IsBooked, booked)
		}
	}
}

func TestUpdateBookingReleaseOnlyFreesOwnSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.book(t, f.slots[0].ID)
	f.book(t, f.slots[1].ID)

	// a never held slot 1, so releasing it must not free b's slot.
	if err := releaseSlots(f.repo.db, a.ID, []uint{f.slots[1].ID}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[1].ID); !got.IsBooked {
		t.Fatalf("slot linked to another appointment was freed")
	}

	if err := f.repo.UpdateBooking(ctx, domain.BookingUpdate{
		Appointment:  a,
		FromStatus:   domain.StatusPending,
		ReleaseSlots: true,
	}); err != nil {
		t.Fatalf("cancel release: %v", err)
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[0].ID); got.IsBooked {
		t.Fatalf("own slot not released")
	}
	if got := testutil.ReloadSlot(t, f.repo.db, f.slots[1].ID); !got.IsBooked {
		t.Fatalf("release touched another appointment's slot")
	}
}

func TestUpdateBookingChecksSlotsAgainstNewBarber(t *testing.T) {
	f := newFixture(t)

	ap := f.book(t, f.slots[0].ID)

	bu := testutil.CreateUser(t, f.repo.db, "Caio", "Barber", "caio@example.com")
	other := testutil.CreateBarber(t, f.repo.db, bu)

	moved := *ap
	moved.BarberID = other.ID
	err := f.repo.UpdateBooking(context.Background(), domain.BookingUpdate{
		Appointment: &moved,
		FromStatus:  domain.StatusPending,
		CheckSlots:  true,
	})
	if !httperr.IsBusiness(err, httperr.CodeInconsistentSlots) {
		t.Fatalf("expected inconsistent_slots, got %v", err)
	}

	loaded, err := f.repo.GetAppointment(context.Background(), ap.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.BarberID != f.barber.ID {
		t.Fatalf("barber changed despite rejected update")
	}
}

func TestUpdateBookingDetectsStaleStatus(t *testing.T) {
	f := newFixture(t)

	ap := f.book(t, f.slots[0].ID)
	ap.Status = string(domain.StatusCompleted)

	err := f.repo.UpdateBooking(context.Background(), domain.BookingUpdate{
		Appointment: ap,
		FromStatus:  domain.StatusConfirmed,
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestListAppointmentsPagination(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(gdb)
	ctx := context.Background()

	user := testutil.CreateUser(t, gdb, "Ana", "", "ana@example.com")
	barber := testutil.CreateBarber(t, gdb, testutil.CreateUser(t, gdb, "Bruno", "", "bruno@example.com"))

	base := testutil.Day(2026, 1, 1)
	for i := 0; i < 25; i++ {
		ap := &models.Appointment{
			UserID:          user.ID,
			BarberID:        barber.ID,
			Status:          string(domain.StatusPending),
			AppointmentDate: base.AddDate(0, 0, i),
		}
		if err := gdb.Create(ap).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, total, err := repo.ListAppointments(ctx, domain.ListFilter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 || len(items) != 10 {
		t.Fatalf("expected 10 of 25, got %d of %d", len(items), total)
	}
	if want := base.AddDate(0, 0, 10); !domain.DateOnly(items[0].AppointmentDate).Equal(want) {
		t.Fatalf("page 2 should start at item 11 (%v), got %v", want, items[0].AppointmentDate)
	}

	today := base.AddDate(0, 0, 20)
	items, total, err = repo.ListAppointments(ctx, domain.ListFilter{Page: 1, Limit: 100, Upcoming: true, Today: today})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Fatalf("expected 5 upcoming, got %d (total %d)", len(items), total)
	}

	_, total, err = repo.ListAppointments(ctx, domain.ListFilter{Page: 1, Limit: 10, Past: true, Today: today})
	if err != nil {
		t.Fatalf("list past: %v", err)
	}
	if total != 20 {
		t.Fatalf("expected 20 past, got %d", total)
	}

	other := uint(9999)
	items, total, err = repo.ListAppointments(ctx, domain.ListFilter{Page: 1, Limit: 10, UserID: &other})
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("expected empty result for unknown user, got %d/%d %v", len(items), total, err)
	}
}

func TestListFreeSlotsAndNotificationDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, f.slots[1].ID)

	free, err := f.repo.ListFreeSlots(ctx, f.barber.ID, f.day)
	if err != nil {
		t.Fatalf("free slots: %v", err)
	}
	if len(free) != 2 || free[0].StartTime != "09:00" || free[1].StartTime != "10:00" {
		t.Fatalf("unexpected free slots %+v", free)
	}

	if free, _ := f.repo.ListFreeSlots(ctx, f.barber.ID, f.day.AddDate(0, 0, 1)); len(free) != 0 {
		t.Fatalf("expected no slots on another day, got %d", len(free))
	}

	d, err := f.repo.GetNotificationDetails(ctx, ap.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d.ClientEmail != "ana@example.com" || d.BarberName != "Bruno Barber" {
		t.Fatalf("unexpected details %+v", d)
	}
	if d.StartTime != "09:30" || len(d.ServiceNames) != 1 || d.ServiceNames[0] != "Haircut" {
		t.Fatalf("unexpected details %+v", d)
	}
}
