package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const dateLayout = "2006-01-02"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return httperr.FromStore(fmt.Errorf("%s: %w", op, err))
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AppointmentGormRepository) UserExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, storeErr("user lookup", err)
	}
	return n > 0, nil
}

func (r *AppointmentGormRepository) BarberExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, storeErr("barber lookup", err)
	}
	return n > 0, nil
}

func (r *AppointmentGormRepository) GetSlots(
	ctx context.Context,
	ids []uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Preload("Schedule").
		Where("id IN ?", ids).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, storeErr("time slot lookup", err)
	}
	return slots, nil
}

func (r *AppointmentGormRepository) CountServices(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id IN ?", ids).
		Count(&n).Error; err != nil {
		return 0, storeErr("service lookup", err)
	}
	return n, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

// bookSlots locks the slot rows, flips is_booked only where it is still false
// and links the slots to the appointment. Any slot taken in the meantime
// aborts the transaction.
func bookSlots(tx *gorm.DB, appointmentID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var locked []uint
	if err := tx.Model(&models.TimeSlot{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &locked).Error; err != nil {
		return err
	}

	res := tx.Model(&models.TimeSlot{}).
		Where("id IN ? AND is_booked = ?", ids, false).
		Update("is_booked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return httperr.ErrSlotAlreadyBooked()
	}

	links := make([]models.AppointmentTimeSlot, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.AppointmentTimeSlot{
			AppointmentID: appointmentID,
			TimeSlotID:    id,
		})
	}
	if err := tx.Create(&links).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrSlotAlreadyBooked()
		}
		return err
	}
	return nil
}

// releaseSlots unlinks ids from the appointment and frees only the slots that
// were actually linked to it.
func releaseSlots(tx *gorm.DB, appointmentID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	var linked []uint
	if err := tx.Model(&models.AppointmentTimeSlot{}).
		Where("appointment_id = ? AND time_slot_id IN ?", appointmentID, ids).
		Pluck("time_slot_id", &linked).Error; err != nil {
		return err
	}
	if len(linked) == 0 {
		return nil
	}

	if err := tx.
		Where("appointment_id = ? AND time_slot_id IN ?", appointmentID, linked).
		Delete(&models.AppointmentTimeSlot{}).Error; err != nil {
		return err
	}

	return tx.Model(&models.TimeSlot{}).
		Where("id IN ?", linked).
		Update("is_booked", false).Error
}

// linkedSlots loads the slots of an appointment with their schedules.
func linkedSlots(tx *gorm.DB, appointmentID uint) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := tx.
		Preload("Schedule").
		Where("id IN (?)", tx.Model(&models.AppointmentTimeSlot{}).
			Select("time_slot_id").
			Where("appointment_id = ?", appointmentID)).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func linkServices(tx *gorm.DB, appointmentID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	links := make([]models.AppointmentService, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.AppointmentService{
			AppointmentID: appointmentID,
			ServiceID:     id,
		})
	}
	return tx.Create(&links).Error
}

func slotIDsOf(tx *gorm.DB, appointmentID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.AppointmentTimeSlot{}).
		Where("appointment_id = ?", appointmentID).
		Pluck("time_slot_id", &ids).Error
	return ids, err
}

func (r *AppointmentGormRepository) CreateBooking(
	ctx context.Context,
	ap *models.Appointment,
	slotIDs []uint,
	serviceIDs []uint,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			return err
		}
		if err := bookSlots(tx, ap.ID, slotIDs); err != nil {
			return err
		}
		return linkServices(tx, ap.ID, serviceIDs)
	})
	if err != nil {
		ap.ID = 0
		return storeErr("create booking", err)
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateBooking(
	ctx context.Context,
	in domain.BookingUpdate,
) error {

	ap := in.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&cur, ap.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound("appointment")
			}
			return err
		}
		if domain.Status(cur.Status) != in.FromStatus {
			return httperr.ErrInvalidState("appointment was modified concurrently")
		}

		linked, err := slotIDsOf(tx, ap.ID)
		if err != nil {
			return err
		}
		switch {
		case in.ReleaseSlots:
			if err := releaseSlots(tx, ap.ID, linked); err != nil {
				return err
			}
		case in.SlotIDs != nil:
			release, book := domain.SlotDiff(linked, in.SlotIDs)
			if err := releaseSlots(tx, ap.ID, release); err != nil {
				return err
			}
			if err := bookSlots(tx, ap.ID, book); err != nil {
				return err
			}
		}

		if in.CheckSlots && !in.ReleaseSlots {
			slots, err := linkedSlots(tx, ap.ID)
			if err != nil {
				return err
			}
			if len(slots) > 0 {
				date, err := domain.BookingDate(ap.BarberID, slots)
				if err != nil {
					return err
				}
				ap.AppointmentDate = date
			}
		}

		if in.ReplaceServices {
			if err := tx.
				Where("appointment_id = ?", ap.ID).
				Delete(&models.AppointmentService{}).Error; err != nil {
				return err
			}
			if err := linkServices(tx, ap.ID, in.ServiceIDs); err != nil {
				return err
			}
		}

		return tx.Model(ap).
			Omit(clause.Associations).
			Select(
				"user_id", "barber_id", "status", "notes",
				"appointment_date", "cancelled_at", "completed_at",
			).
			Updates(ap).Error
	})

	return storeErr("update booking", err)
}

func (r *AppointmentGormRepository) DeleteBooking(ctx context.Context, id uint) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&ap, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		ids, err := slotIDsOf(tx, id)
		if err != nil {
			return err
		}
		if err := releaseSlots(tx, id, ids); err != nil {
			return err
		}
		if err := tx.
			Where("appointment_id = ?", id).
			Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Appointment{}, id).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, storeErr("delete booking", err)
	}
	return deleted, nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func withBookingDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
			return db.Order("time_slots.start_time ASC")
		}).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("services.id ASC")
		})
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := withBookingDetails(r.db.WithContext(ctx)).
		First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment")
		}
		return nil, storeErr("get appointment", err)
	}
	return &ap, nil
}

// Dates are compared as YYYY-MM-DD so the same predicate works against a
// postgres date column and sqlite's text timestamps.
func appointmentFilter(db *gorm.DB, f domain.ListFilter) *gorm.DB {
	db = db.Model(&models.Appointment{})
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.BarberID != nil {
		db = db.Where("barber_id = ?", *f.BarberID)
	}
	if f.Upcoming {
		db = db.Where("appointment_date >= ?", f.Today.Format(dateLayout))
	}
	if f.Past {
		db = db.Where("appointment_date < ?", f.Today.Format(dateLayout))
	}
	return db
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	var total int64
	if err := appointmentFilter(r.db.WithContext(ctx), f).
		Count(&total).Error; err != nil {
		return nil, 0, storeErr("count appointments", err)
	}

	apps := []models.Appointment{}
	if total == 0 {
		return apps, 0, nil
	}

	if err := withBookingDetails(appointmentFilter(r.db.WithContext(ctx), f)).
		Order("appointment_date ASC").
		Order("id ASC").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&apps).Error; err != nil {
		return nil, 0, storeErr("list appointments", err)
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) GetNotificationDetails(
	ctx context.Context,
	appointmentID uint,
) (*domain.NotificationDetails, error) {

	var ap models.Appointment
	if err := withBookingDetails(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Barber.User").
		First(&ap, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment")
		}
		return nil, storeErr("load notification details", err)
	}

	out := &domain.NotificationDetails{
		AppointmentID: ap.ID,
		Date:          ap.AppointmentDate,
		StartTime:     domain.EarliestStart(ap.TimeSlots),
	}
	if ap.User != nil {
		out.ClientFirstName = ap.User.FirstName
		out.ClientName = ap.User.FullName()
		out.ClientEmail = ap.User.Email
	}
	if ap.Barber != nil && ap.Barber.User != nil {
		out.BarberFirstName = ap.Barber.User.FirstName
		out.BarberName = ap.Barber.User.FullName()
		out.BarberEmail = ap.Barber.User.Email
	}
	for _, s := range ap.Services {
		out.ServiceNames = append(out.ServiceNames, s.Name)
	}

	return out, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListFreeSlots(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]models.TimeSlot, error) {

	day := domain.DateOnly(date)

	slots := []models.TimeSlot{}
	if err := r.db.WithContext(ctx).
		Joins("JOIN schedules ON schedules.id = time_slots.schedule_id").
		Where("schedules.barber_id = ? AND schedules.is_working = ?", barberID, true).
		Where("schedules.date >= ? AND schedules.date < ?",
			day.Format(dateLayout),
			day.AddDate(0, 0, 1).Format(dateLayout),
		).
		Where("time_slots.is_booked = ?", false).
		Order("time_slots.start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, storeErr("list free slots", err)
	}

	return slots, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
