package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func orderedSlots(db *gorm.DB) *gorm.DB {
	return db.Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
		return db.Order("time_slots.start_time ASC")
	})
}

func (r *ScheduleGormRepository) BarberExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, storeErr("barber lookup", err)
	}
	return n > 0, nil
}

func (r *ScheduleGormRepository) Create(ctx context.Context, s *models.Schedule) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return storeErr("create schedule", err)
	}
	return nil
}

func (r *ScheduleGormRepository) Get(ctx context.Context, id uint) (*models.Schedule, error) {
	var s models.Schedule
	if err := orderedSlots(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("schedule")
		}
		return nil, storeErr("get schedule", err)
	}
	return &s, nil
}

func scheduleFilter(db *gorm.DB, f schedule.ListFilter) *gorm.DB {
	db = db.Model(&models.Schedule{})
	if f.BarberID != nil {
		db = db.Where("barber_id = ?", *f.BarberID)
	}
	if f.Upcoming {
		db = db.Where("date >= ?", f.Today.Format(dateLayout))
	}
	if f.Past {
		db = db.Where("date < ?", f.Today.Format(dateLayout))
	}
	return db
}

func (r *ScheduleGormRepository) List(
	ctx context.Context,
	f schedule.ListFilter,
) ([]models.Schedule, int64, error) {

	var total int64
	if err := scheduleFilter(r.db.WithContext(ctx), f).Count(&total).Error; err != nil {
		return nil, 0, storeErr("count schedules", err)
	}

	out := []models.Schedule{}
	if total == 0 {
		return out, 0, nil
	}

	if err := orderedSlots(scheduleFilter(r.db.WithContext(ctx), f)).
		Order("date ASC").
		Order("id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, storeErr("list schedules", err)
	}
	return out, total, nil
}

func (r *ScheduleGormRepository) SetWorking(ctx context.Context, id uint, working bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", id).
		Update("is_working", working)
	if res.Error != nil {
		return storeErr("update schedule", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("schedule")
	}
	return nil
}

func (r *ScheduleGormRepository) AddSlots(
	ctx context.Context,
	scheduleID uint,
	slots []models.TimeSlot,
) error {
	for i := range slots {
		slots[i].ScheduleID = scheduleID
	}
	if err := r.db.WithContext(ctx).Create(&slots).Error; err != nil {
		return storeErr("add slots", err)
	}
	return nil
}

func (r *ScheduleGormRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Schedule
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var booked int64
		if err := tx.Model(&models.TimeSlot{}).
			Where("schedule_id = ? AND is_booked = ?", id, true).
			Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return httperr.ErrInvalidState("schedule has booked time slots")
		}

		if err := tx.Where("schedule_id = ?", id).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Schedule{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, storeErr("delete schedule", err)
	}
	return deleted, nil
}

var _ schedule.Repository = (*ScheduleGormRepository)(nil)
