// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// NewDB returns a migrated in-memory sqlite store private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open("sqlite", ":memory:", false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func CreateUser(t *testing.T, gdb *gorm.DB, first, last, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: last, Email: email, Role: models.RoleClient}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateBarber(t *testing.T, gdb *gorm.DB, user *models.User) *models.Barber {
	t.Helper()
	b := &models.Barber{UserID: user.ID}
	if err := gdb.Create(b).Error; err != nil {
		t.Fatalf("create barber: %v", err)
	}
	if err := gdb.Model(user).Update("role", models.RoleBarber).Error; err != nil {
		t.Fatalf("promote barber: %v", err)
	}
	return b
}

func CreateSchedule(t *testing.T, gdb *gorm.DB, barberID uint, date time.Time) *models.Schedule {
	t.Helper()
	s := &models.Schedule{BarberID: barberID, Date: date, IsWorking: true}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return s
}

func CreateSlot(t *testing.T, gdb *gorm.DB, scheduleID uint, start, end string) *models.TimeSlot {
	t.Helper()
	s := &models.TimeSlot{ScheduleID: scheduleID, StartTime: start, EndTime: end}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return s
}

func CreateService(t *testing.T, gdb *gorm.DB, name string, minutes int, price float64) *models.Service {
	t.Helper()
	s := &models.Service{Name: name, DurationMin: minutes, Price: price, Active: true}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

func ReloadSlot(t *testing.T, gdb *gorm.DB, id uint) models.TimeSlot {
	t.Helper()
	var s models.TimeSlot
	if err := gdb.First(&s, id).Error; err != nil {
		t.Fatalf("reload slot %d: %v", id, err)
	}
	return s
}
