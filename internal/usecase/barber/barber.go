// Package barber manages barber profiles: promotion of an existing user,
// bio updates and the profile photo.
package barber

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/imageproc"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
)

// ErrStorageDisabled is returned by UploadPhoto when no object store is configured.
var ErrStorageDisabled = errors.New("barber: photo storage not configured")

type Barbers struct {
	db    *gorm.DB
	idp   identity.Provider
	store storage.ObjectStore
	audit audit.Recorder
	log   *zap.Logger
}

// New accepts a nil store; photo uploads are then refused.
func New(db *gorm.DB, idp identity.Provider, store storage.ObjectStore, rec audit.Recorder, log *zap.Logger) *Barbers {
	return &Barbers{db: db, idp: idp, store: store, audit: rec, log: log}
}

func (b *Barbers) Get(ctx context.Context, id uint) (*models.Barber, error) {
	var out models.Barber
	if err := b.db.WithContext(ctx).Preload("User").First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("barber")
		}
		return nil, httperr.FromStore(err)
	}
	return &out, nil
}

// ByUser returns the profile owned by userID.
func (b *Barbers) ByUser(ctx context.Context, userID uint) (*models.Barber, error) {
	var out models.Barber
	if err := b.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("barber")
		}
		return nil, httperr.FromStore(err)
	}
	return &out, nil
}

func (b *Barbers) List(ctx context.Context) ([]models.Barber, error) {
	out := []models.Barber{}
	if err := b.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, httperr.FromStore(err)
	}
	return out, nil
}

// ======================================================
// CREATE
// ======================================================

// Create promotes userID to barber and opens its profile.
func (b *Barbers) Create(ctx context.Context, userID uint, bio string, actorID *uint) (*models.Barber, error) {
	var user models.User
	if err := b.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrInvalidReference("user")
		}
		return nil, httperr.FromStore(err)
	}

	out := &models.Barber{UserID: userID, Bio: bio}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(out).Error; err != nil {
			return err
		}
		if user.Role == models.RoleClient {
			return tx.Model(&user).Update("role", models.RoleBarber).Error
		}
		return nil
	})
	if err != nil {
		return nil, httperr.FromStore(err)
	}

	if user.Role == models.RoleClient {
		if err := b.idp.UpdateUser(ctx, identity.Profile{UserID: userID, Role: string(models.RoleBarber)}); err != nil {
			b.log.Warn("barber role not mirrored to identity", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	b.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &out.ID,
	})
	return b.Get(ctx, out.ID)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (b *Barbers) UpdateBio(ctx context.Context, id uint, bio string, actorID *uint) (*models.Barber, error) {
	res := b.db.WithContext(ctx).Model(&models.Barber{}).Where("id = ?", id).Update("bio", bio)
	if res.Error != nil {
		return nil, httperr.FromStore(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrNotFound("barber")
	}

	b.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &id,
	})
	return b.Get(ctx, id)
}

// Delete removes the profile and demotes the user back to client. Barbers
// with appointments keep their profile.
func (b *Barbers) Delete(ctx context.Context, id uint, actorID *uint) error {
	current, err := b.Get(ctx, id)
	if err != nil {
		return err
	}

	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Appointment{}).Where("barber_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return httperr.ErrInvalidState("barber has appointments")
		}
		if err := tx.Where("schedule_id IN (?)",
			tx.Model(&models.Schedule{}).Select("id").Where("barber_id = ?", id),
		).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("barber_id = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Barber{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", current.UserID, models.RoleBarber).
			Update("role", models.RoleClient).Error
	})
	if err != nil {
		return httperr.FromStore(err)
	}

	if current.User != nil && current.User.Role == models.RoleBarber {
		if err := b.idp.UpdateUser(ctx, identity.Profile{UserID: current.UserID, Role: string(models.RoleClient)}); err != nil {
			b.log.Warn("barber demotion not mirrored to identity", zap.Uint("user_id", current.UserID), zap.Error(err))
		}
	}
	b.deleteObject(ctx, current.PhotoURL)

	b.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "barber_deleted",
		Entity:   "barber",
		EntityID: &id,
	})
	return nil
}

// ======================================================
// PHOTO
// ======================================================

// UploadPhoto normalises the image to a webp thumbnail, stores it and
// replaces the previous photo.
func (b *Barbers) UploadPhoto(ctx context.Context, id uint, r io.Reader, actorID *uint) (*models.Barber, error) {
	if b.store == nil {
		return nil, ErrStorageDisabled
	}

	current, err := b.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := imageproc.ToWebP(r, imageproc.DefaultMaxSide)
	if err != nil {
		if errors.Is(err, imageproc.ErrUnsupported) {
			return nil, httperr.ErrInvalidInput("photo must be a jpeg, png or webp image")
		}
		return nil, err
	}

	key := fmt.Sprintf("barbers/%d/%s.webp", id, uuid.NewString())
	url, err := b.store.Put(ctx, key, "image/webp", body)
	if err != nil {
		return nil, err
	}

	if err := b.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Update("photo_url", url).Error; err != nil {
		_ = b.store.Delete(context.WithoutCancel(ctx), key)
		return nil, httperr.FromStore(err)
	}
	b.deleteObject(ctx, current.PhotoURL)

	b.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "barber_photo_uploaded",
		Entity:   "barber",
		EntityID: &id,
		Metadata: map[string]any{"key": key},
	})
	return b.Get(ctx, id)
}

type keyResolver interface {
	KeyFromURL(url string) (string, bool)
}

func (b *Barbers) deleteObject(ctx context.Context, url string) {
	if url == "" || b.store == nil {
		return
	}
	resolver, ok := b.store.(keyResolver)
	if !ok {
		return
	}
	key, ok := resolver.KeyFromURL(url)
	if !ok {
		return
	}
	if err := b.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		b.log.Warn("old barber photo not deleted", zap.String("key", key), zap.Error(err))
	}
}
