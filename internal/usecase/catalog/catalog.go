// Package catalog serves the list of bookable services. The active list is
// read through the cache and dropped on every write.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const activeKey = "catalog:services:active"

const (
	SortDefault   = ""
	SortName      = "name"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type Filter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string

	// IncludeInactive bypasses the cache.
	IncludeInactive bool
}

type ServiceInput struct {
	Name        *string
	Description *string
	DurationMin *int
	Price       *float64
	Active      *bool
	ActorID     *uint
}

type Catalog struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
	audit audit.Recorder
	log   *zap.Logger
}

func New(db *gorm.DB, c cache.Cache, ttl time.Duration, rec audit.Recorder, log *zap.Logger) *Catalog {
	return &Catalog{db: db, cache: c, ttl: ttl, audit: rec, log: log}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (c *Catalog) List(ctx context.Context, f Filter) ([]models.Service, error) {
	switch f.Sort {
	case SortDefault, SortName, SortPriceAsc, SortPriceDesc:
	default:
		return nil, httperr.ErrInvalidInput("unknown sort %q", f.Sort)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, httperr.ErrInvalidInput("min_price is greater than max_price")
	}

	var (
		all []models.Service
		err error
	)
	if f.IncludeInactive {
		err = c.db.WithContext(ctx).Order("id ASC").Find(&all).Error
		if err != nil {
			return nil, httperr.FromStore(err)
		}
	} else {
		all, err = c.active(ctx)
		if err != nil {
			return nil, err
		}
	}

	return apply(all, f), nil
}

func (c *Catalog) active(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	hit, err := cache.GetJSON(ctx, c.cache, "catalog", activeKey, &out)
	if err != nil {
		c.log.Warn("catalog cache read failed", zap.Error(err))
	}
	if hit {
		return out, nil
	}

	out = []models.Service{}
	if err := c.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, httperr.FromStore(err)
	}

	if err := cache.SetJSON(ctx, c.cache, activeKey, out, c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", zap.Error(err))
	}
	return out, nil
}

func apply(in []models.Service, f Filter) []models.Service {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Service, 0, len(in))
	for _, s := range in {
		if q != "" &&
			!strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		out = append(out, s)
	}

	switch f.Sort {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func (c *Catalog) Get(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := c.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service")
		}
		return nil, httperr.FromStore(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func validate(s *models.Service) error {
	if strings.TrimSpace(s.Name) == "" {
		return httperr.ErrInvalidInput("name is required")
	}
	if s.DurationMin < 1 {
		return httperr.ErrInvalidInput("duration_min must be at least 1")
	}
	if s.Price < 0 {
		return httperr.ErrInvalidInput("price must not be negative")
	}
	return nil
}

func (c *Catalog) invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, activeKey); err != nil {
		c.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (c *Catalog) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	s := &models.Service{Active: true}
	merge(s, in)
	if err := validate(s); err != nil {
		return nil, err
	}

	if err := c.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, httperr.FromStore(err)
	}
	// The column default swallows an explicit false on insert.
	if !s.Active {
		if err := c.db.WithContext(ctx).Model(s).Update("active", false).Error; err != nil {
			return nil, httperr.FromStore(err)
		}
	}
	c.invalidate(ctx)

	c.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &s.ID,
	})
	return s, nil
}

func (c *Catalog) Update(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	s, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merge(s, in)
	if err := validate(s); err != nil {
		return nil, err
	}

	if err := c.db.WithContext(ctx).Model(s).
		Select("name", "description", "duration_min", "price", "active").
		Updates(s).Error; err != nil {
		return nil, httperr.FromStore(err)
	}
	c.invalidate(ctx)

	c.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &s.ID,
	})
	return s, nil
}

// Delete refuses services referenced by an appointment; deactivate those.
func (c *Catalog) Delete(ctx context.Context, id uint, actorID *uint) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.AppointmentService{}).
			Where("service_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return httperr.ErrInvalidState("service is referenced by appointments")
		}

		res := tx.Delete(&models.Service{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrNotFound("service")
		}
		return nil
	})
	if err != nil {
		return httperr.FromStore(err)
	}
	c.invalidate(ctx)

	c.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &id,
	})
	return nil
}

func merge(s *models.Service, in ServiceInput) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.DurationMin != nil {
		s.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
}
