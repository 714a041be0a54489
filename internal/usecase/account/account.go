// Package account keeps the users table and the identity provider in step.
// The user row is written first; a provider failure removes it again.
package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      models.Role
}

type UpdateInput struct {
	ID        uint
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Password  *string
	Role      *models.Role
	ActorID   *uint
}

type Accounts struct {
	db    *gorm.DB
	idp   identity.Provider
	audit audit.Recorder

	// emailOK is consulted on register and email change when set.
	emailOK func(string) bool
}

func New(db *gorm.DB, idp identity.Provider, rec audit.Recorder, emailOK func(string) bool) *Accounts {
	return &Accounts{db: db, idp: idp, audit: rec, emailOK: emailOK}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validRole(r models.Role) bool {
	switch r {
	case models.RoleClient, models.RoleBarber, models.RoleAdmin:
		return true
	}
	return false
}

func identityErr(err error) error {
	switch {
	case errors.Is(err, identity.ErrUserExists):
		return httperr.BusinessError{Code: httperr.CodeConflict, Ref: "email"}
	case errors.Is(err, identity.ErrUserNotFound):
		return httperr.ErrNotFound("user")
	}
	return err
}

func (a *Accounts) checkEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return httperr.ErrInvalidInput("a valid email is required")
	}
	if a.emailOK != nil && !a.emailOK(email) {
		return httperr.ErrInvalidInput("email domain does not accept mail")
	}
	return nil
}

// --------------------------------------------------
// Register
// --------------------------------------------------

func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, httperr.ErrInvalidInput("first_name is required")
	}
	if len(in.Password) < 6 {
		return nil, httperr.ErrInvalidInput("password must have at least 6 characters")
	}
	if err := a.checkEmail(email); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !validRole(in.Role) {
		return nil, httperr.ErrInvalidInput("unknown role %q", in.Role)
	}

	u := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     in.Phone,
		Role:      in.Role,
	}
	if err := a.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, httperr.FromStore(err)
	}

	err := a.idp.CreateUser(ctx, identity.Profile{
		UserID:   u.ID,
		Username: u.FullName(),
		Email:    u.Email,
		Password: in.Password,
		Role:     string(u.Role),
	})
	if err != nil {
		a.db.WithContext(context.WithoutCancel(ctx)).Delete(&models.User{}, u.ID)
		return nil, identityErr(err)
	}

	a.audit.Dispatch(audit.Event{
		UserID:   &u.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &u.ID,
	})
	return u, nil
}

// EnsureAdmin seeds the first administrator of a fresh deployment. An
// existing account with that email is promoted instead; its password is left
// untouched. It reports whether a new account was created.
func (a *Accounts) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)

	var u models.User
	err := a.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := a.Register(ctx, RegisterInput{
			FirstName: "Admin",
			Email:     email,
			Password:  password,
			Role:      models.RoleAdmin,
		}); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, httperr.FromStore(err)
	}

	if u.Role == models.RoleAdmin {
		return false, nil
	}
	role := models.RoleAdmin
	if _, err := a.Update(ctx, UpdateInput{ID: u.ID, Role: &role}); err != nil {
		return false, err
	}
	return false, nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (a *Accounts) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := a.db.WithContext(ctx).Preload("Barber").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("user")
		}
		return nil, httperr.FromStore(err)
	}
	return &u, nil
}

type ListFilter struct {
	Page  int
	Limit int
	Role  string
	// Query matches name, email or phone.
	Query string
}

func (a *Accounts) List(ctx context.Context, f ListFilter) ([]models.User, int64, error) {
	q := a.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, httperr.FromStore(err)
	}

	var users []models.User
	if err := q.Order("id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, httperr.FromStore(err)
	}
	return users, total, nil
}

// --------------------------------------------------
// Update / Delete
// --------------------------------------------------

func (a *Accounts) Update(ctx context.Context, in UpdateInput) (*models.User, error) {
	u, err := a.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	profile := identity.Profile{UserID: u.ID}
	previous := identity.Profile{
		UserID:   u.ID,
		Username: u.FullName(),
		Email:    u.Email,
		Role:     string(u.Role),
	}

	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, httperr.ErrInvalidInput("first_name must not be empty")
		}
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := a.checkEmail(email); err != nil {
			return nil, err
		}
		u.Email = email
		profile.Email = email
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, httperr.ErrInvalidInput("unknown role %q", *in.Role)
		}
		u.Role = *in.Role
		profile.Role = string(*in.Role)
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, httperr.ErrInvalidInput("password must have at least 6 characters")
		}
		profile.Password = *in.Password
	}
	if in.FirstName != nil || in.LastName != nil {
		profile.Username = u.FullName()
	}

	if err := a.idp.UpdateUser(ctx, profile); err != nil {
		return nil, identityErr(err)
	}

	if err := a.db.WithContext(ctx).Model(u).
		Select("first_name", "last_name", "email", "phone", "role").
		Updates(u).Error; err != nil {
		// Put the provider back; a changed password cannot be restored.
		_ = a.idp.UpdateUser(context.WithoutCancel(ctx), previous)
		return nil, httperr.FromStore(err)
	}

	a.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &u.ID,
	})
	return u, nil
}

func (a *Accounts) Delete(ctx context.Context, id uint, actorID *uint) error {
	res := a.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return httperr.FromStore(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("user")
	}

	if err := a.idp.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return err
	}

	a.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &id,
	})
	return nil
}
