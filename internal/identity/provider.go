// Package identity authenticates users and issues the bearer tokens the API
// accepts. Handlers and middleware are its only consumers.
package identity

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized = errors.New("identity: unauthorized")
	ErrUserExists   = errors.New("identity: user already exists")
	ErrUserNotFound = errors.New("identity: user not found")
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func (c *Claims) HasRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Profile carries the account fields the provider stores. An empty Password
// on update keeps the current one.
type Profile struct {
	UserID   uint
	Username string
	Email    string
	Password string
	Role     string
}

type Provider interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, token string) (*Claims, error)
	CreateUser(ctx context.Context, p Profile) error
	UpdateUser(ctx context.Context, p Profile) error
	DeleteUser(ctx context.Context, userID uint) error
}
