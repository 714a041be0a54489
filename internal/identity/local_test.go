package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func newProvider(t *testing.T) *LocalProvider {
	t.Helper()
	gdb := testutil.NewDB(t)
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewLocalProvider(gdb, "test-secret", time.Hour, nil, time.Minute)
}

func TestAuthenticateAndVerify(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	err := p.CreateUser(ctx, Profile{UserID: 7, Username: "Ana Client", Email: " Ana@Example.com ", Password: "s3cret!", Role: "client"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := p.CreateUser(ctx, Profile{UserID: 8, Email: "ana@example.com", Password: "x", Role: "client"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := p.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	token, err := p.Authenticate(ctx, "ANA@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	claims, err := p.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ana@example.com" || !claims.HasRole("client") {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if err := p.UpdateUser(ctx, Profile{UserID: 7, Role: "admin"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	claims, err = p.VerifyToken(ctx, token)
	if err != nil || !claims.HasRole("admin") {
		t.Fatalf("role change not visible: %+v %v", claims, err)
	}

	if err := p.DeleteUser(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.VerifyToken(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted user's token must be rejected, got %v", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	if err := p.CreateUser(ctx, Profile{UserID: 1, Email: "a@example.com", Password: "pw", Role: "client"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, err := p.Authenticate(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	other := NewLocalProvider(p.db, "other-secret", time.Hour, nil, time.Minute)
	if _, err := other.VerifyToken(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected signature failure, got %v", err)
	}

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := p.VerifyToken(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expiry failure, got %v", err)
	}

	if _, err := p.VerifyToken(ctx, "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected malformed failure, got %v", err)
	}
}
