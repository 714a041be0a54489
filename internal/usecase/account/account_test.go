package account

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func newAccounts(t *testing.T, emailOK func(string) bool) (*Accounts, *identity.LocalProvider) {
	t.Helper()
	gdb := testutil.NewDB(t)
	if err := identity.Migrate(gdb); err != nil {
		t.Fatalf("migrate identity: %v", err)
	}
	idp := identity.NewLocalProvider(gdb, "secret", time.Hour, nil, time.Minute)
	return New(gdb, idp, audit.Discard{}, emailOK), idp
}

func TestRegisterCreatesUserAndCredential(t *testing.T) {
	accounts, idp := newAccounts(t, nil)
	ctx := context.Background()

	u, err := accounts.Register(ctx, RegisterInput{
		FirstName: "Ana", LastName: "Silva", Email: " Ana@Shop.test ", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != models.RoleClient || u.Email != "ana@shop.test" {
		t.Fatalf("unexpected user %+v", u)
	}

	token, err := idp.Authenticate(ctx, "ana@shop.test", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	claims, err := idp.VerifyToken(ctx, token)
	if err != nil || claims.UserID != u.ID || claims.Username != "Ana Silva" {
		t.Fatalf("unexpected claims %+v %v", claims, err)
	}

	_, err = accounts.Register(ctx, RegisterInput{FirstName: "Other", Email: "ana@shop.test", Password: "secret2"})
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	accounts, _ := newAccounts(t, func(email string) bool { return email != "x@nowhere.test" })
	ctx := context.Background()

	cases := []RegisterInput{
		{FirstName: "", Email: "a@b.test", Password: "secret1"},
		{FirstName: "A", Email: "not-an-email", Password: "secret1"},
		{FirstName: "A", Email: "a@b.test", Password: "123"},
		{FirstName: "A", Email: "a@b.test", Password: "secret1", Role: "owner"},
		{FirstName: "A", Email: "x@nowhere.test", Password: "secret1"},
	}
	for i, in := range cases {
		if _, err := accounts.Register(ctx, in); !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
			t.Fatalf("case %d: expected invalid_input, got %v", i, err)
		}
	}
}

func TestUpdateMirrorsIdentity(t *testing.T) {
	accounts, idp := newAccounts(t, nil)
	ctx := context.Background()

	u, err := accounts.Register(ctx, RegisterInput{FirstName: "Bo", Email: "bo@shop.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	email := "bo@new.test"
	role := models.RoleAdmin
	password := "changed1"
	if _, err := accounts.Update(ctx, UpdateInput{ID: u.ID, Email: &email, Role: &role, Password: &password}); err != nil {
		t.Fatalf("update: %v", err)
	}

	token, err := idp.Authenticate(ctx, "bo@new.test", "changed1")
	if err != nil {
		t.Fatalf("authenticate after update: %v", err)
	}
	claims, err := idp.VerifyToken(ctx, token)
	if err != nil || !claims.HasRole("admin") {
		t.Fatalf("role not mirrored: %+v %v", claims, err)
	}

	got, err := accounts.Get(ctx, u.ID)
	if err != nil || got.Email != "bo@new.test" || got.Role != models.RoleAdmin {
		t.Fatalf("row not updated: %+v %v", got, err)
	}
}

func TestDeleteRemovesCredential(t *testing.T) {
	accounts, idp := newAccounts(t, nil)
	ctx := context.Background()

	u, err := accounts.Register(ctx, RegisterInput{FirstName: "Cy", Email: "cy@shop.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := idp.Authenticate(ctx, "cy@shop.test", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if err := accounts.Delete(ctx, u.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := idp.VerifyToken(ctx, token); err == nil {
		t.Fatalf("token of deleted user must not verify")
	}
	if err := accounts.Delete(ctx, u.ID, nil); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestList(t *testing.T) {
	accounts, _ := newAccounts(t, nil)
	ctx := context.Background()

	for _, email := range []string{"a@x.test", "b@x.test", "c@x.test"} {
		if _, err := accounts.Register(ctx, RegisterInput{FirstName: "U", Email: email, Password: "secret1"}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	users, total, err := accounts.List(ctx, ListFilter{Page: 2, Limit: 2, Role: "client"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(users) != 1 || users[0].Email != "c@x.test" {
		t.Fatalf("unexpected page %v total %d", users, total)
	}

	users, total, err = accounts.List(ctx, ListFilter{Page: 1, Limit: 10, Query: "B@X"})
	if err != nil || total != 1 || users[0].Email != "b@x.test" {
		t.Fatalf("unexpected search result %v %d %v", users, total, err)
	}
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	accounts, idp := newAccounts(t, nil)
	ctx := context.Background()

	created, err := accounts.EnsureAdmin(ctx, "Root@Shop.test", "admin123")
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	created, err = accounts.EnsureAdmin(ctx, "root@shop.test", "other123")
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}

	// The first password stays valid.
	token, err := idp.Authenticate(ctx, "root@shop.test", "admin123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	claims, err := idp.VerifyToken(ctx, token)
	if err != nil || !claims.HasRole(string(models.RoleAdmin)) {
		t.Fatalf("expected admin claims, got %+v %v", claims, err)
	}
}

func TestEnsureAdminPromotesExistingUser(t *testing.T) {
	accounts, idp := newAccounts(t, nil)
	ctx := context.Background()

	u, err := accounts.Register(ctx, RegisterInput{FirstName: "Ana", Email: "ana@shop.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	created, err := accounts.EnsureAdmin(ctx, "ana@shop.test", "ignored1")
	if err != nil || created {
		t.Fatalf("promote: created=%v err=%v", created, err)
	}

	got, err := accounts.Get(ctx, u.ID)
	if err != nil || got.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %+v %v", got, err)
	}
	token, err := idp.Authenticate(ctx, "ana@shop.test", "secret1")
	if err != nil {
		t.Fatalf("password changed by promotion: %v", err)
	}
	if claims, err := idp.VerifyToken(ctx, token); err != nil || !claims.HasRole(string(models.RoleAdmin)) {
		t.Fatalf("identity role not mirrored: %+v %v", claims, err)
	}
}
