package barber

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func setup(t *testing.T, store storage.ObjectStore) (*Barbers, *identity.LocalProvider, *models.User) {
	t.Helper()
	gdb := testutil.NewDB(t)
	if err := identity.Migrate(gdb); err != nil {
		t.Fatalf("migrate identity: %v", err)
	}
	idp := identity.NewLocalProvider(gdb, "secret", time.Hour, nil, time.Minute)

	u := testutil.CreateUser(t, gdb, "Bob", "Fade", "bob@shop.test")
	if err := idp.CreateUser(context.Background(), identity.Profile{UserID: u.ID, Email: u.Email, Password: "secret1", Role: "client"}); err != nil {
		t.Fatalf("credential: %v", err)
	}
	return New(gdb, idp, store, audit.Discard{}, zap.NewNop()), idp, u
}

func TestCreatePromotesUser(t *testing.T) {
	barbers, idp, u := setup(t, nil)
	ctx := context.Background()

	b, err := barbers.Create(ctx, u.ID, "Classic cuts", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.User == nil || b.User.Role != models.RoleBarber {
		t.Fatalf("user not promoted: %+v", b.User)
	}

	token, _ := idp.Authenticate(ctx, "bob@shop.test", "secret1")
	claims, err := idp.VerifyToken(ctx, token)
	if err != nil || !claims.HasRole("barber") {
		t.Fatalf("role not mirrored: %+v %v", claims, err)
	}

	if _, err := barbers.Create(ctx, u.ID, "", nil); !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("expected conflict for second profile, got %v", err)
	}
	if _, err := barbers.Create(ctx, 999, "", nil); !httperr.IsBusiness(err, httperr.CodeInvalidReference) {
		t.Fatalf("expected invalid_reference, got %v", err)
	}

	if err := barbers.Delete(ctx, b.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := barbers.Get(ctx, b.ID); !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestUploadPhotoReplacesPrevious(t *testing.T) {
	store := storage.NewMemoryStore()
	barbers, _, u := setup(t, store)
	ctx := context.Background()

	b, err := barbers.Create(ctx, u.ID, "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 800, 800))); err != nil {
		t.Fatalf("png: %v", err)
	}
	raw := buf.Bytes()

	first, err := barbers.UploadPhoto(ctx, b.ID, bytes.NewReader(raw), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(first.PhotoURL, "memory://barbers/") || !strings.HasSuffix(first.PhotoURL, ".webp") {
		t.Fatalf("unexpected url %s", first.PhotoURL)
	}

	second, err := barbers.UploadPhoto(ctx, b.ID, bytes.NewReader(raw), nil)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.PhotoURL == first.PhotoURL {
		t.Fatalf("expected a fresh object key")
	}
	if len(store.Objects) != 1 {
		t.Fatalf("expected previous photo deleted, have %d objects", len(store.Objects))
	}

	if _, err := barbers.UploadPhoto(ctx, b.ID, strings.NewReader("nope"), nil); !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestUploadPhotoWithoutStore(t *testing.T) {
	barbers, _, u := setup(t, nil)
	b, err := barbers.Create(context.Background(), u.ID, "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := barbers.UploadPhoto(context.Background(), b.ID, strings.NewReader(""), nil); !errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}
