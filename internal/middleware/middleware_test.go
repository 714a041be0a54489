package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/identity"
)

type stubProvider struct {
	identity.Provider
	claims map[string]*identity.Claims
}

func (s stubProvider) VerifyToken(_ context.Context, token string) (*identity.Claims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, identity.ErrUnauthorized
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(idp identity.Provider) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/", Auth(idp))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	api.GET("/admin", RoleAuth("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndRoles(t *testing.T) {
	r := newRouter(stubProvider{claims: map[string]*identity.Claims{
		"client-token": {UserID: 3, Roles: []string{"client"}},
		"admin-token":  {UserID: 1, Roles: []string{"admin"}},
	}})

	tests := []struct {
		path, token string
		status      int
	}{
		{"/me", "", http.StatusUnauthorized},
		{"/me", "bogus", http.StatusUnauthorized},
		{"/me", "client-token", http.StatusOK},
		{"/admin", "client-token", http.StatusForbidden},
		{"/admin", "admin-token", http.StatusNoContent},
	}
	for _, tt := range tests {
		if w := do(r, tt.path, tt.token); w.Code != tt.status {
			t.Fatalf("%s with %q: expected %d, got %d (%s)", tt.path, tt.token, tt.status, w.Code, w.Body.String())
		}
	}

	w := do(r, "/me", "client-token")
	if body := w.Body.String(); body != `{"id":3,"role":"client"}` {
		t.Fatalf("unexpected body %s", body)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("missing request id header: %v", err)
	}
}

func TestRequestIDKeepsValidIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.Use(l.Middleware(zap.NewNop()))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if hit("10.0.0.1") != http.StatusOK || hit("10.0.0.1") != http.StatusOK {
		t.Fatalf("burst should pass")
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other client limited: %d", code)
	}

	now = now.Add(time.Second)
	if code := hit("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected refill after a second, got %d", code)
	}

	now = now.Add(time.Hour)
	hit("10.0.0.3")
	if _, ok := l.visitors["10.0.0.2"]; ok {
		t.Fatalf("idle visitor not swept")
	}
}
