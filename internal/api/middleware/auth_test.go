package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/auth"
)

type mockUserRepo struct {
	findByPrefixFn func(ctx context.Context, prefix string) ([]auth.User, error)
}

func (m *mockUserRepo) Create(_ context.Context, user *auth.User) error {
	user.ID = uuid.New()
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(ctx context.Context, prefix string) ([]auth.User, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	return []auth.User{}, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]auth.User, error) { return []auth.User{}, nil }
func (m *mockUserRepo) Revoke(_ context.Context, _ uuid.UUID) error { return nil }
func (m *mockUserRepo) CountAll(_ context.Context) (int, error)     { return 0, nil }

func captureIdentity(t *testing.T) (http.Handler, func() *auth.Identity) {
	t.Helper()
	var captured *auth.Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, func() *auth.Identity { return captured }
}

func TestAuth_MissingKey(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, bcrypt.MinCost)
	next, _ := captureIdentity(t)
	handler := middleware.Auth(svc)(next)

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidKey(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, bcrypt.MinCost)
	next, _ := captureIdentity(t)
	handler := middleware.Auth(svc)(next)

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("X-API-Key", "srp_not-a-real-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidKeySetsIdentity(t *testing.T) {
	t.Parallel()

	seed := auth.NewService(&mockUserRepo{}, bcrypt.MinCost)
	rawKey, prefix, hash, err := seed.GenerateKey()
	require.NoError(t, err)

	userID := uuid.New()
	repo := &mockUserRepo{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.User, error) {
			return []auth.User{{
				ID:           userID,
				Name:         "Test Pilot",
				Role:         auth.RoleMember,
				ApiKeyPrefix: prefix,
				ApiKeyHash:   hash,
			}}, nil
		},
	}
	svc := auth.NewService(repo, bcrypt.MinCost)

	next, identity := captureIdentity(t)
	handler := middleware.Auth(svc)(next)

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("X-API-Key", rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	got := identity()
	require.NotNil(t, got)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Test Pilot", got.Name)
}

func TestRequireReviewer(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireReviewer()(next)

	tests := []struct {
		name     string
		identity *auth.Identity
		want     int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"member", &auth.Identity{Role: auth.RoleMember}, http.StatusForbidden},
		{"reviewer", &auth.Identity{Role: auth.RoleReviewer}, http.StatusOK},
		{"admin member", &auth.Identity{Role: auth.RoleMember, IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/requests/x/review", nil)
			if tt.identity != nil {
				req = req.WithContext(middleware.WithIdentity(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAdmin()(next)

	tests := []struct {
		name     string
		identity *auth.Identity
		want     int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"reviewer", &auth.Identity{Role: auth.RoleReviewer}, http.StatusForbidden},
		{"admin", &auth.Identity{Role: auth.RoleReviewer, IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			if tt.identity != nil {
				req = req.WithContext(middleware.WithIdentity(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
