package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/srp14/srp/internal/api/handler"
	"github.com/srp14/srp/internal/auth"
)

type mockUserRepo struct {
	createFn func(ctx context.Context, user *auth.User) error
	listFn   func(ctx context.Context) ([]auth.User, error)
	revokeFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *auth.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, _ uuid.UUID) (*auth.User, error) {
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(_ context.Context, _ string) ([]auth.User, error) {
	return []auth.User{}, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]auth.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []auth.User{}, nil
}

func (m *mockUserRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) CountAll(_ context.Context) (int, error) { return 0, nil }

func newUserHandler(repo *mockUserRepo) *handler.UserHandler {
	return handler.NewUserHandler(auth.NewService(repo, bcrypt.MinCost), repo)
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), Name: "admin", Role: auth.RoleReviewer, IsAdmin: true}
}

func TestUserCreate_ReturnsRawKeyOnce(t *testing.T) {
	t.Parallel()

	h := newUserHandler(&mockUserRepo{})

	body, _ := json.Marshal(map[string]string{"name": "New Pilot", "role": "member"})
	req, w := makeChiRequest(http.MethodPost, "/users", body, adminIdentity(), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "New Pilot", data["name"])
	assert.Equal(t, "member", data["role"])
	key, ok := data["apiKey"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(key, "srp_"))
}

func TestUserCreate_InvalidRole(t *testing.T) {
	t.Parallel()

	h := newUserHandler(&mockUserRepo{})

	body, _ := json.Marshal(map[string]string{"name": "New Pilot", "role": "superuser"})
	req, w := makeChiRequest(http.MethodPost, "/users", body, adminIdentity(), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestUserList_OmitsKeyMaterial(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		listFn: func(_ context.Context) ([]auth.User, error) {
			return []auth.User{{
				ID:           uuid.New(),
				Name:         "Test Pilot",
				Role:         auth.RoleMember,
				ApiKeyPrefix: "srp_abcd",
				ApiKeyHash:   "$2a$10$secret",
				CreatedAt:    time.Now().UTC(),
			}}, nil
		},
	}
	h := newUserHandler(repo)

	req, w := makeChiRequest(http.MethodGet, "/users", nil, adminIdentity(), nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "srp_abcd", first["apiKeyPrefix"])
	assert.NotContains(t, first, "apiKeyHash")
	assert.NotContains(t, first, "apiKey")
}

func TestUserRevoke_Success(t *testing.T) {
	t.Parallel()

	h := newUserHandler(&mockUserRepo{})

	id := uuid.New()
	req, w := makeChiRequest(http.MethodDelete, "/users/"+id.String(), nil, adminIdentity(), map[string]string{"id": id.String()})
	h.Revoke(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserRevoke_AlreadyRevoked(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		revokeFn: func(_ context.Context, _ uuid.UUID) error { return auth.ErrUserRevoked },
	}
	h := newUserHandler(repo)

	id := uuid.New()
	req, w := makeChiRequest(http.MethodDelete, "/users/"+id.String(), nil, adminIdentity(), map[string]string{"id": id.String()})
	h.Revoke(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_REVOKED", errObj["code"])
}

func TestUserRevoke_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		revokeFn: func(_ context.Context, _ uuid.UUID) error { return auth.ErrUserNotFound },
	}
	h := newUserHandler(repo)

	id := uuid.New()
	req, w := makeChiRequest(http.MethodDelete, "/users/"+id.String(), nil, adminIdentity(), map[string]string{"id": id.String()})
	h.Revoke(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
