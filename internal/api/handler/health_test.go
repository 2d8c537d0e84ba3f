package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srp14/srp/internal/api/handler"
	"github.com/srp14/srp/internal/tier"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestHealth_Healthy(t *testing.T) {
	t.Parallel()

	path := writeTierConfig(t, tierConfig)
	h := handler.NewHealthHandler(&mockPinger{}, loadedTable(t, path), "1.0.0")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.Equal(t, true, data["database"])
	assert.Equal(t, true, data["tierTableLoaded"])
}

func TestHealth_DegradedWhenDatabaseDown(t *testing.T) {
	t.Parallel()

	path := writeTierConfig(t, tierConfig)
	h := handler.NewHealthHandler(&mockPinger{err: errors.New("connection refused")}, loadedTable(t, path), "1.0.0")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, false, data["database"])
}

func TestHealth_DegradedWhenTiersUnloaded(t *testing.T) {
	t.Parallel()

	h := handler.NewHealthHandler(&mockPinger{}, tier.NewTable(), "1.0.0")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, false, data["tierTableLoaded"])
}
