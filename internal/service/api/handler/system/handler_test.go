package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/system"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	err error
}

func (s stubStore) Count(context.Context) (int, error) { return 3, s.err }

type stubRunner bool

func (r stubRunner) Running() bool { return bool(r) }

func serveHealth(t *testing.T, h *Handler) system.HealthResponse {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, h.HealthCheckHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp system.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheckHandler(t *testing.T) {
	t.Run("모든 의존성 정상", func(t *testing.T) {
		resp := serveHealth(t, NewHandler(stubStore{}, stubRunner(false), version.Info{}))

		assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
		assert.GreaterOrEqual(t, resp.Uptime, int64(0))
		require.Contains(t, resp.Dependencies, constants.DependencyCatalogStore)
		assert.Equal(t, constants.HealthStatusHealthy, resp.Dependencies[constants.DependencyCatalogStore].Status)
		assert.Equal(t, constants.MsgDepStatusIdle, resp.Dependencies[constants.DependencySyncRunner].Message)
	})

	t.Run("동기화 실행 중에도 정상", func(t *testing.T) {
		resp := serveHealth(t, NewHandler(stubStore{}, stubRunner(true), version.Info{}))

		assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
		assert.Equal(t, constants.MsgDepStatusRunning, resp.Dependencies[constants.DependencySyncRunner].Message)
	})

	t.Run("저장소 장애", func(t *testing.T) {
		resp := serveHealth(t, NewHandler(stubStore{err: errors.New("connection refused")}, stubRunner(false), version.Info{}))

		assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)
		assert.Equal(t, "connection refused", resp.Dependencies[constants.DependencyCatalogStore].Message)
	})

	t.Run("의존성 미지정", func(t *testing.T) {
		resp := serveHealth(t, NewHandler(nil, nil, version.Info{}))

		assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
		assert.Empty(t, resp.Dependencies)
	})
}

func TestVersionHandler(t *testing.T) {
	h := NewHandler(nil, nil, version.Info{
		Version:     "1.2.0",
		Commit:      "abc1234",
		BuildDate:   "2026-10-01T00:00:00Z",
		BuildNumber: "42",
	})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/version", nil), rec)

	require.NoError(t, h.VersionHandler(c))

	var resp system.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, system.VersionResponse{
		Version:     "1.2.0",
		Commit:      "abc1234",
		BuildDate:   "2026-10-01T00:00:00Z",
		BuildNumber: "42",
		GoVersion:   runtime.Version(),
	}, resp)
}
