package adminhttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"battlesim_server/internal/manager"
	"battlesim_server/pkg/arguments"
	"battlesim_server/pkg/dispatcher"
	"battlesim_server/pkg/logger"

	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Trace(level logger.Severity, module string, message string) {}

func newTestServer() *Server {
	cfg := arguments.SimConfig{
		TickInterval:         50 * time.Millisecond,
		IdleCheckInterval:    500 * time.Millisecond,
		TimeoutCheckInterval: 10 * time.Second,
		MaxDuration:          30 * time.Minute,
		StalemateWindow:      5 * time.Minute,
		RetentionWindow:      60 * time.Second,
		DefaultSeed:          1,
	}
	mgr := manager.NewManager(cfg, noopLogger{})
	s := NewServer(0, mgr, cfg.DefaultSeed, "test-instance", cfg.TickInterval, noopLogger{})
	s.router = dispatcher.NewRouter(noopLogger{})
	s.routes()
	return s
}

func TestServer_HealthReportsOK(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test-instance", resp.InstanceID)
	require.GreaterOrEqual(t, resp.Uptime.Duration, time.Duration(0))
}

func TestServer_StartBattleThenStatus(t *testing.T) {
	s := newTestServer()

	body, err := json.Marshal(startBattleRequest{
		BattleID: "b1",
		SystemID: "sys",
		Seed:     7,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/battle/start", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	statusReq := httptest.NewRequest(http.MethodGet, "/battle/status/b1", nil)
	statusRec := httptest.NewRecorder()
	s.router.ServeHTTP(statusRec, statusReq)

	require.Equal(t, http.StatusOK, statusRec.Code)

	var status statusResponse
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
	require.Equal(t, "b1", status.BattleID)
	require.True(t, status.Ended, "zero-unit battle must conclude immediately")
}

func TestServer_StatusUnknownBattleReturns404(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/battle/status/missing", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartBattleMalformedBodyReturns400(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/battle/start", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ActiveBattlesListsStarted(t *testing.T) {
	s := newTestServer()

	for _, id := range []string{"a", "b"} {
		body, err := json.Marshal(startBattleRequest{BattleID: id, SystemID: "sys"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/battle/start", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/battles/active", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list []statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
}
