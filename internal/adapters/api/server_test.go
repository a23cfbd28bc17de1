package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/adapters/api"
	"github.com/andrescamacho/anac-utility-go/internal/adapters/metrics"
	"github.com/andrescamacho/anac-utility-go/internal/application/setup"
	"github.com/andrescamacho/anac-utility-go/internal/domain/optimizer"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

type testServer struct {
	handler http.Handler
	level   *slog.LevelVar
	logs    *bytes.Buffer
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		RequestTimeout:  5 * time.Second,
		ShutdownTimeout: time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

func newTestServer(t *testing.T, cfg config.ServerConfig, m *metrics.Metrics) *testServer {
	t.Helper()

	registry := setup.NewHandlerRegistry(helpers.NewMockCatalog(t), nil, optimizer.New(optimizer.Options{}), time.Minute)
	med, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: level}))

	srv := api.NewServer(med, cfg, logger, level)
	if m != nil {
		srv.EnableMetrics(m, "/metrics")
	}
	return &testServer{handler: srv.Handler(), level: level, logs: logs}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// ============================================================================
// generateUtility
// ============================================================================

func TestGenerateUtility_ReturnsDrawnTree(t *testing.T) {
	// Arrange
	s := newTestServer(t, testConfig(), nil)

	// Act
	rec := s.do(http.MethodGet, "/generateUtility/human?seed=3", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	_, err := uuid.Parse(rec.Header().Get("X-Utility-Id"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n  \"cake\": {"), "expected indented output with input key order")

	body := decodeBody(t, rec)
	cake := body["cake"].(map[string]any)
	unitvalue := cake["parameters"].(map[string]any)["unitvalue"].(float64)
	assert.GreaterOrEqual(t, unitvalue, 20.0)
	assert.LessOrEqual(t, unitvalue, 30.0)
}

func TestGenerateUtility_SeedRepeats(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	first := s.do(http.MethodGet, "/generateUtility/seller?seed=11", "")
	second := s.do(http.MethodGet, "/generateUtility/AGENT?seed=11", "")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.NotEqual(t, first.Header().Get("X-Utility-Id"), second.Header().Get("X-Utility-Id"))
}

func TestGenerateUtility_BadInput(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	invalidRole := s.do(http.MethodGet, "/generateUtility/baker", "")
	badSeed := s.do(http.MethodGet, "/generateUtility/buyer?seed=-1", "")

	assert.Equal(t, http.StatusBadRequest, invalidRole.Code)
	assert.Equal(t, "invalid agent role: baker", decodeBody(t, invalidRole)["msg"])
	assert.Equal(t, http.StatusBadRequest, badSeed.Code)
}

// ============================================================================
// calculateUtility
// ============================================================================

func TestCalculateUtility_Buyer(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	body := `{"currencyUnit": "USD", "utility": ` + helpers.BuyerUtilityJSON + `, "bundle": ` + helpers.ExampleAllocationJSON + `}`

	rec := s.do(http.MethodPost, "/calculateUtility/buyer", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, "USD", resp["currencyUnit"])
	assert.InDelta(t, 103.0, resp["value"].(float64), 1e-9)
	assert.Contains(t, resp["breakdown"], "cake")
}

func TestCalculateUtility_Seller(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	body := `{"currencyUnit": "USD", "utility": ` + helpers.SellerUtilityJSON +
		`, "bundle": {"price": 50, "quantity": {"cake": 2, "pancake": 1}}}`

	rec := s.do(http.MethodPost, "/calculateUtility/agent", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, 50.0-2*8-3, resp["value"])
	assert.NotContains(t, resp, "breakdown")
}

func TestCalculateUtility_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid role", "/calculateUtility/baker", `{"utility": {}, "bundle": {}}`, http.StatusBadRequest},
		{"invalid json", "/calculateUtility/buyer", `{"utility": `, http.StatusBadRequest},
		{"unknown spec type", "/calculateUtility/buyer",
			`{"utility": {"cake": {"type": "bogus", "unit": "each", "parameters": {}}}, "bundle": {}}`, http.StatusUnprocessableEntity},
		{"missing entry", "/calculateUtility/buyer",
			`{"utility": {}, "bundle": {"products": {"cake": {"quantity": 1}}}}`, http.StatusUnprocessableEntity},
		{"seller spec for buyer", "/calculateUtility/buyer",
			`{"utility": ` + helpers.SellerUtilityJSON + `, "bundle": {"products": {"cake": {"quantity": 1}}}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, testConfig(), nil)

			rec := s.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody(t, rec)["msg"])
		})
	}
}

func TestCalculateUtility_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	s := newTestServer(t, cfg, nil)
	body := `{"currencyUnit": "USD", "utility": ` + helpers.BuyerUtilityJSON + `, "bundle": {}}`

	rec := s.do(http.MethodPost, "/calculateUtility/buyer", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// ============================================================================
// checkAllocation / optimizeAllocation
// ============================================================================

func TestCheckAllocation(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	ingredients, err := json.Marshal(helpers.Ingredients())
	require.NoError(t, err)
	body := `{"ingredients": ` + string(ingredients) + `, "allocation": ` + helpers.ExampleAllocationJSON + `}`

	rec := s.do(http.MethodPost, "/checkAllocation", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["sufficient"])
	assert.Equal(t, map[string]any{"need": 5.0, "have": 3.0}, resp["rationale"].(map[string]any)["egg"])
	assert.Contains(t, resp, "ingredients")
	assert.Contains(t, resp, "allocation")
}

func TestCheckAllocation_UnknownProduct(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodPost, "/checkAllocation",
		`{"ingredients": {"egg": 1}, "allocation": {"products": {"bagel": {"quantity": 1}}}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOptimizeAllocation(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	ingredients, err := json.Marshal(helpers.Ingredients())
	require.NoError(t, err)
	body := `{"ingredients": ` + string(ingredients) + `, "utility": ` + helpers.BuyerUtilityJSON + `}`

	rec := s.do(http.MethodPost, "/optimizeAllocation", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.InDelta(t, 83.0, resp["utility"].(float64), 1e-9)
	assert.Equal(t, false, resp["truncated"])
}

// ============================================================================
// operational endpoints
// ============================================================================

func TestSetLogLevel(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	rec := s.do(http.MethodGet, "/setLogLevel/2", "")
	bad := s.do(http.MethodGet, "/setLogLevel/shout", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Set log level to 2", decodeBody(t, rec)["msg"])
	assert.Equal(t, slog.LevelDebug, s.level.Level())
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, slog.LevelDebug, s.level.Level())
}

func TestSetLogLevel_IsScopedToServer(t *testing.T) {
	first := newTestServer(t, testConfig(), nil)
	second := newTestServer(t, testConfig(), nil)

	first.do(http.MethodGet, "/setLogLevel/error", "")

	assert.Equal(t, slog.LevelError, first.level.Level())
	assert.Equal(t, slog.LevelInfo, second.level.Level())
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	health := s.do(http.MethodGet, "/health", "")
	missing := s.do(http.MethodGet, "/nope", "")
	wrongMethod := s.do(http.MethodGet, "/checkAllocation", "")

	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", decodeBody(t, health)["status"])
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), metrics.New("apitest"))

	s.do(http.MethodGet, "/generateUtility/buyer", "")
	rec := s.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`apitest_utility_http_requests_total{method="GET",route="/generateUtility/{agentRole}",status_code="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 1, Burst: 1}
	s := newTestServer(t, cfg, nil)

	first := s.do(http.MethodGet, "/generateUtility/buyer", "")
	second := s.do(http.MethodGet, "/generateUtility/buyer", "")
	health := s.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	registry := setup.NewHandlerRegistry(helpers.NewMockCatalog(t), nil, nil, 0)
	med, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)
	srv := api.NewServer(med, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
