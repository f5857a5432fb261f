package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/infrastructure/auth"
	"github.com/orris-inc/tally/internal/infrastructure/config"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/migrations"
	sharedConfig "github.com/orris-inc/tally/internal/shared/config"
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/logger"
)

const testJWTSecret = "router-test-secret-0123"

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testServer struct {
	engine *gin.Engine
	redis  *miniredis.Miniredis
	tokens *auth.JWTService
}

func newTestServer(t *testing.T, apiPerMinute int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.MigrateBillingTables(gdb))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{Mode: gin.TestMode},
		Auth: sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{
			Secret:           testJWTSecret,
			Issuer:           "tally",
			AccessExpMinutes: 60,
		}},
		Metrics: sharedConfig.MetricsConfig{
			CacheDriver:             "redis",
			CacheTTLSeconds:         3600,
			SnapshotIntervalMinutes: 60,
		},
		RateLimit: sharedConfig.RateLimitConfig{
			Enabled:          true,
			APIPerMinute:     apiPerMinute,
			WebhookPerMinute: 100,
		},
	}

	router, err := NewRouter(gdb, client, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	router.SetupRoutes()
	t.Cleanup(func() { _ = router.Shutdown(context.Background()) })

	return &testServer{
		engine: router.GetEngine(),
		redis:  mr,
		tokens: auth.NewJWTService(testJWTSecret, "tally", time.Hour),
	}
}

func (s *testServer) do(t *testing.T, method, path, userID, role string, body []byte) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.tokens.Generate(userID, role)
		require.NoError(t, err)
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env apiEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) metricKeys() []string {
	var keys []string
	for _, k := range s.redis.Keys() {
		if strings.HasPrefix(k, constants.MetricsCacheKeyPrefix+":") {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestRouter_WebhookInvalidatesCachedMetrics(t *testing.T) {
	s := newTestServer(t, 100)

	w, env := s.do(t, http.MethodPost, "/api/accounts", "user-1", constants.RoleUser,
		[]byte(`{"provider":"paypal","provider_account_id":"merchant-1"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var account struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &account))

	w, env = s.do(t, http.MethodGet, "/api/dashboard/metrics?period=all", "user-1", constants.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"mrr":"0"`)
	assert.NotEmpty(t, s.metricKeys(), "metrics are cached after the first read")

	webhook := []byte(`{"id":"WH-1","event_type":"BILLING.SUBSCRIPTION.ACTIVATED","create_time":"2024-01-20T00:00:00Z",
		"resource":{"id":"I-SUB1","status":"ACTIVE","plan_id":"P-1","start_time":"2024-01-10T00:00:00Z",
		"subscriber":{"payer_id":"PAYER1"},
		"billing_info":{"last_payment":{"amount":{"value":"20.00","currency_code":"USD"}}}}}`)
	w, _ = s.do(t, http.MethodPost, "/webhooks/paypal/"+account.ID, "", "", webhook)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, s.metricKeys(), "the owner's cached metrics are dropped")

	w, env = s.do(t, http.MethodGet, "/api/dashboard/metrics?period=all", "user-1", constants.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"mrr":"20"`)
	assert.Contains(t, string(env.Data), `"active_users":1`)

	w, env = s.do(t, http.MethodGet, "/api/accounts/"+account.ID+"/subscriptions", "user-1", constants.RoleUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"provider_subscription_id":"I-SUB1"`)

	w, _ = s.do(t, http.MethodGet, "/api/accounts/"+account.ID+"/subscriptions", "user-2", constants.RoleUser, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "accounts of other users are invisible")
}

func TestRouter_AdminCacheInvalidationRequiresAdminRole(t *testing.T) {
	s := newTestServer(t, 100)

	require.NoError(t, s.redis.Set("metrics:user-9:mrr:all", "10"))

	w, _ := s.do(t, http.MethodPost, "/api/admin/cache/user-9/invalidate", "user-1", constants.RoleUser, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, s.redis.Exists("metrics:user-9:mrr:all"))

	w, env := s.do(t, http.MethodPost, "/api/admin/cache/user-9/invalidate", "ops-1", constants.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"deleted_keys":1`)
	assert.False(t, s.redis.Exists("metrics:user-9:mrr:all"))
}

func TestRouter_Unauthenticated(t *testing.T) {
	s := newTestServer(t, 100)

	for _, path := range []string{"/api/dashboard", "/api/dashboard/metrics", "/api/accounts"} {
		w, _ := s.do(t, http.MethodGet, path, "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_UnknownWebhookAccount(t *testing.T) {
	s := newTestServer(t, 100)

	w, _ := s.do(t, http.MethodPost, "/webhooks/stripe/does-not-exist", "", "", []byte(`{}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_APIRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodGet, "/api/accounts", "user-1", constants.RoleUser, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := s.do(t, http.MethodGet, "/api/accounts", "user-1", constants.RoleUser, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is not rate limited")
}

func TestRouter_PrometheusEndpoint(t *testing.T) {
	s := newTestServer(t, 100)

	s.do(t, http.MethodGet, "/api/accounts", "user-1", constants.RoleUser, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tally_http_requests_total{method="GET",route="/api/accounts",status_code="200"} 1`)
}
