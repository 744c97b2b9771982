package httphandler_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/alloy"
	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/memory"
	httphandler "github.com/ericfisherdev/journeydemo/internal/adapter/driving/http"
	"github.com/ericfisherdev/journeydemo/internal/application"
	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

// --- Test helpers ---

type staticSource struct{ set model.CredentialSet }

func (s staticSource) Load() model.CredentialSet { return s.set }

func (s staticSource) Save(model.CredentialSet) error { return nil }

type testEnv struct {
	handler       http.Handler
	store         *memory.Store
	events        *httphandler.EventHub
	upstreamCalls *atomic.Int32
	upstreamURL   string
}

// setupEnv wires real services over an in-memory store and an alloy client
// pointed at upstream.
func setupEnv(t *testing.T, upstream http.HandlerFunc, env model.CredentialSet, limiterRPS float64) *testEnv {
	t.Helper()

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	if env.BaseURL == "set-by-test" {
		env.BaseURL = srv.URL
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	events := httphandler.NewEventHub(logger)
	resolver := application.NewConfigResolver(store, staticSource{set: env})
	history := application.NewHistoryService(store)
	prefs := application.NewPreferencesService(store, events)
	gateway := application.NewProxyGateway(alloy.NewClient(srv.Client()), store, resolver, prefs, history, "https://app.alloy.co")
	updates := application.NewUpdateService(nil, "1.0.0")

	h := httphandler.NewHandler(resolver, gateway, history, prefs, updates, events,
		httphandler.NewRateLimiter(limiterRPS, 1), logger)
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)

	return &testEnv{
		handler:       httphandler.ApplyMiddleware(mux, logger),
		store:         store,
		events:        events,
		upstreamCalls: calls,
		upstreamURL:   srv.URL,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func configuredEnv() model.CredentialSet {
	return model.CredentialSet{
		SDKKey:       "sdk",
		JourneyToken: "J-1",
		APIToken:     "tok",
		APISecret:    "sec",
		BaseURL:      "set-by-test",
	}
}

func schemaHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func testConfigBody(baseURL string) string {
	return `{"baseUrl":"` + baseURL + `","journeyToken":"J-1","apiToken":"tok","apiSecret":"sec"}`
}

// --- Config endpoints ---

func TestGetConfig(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
		rec := env.do(t, http.MethodGet, "/api/config", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp map[string]any
		decodeJSON(t, rec, &resp)
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("configured from environment", func(t *testing.T) {
		env := setupEnv(t, schemaHandler(`{}`), configuredEnv(), 0)
		rec := env.do(t, http.MethodGet, "/api/config", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "sdk", resp["ALLOY_SDK_KEY"])
		assert.Equal(t, "sec", resp["ALLOY_SECRET"])
		assert.Equal(t, "default", resp["THEME"])
	})
}

func TestSaveConfig(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/save-config", `{"ALLOY_SDK_KEY":"sdk"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var failure map[string]any
	decodeJSON(t, rec, &failure)
	assert.Equal(t, "Failed to save configuration", failure["error"])
	assert.Equal(t, "Missing required configuration values", failure["message"])
	assert.Len(t, failure["missingFields"], 4)

	rec = env.do(t, http.MethodPost, "/api/save-config",
		`{"ALLOY_SDK_KEY":"sdk","ALLOY_JOURNEY_TOKEN":"J","ALLOY_TOKEN":"t","ALLOY_SECRET":"s","ALLOY_BASE_URL":"https://x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/config", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveConfig_InvalidJSON(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
	rec := env.do(t, http.MethodPost, "/api/save-config", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConfigDraft(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{SDKKey: "env-sdk"}, 0)
	rec := env.do(t, http.MethodGet, "/api/config/draft", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "env-sdk", resp["ALLOY_SDK_KEY"])
	assert.Equal(t, "", resp["ALLOY_TOKEN"])
}

// --- Proxy endpoints ---

func TestTestAlloyConfig_Success(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"name":"KYB","branches":[{"branch_name":"persons"},{"branch_name":"businesses"}]}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, true, resp["hasBusinessesBranch"])
	assert.Equal(t, "KYB", resp["name"])
	assert.Nil(t, resp["cached"])

	rec = env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL+"/"))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &resp)
	assert.Equal(t, true, resp["cached"])
	assert.Equal(t, int32(1), env.upstreamCalls.Load(), "cached result makes no outbound call")

	rec = env.do(t, http.MethodGet, "/api/business-branch", "")
	assert.JSONEq(t, `{"value":true}`, rec.Body.String())
}

func TestTestAlloyConfig_UnsupportedBranch(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"branches":[{"branch_name":"vehicles"}]}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Unsupported branch(es) found in journey schema", resp["error"])
	assert.Equal(t, []any{"vehicles"}, resp["invalidBranches"])

	raw, err := env.store.Get(context.Background(), model.NamespaceBranchValidation,
		model.ValidationCacheKey(env.upstreamURL, "J-1"))
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestTestAlloyConfig_MissingFields(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", `{"baseUrl":"https://x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Missing required fields", resp["error"])
	assert.Zero(t, env.upstreamCalls.Load())
}

func TestTestAlloyConfig_UpstreamUnauthorizedRelayed(t *testing.T) {
	env := setupEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"error":"Unauthorized","message":"bad credentials"}`))
	}, model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":401,"error":"Unauthorized","message":"bad credentials"}`, rec.Body.String())
}

func TestTestAlloyConfig_RejectedBody(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"message":"Journey not found"}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Journey not found"}`, rec.Body.String())
}

func TestTestAlloyConfig_Unreachable(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody("http://127.0.0.1:1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Failed to reach Alloy API", resp["error"])
	assert.NotEmpty(t, resp["details"])
}

func TestClearValidationCache(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"branches":[{"branch_name":"persons"}]}`), model.CredentialSet{}, 0)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL)).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/validation-cache", "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL)).Code)

	assert.Equal(t, int32(2), env.upstreamCalls.Load())
}

func TestSubmitApplication_NotConfigured(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/submit-application", `{"entities":[]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, env.upstreamCalls.Load())
}

func TestSubmitApplication_RelaysUpstreamAndRecordsHistory(t *testing.T) {
	env := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/journeys/J-1/applications", r.URL.Path)
		_, _ = w.Write([]byte(`{"journey_application_token":"JA-7","journey_application_status":"completed"}`))
	}, configuredEnv(), 0)

	rec := env.do(t, http.MethodPost, "/api/submit-application",
		`{"entities":[{"branch_name":"businesses","data":{"business_name":"Acme"}}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"journey_application_token":"JA-7","journey_application_status":"completed"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/history", "")
	var records []model.ApplicationHistoryRecord
	decodeJSON(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].PrimaryApplicantName)
	assert.Equal(t, "completed", records[0].Status)
}

func TestSubmitApplication_PreservesLargeIntegers(t *testing.T) {
	var forwarded string
	env := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		forwarded = string(body)
		_, _ = w.Write([]byte(`{"journey_application_token":"JA-8","evaluation_id":12345678901234567890}`))
	}, configuredEnv(), 0)

	rec := env.do(t, http.MethodPost, "/api/submit-application", `{"account_id":9007199254740993}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account_id":9007199254740993}`, forwarded)
	assert.Contains(t, forwarded, "9007199254740993")
	assert.Contains(t, rec.Body.String(), "12345678901234567890")

	rec = env.do(t, http.MethodGet, "/api/history", "")
	assert.Contains(t, rec.Body.String(), "9007199254740993", "stored payload keeps the exact number")
}

func TestTestAlloyConfig_PreservesLargeIntegers(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"journey_id":9007199254740993,"branches":[{"branch_name":"persons"}]}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "9007199254740993")

	rec = env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cached":true`)
	assert.Contains(t, rec.Body.String(), "9007199254740993", "cached schema keeps the exact number")
}

func TestSubmitApplication_UpstreamError(t *testing.T) {
	env := setupEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"entities required"}`))
	}, configuredEnv(), 0)

	rec := env.do(t, http.MethodPost, "/api/submit-application", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"entities required"}`, rec.Body.String())
}

func TestProxyRateLimit(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{"branches":[]}`), model.CredentialSet{}, 0.001)

	first := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))
	second := env.do(t, http.MethodPost, "/api/test-alloy-config", testConfigBody(env.upstreamURL))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

// --- Local state endpoints ---

func TestHistoryEndpoints(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/history", `{"jaToken":"JA-1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/history", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/history", `[{"jaToken":"JA-2"},{"jaToken":"JA-3"}]`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/history", "")
	var records []model.ApplicationHistoryRecord
	decodeJSON(t, rec, &records)
	require.Len(t, records, 2)
	assert.Equal(t, "JA-2", records[0].JAToken)

	rec = env.do(t, http.MethodDelete, "/api/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/history", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProfileEndpoints(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodGet, "/api/profiles", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/profiles", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/profiles", `[{"label":"Approve me"}]`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/profiles", "")
	assert.JSONEq(t, `[{"label":"Approve me"}]`, rec.Body.String())
}

func TestFlagEndpoints(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodGet, "/api/flags/tour", "")
	assert.JSONEq(t, `{"value":false}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/flags/tour", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/flags/tour", `{"value":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/flags/tour", "")
	assert.JSONEq(t, `{"value":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/business-branch", `{"value":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/business-branch", "")
	assert.JSONEq(t, `{"value":true}`, rec.Body.String())
}

func TestClearStorage(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	env.do(t, http.MethodPost, "/api/save-config",
		`{"ALLOY_SDK_KEY":"sdk","ALLOY_JOURNEY_TOKEN":"J","ALLOY_TOKEN":"t","ALLOY_SECRET":"s","ALLOY_BASE_URL":"https://x"}`)
	env.do(t, http.MethodPost, "/api/history", `{"jaToken":"JA-1"}`)

	rec := env.do(t, http.MethodDelete, "/api/storage", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/config", "").Code)
	assert.JSONEq(t, `[]`, env.do(t, http.MethodGet, "/api/history", "").Body.String())
}

// --- Misc ---

func TestHealth(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
	rec := env.do(t, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["time"])
	assert.Equal(t, float64(0), resp["subscribers"])
}

func TestCheckUpdate(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
	rec := env.do(t, http.MethodGet, "/api/update", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"current":"1.0.0","available":false}`, rec.Body.String())
}

func TestUnknownAPIPath(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
	rec := env.do(t, http.MethodGet, "/api/does-not-exist", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestCORS(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)

	rec := env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/save-config", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	httphandler.ApplyMiddleware(mux, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestEventStream_BusinessBranch(t *testing.T) {
	env := setupEnv(t, schemaHandler(`{}`), model.CredentialSet{}, 0)
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return env.events.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	health := env.do(t, http.MethodGet, "/api/health", "")
	assert.Contains(t, health.Body.String(), `"subscribers":1`)

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, srv.URL+"/api/business-branch", strings.NewReader(`{"value":true}`))
	require.NoError(t, err)
	putResp, err := srv.Client().Do(putReq)
	require.NoError(t, err)
	_ = putResp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		lines = append(lines, line)
	}

	assert.Equal(t, []string{"event: business-branch", "data: true"}, lines)
}
