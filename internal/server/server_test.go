// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-passkey/internal/config"
	"github.com/jeremyhahn/go-passkey/pkg/codec"
	"github.com/jeremyhahn/go-passkey/pkg/metrics"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	return srv
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "localhost", body["rp_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passkey_")
}

func TestCeremonyRoutesMounted(t *testing.T) {
	srv := newTestServer(t, nil)

	body, err := json.Marshal(passkey.RegisterStartRequest{
		Username:    "alice",
		DisplayName: "Alice Example",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/passkey/register/start",
		bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var options passkey.CreationOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "localhost", options.RP.ID)
	assert.NotEmpty(t, options.Challenge)
}

func TestCorrelationHeaderEchoed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Correlation-ID"))

	// A request without an ID gets one generated.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/passkey/register/start", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitEnforced(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMin = 1
	})

	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusTooManyRequests, get())
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := newTestServer(t, nil)

	panicHandler := srv.RecoveryMiddleware()(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	panicHandler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestSweepOnce(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RelyingParty.ChallengeTTL = 50 * time.Millisecond
	})

	// Issue a few challenges, then let them expire.
	for range 3 {
		_, err := srv.RelyingParty().AuthStart(context.Background(), nil)
		require.NoError(t, err)
	}
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, 3, srv.challenges.Count())
	srv.sweepOnce()
	assert.Equal(t, 0, srv.challenges.Count())
}

func TestStartWorkers_CollectsResourceGauges(t *testing.T) {
	metrics.Goroutines.Set(0)
	metrics.MemoryAllocBytes.Set(0)

	srv := newTestServer(t, nil)
	srv.startWorkers()

	// The collector refreshes the gauges immediately on start.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.Goroutines) > 0 &&
			testutil.ToFloat64(metrics.MemoryAllocBytes) > 0
	}, time.Second, 10*time.Millisecond, "resource gauges never left zero")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

func TestFullCeremonyThroughServer(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	post := func(path string, in any) []byte {
		body, err := json.Marshal(in)
		require.NoError(t, err)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return data
	}

	var options passkey.CreationOptions
	require.NoError(t, json.Unmarshal(
		post("/api/passkey/register/start", passkey.RegisterStartRequest{
			Username: "alice",
		}), &options))

	clientData, err := json.Marshal(passkey.ClientData{
		Type:      passkey.ClientDataTypeCreate,
		Challenge: options.Challenge,
		Origin:    "http://localhost:8080",
	})
	require.NoError(t, err)

	var verdict passkey.RegisterResult
	require.NoError(t, json.Unmarshal(
		post("/api/passkey/register/finish", passkey.AttestationResult{
			ID:    "server-test-cred",
			RawID: "server-test-cred",
			Type:  passkey.CredentialTypePublicKey,
			Response: passkey.AttestationResponse{
				ClientDataJSON:    codec.Encode(clientData),
				AttestationObject: codec.Encode([]byte{0xa0}),
			},
		}), &verdict))

	assert.True(t, verdict.Success, "verdict: %s", verdict.Message)
	assert.Equal(t, 1, srv.credentials.Count())
}
