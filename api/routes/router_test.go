package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	pkgAuth "github.com/pawfectfind/pawfectfind-backend/pkg/auth"
	"github.com/pawfectfind/pawfectfind-backend/pkg/config"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
	pkgredis "github.com/pawfectfind/pawfectfind-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubStore struct {
	allow bool
	calls int
}

func (s *stubStore) Get(context.Context, string) (string, error) { return "", redis.Nil }

func (s *stubStore) Set(context.Context, string, any, time.Duration) error { return nil }

func (s *stubStore) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return true, nil
}

func (s *stubStore) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (s *stubStore) Del(context.Context, ...string) error { return nil }

func (s *stubStore) Ping(context.Context) error { return nil }

func (s *stubStore) FixedWindowAllow(_ context.Context, _ string, _ int64, window time.Duration) (pkgredis.Window, error) {
	s.calls++
	return pkgredis.Window{Allowed: s.allow, Count: int64(s.calls), ResetIn: window}, nil
}

type stubBreeds struct {
	breeds.Service
}

func (stubBreeds) List(context.Context, string) ([]breeds.BreedDTO, error) {
	return []breeds.BreedDTO{{ID: uuid.New(), Name: "Beagle"}}, nil
}

type stubBundles struct {
	bundles.Service
}

func (stubBundles) Quote(context.Context, []bundles.QuoteItemInput) (*bundles.Quote, error) {
	return &bundles.Quote{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "pawfectfind", ExpirationMinutes: 60},
		RateLimit: config.RateLimitConfig{
			QuoteWindow: time.Minute,
			QuoteLimit:  1,
		},
	}
}

func newTestRouter(t *testing.T, store *stubStore) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	handler := NewRouter(
		testConfig(),
		nil,
		stubPinger{},
		store,
		Observability{Gatherer: reg, HTTPMetrics: metrics.NewHTTPMetrics(reg)},
		Services{Breeds: stubBreeds{}, Bundles: stubBundles{}},
	)
	return handler, reg
}

func bearer(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New(), Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestPublicRoutesAllowAnonymous(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/breeds?q=bea", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Beagle") {
		t.Fatalf("expected breed in body, got %s", resp.Body.String())
	}
}

func TestAccountRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	dogPath := "/api/v1/dogs/" + uuid.NewString()
	for _, path := range []string{"/api/v1/dogs", "/api/v1/bundles", "/api/v1/favorites", dogPath + "/growth", dogPath + "/health-records"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/breeds/"+uuid.NewString()+"/life-stages", strings.NewReader(`{"stages":[]}`))
	req.Header.Set("Authorization", bearer(t, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestBundleCreateRequiresIdempotencyKey(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bundles", strings.NewReader(`{"name":"Starter","product_ids":[]}`))
	req.Header.Set("Authorization", bearer(t, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Idempotency-Key") {
		t.Fatalf("expected idempotency error, got %s", resp.Body.String())
	}
}

func TestQuoteIsRateLimited(t *testing.T) {
	store := &stubStore{allow: true}
	router, _ := newTestRouter(t, store)

	quote := func() int {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/bundles/quote", strings.NewReader(`{"items":[]}`)))
		return resp.Code
	}

	if code := quote(); code != http.StatusOK {
		t.Fatalf("expected first quote to pass, got %d", code)
	}
	store.allow = false
	if code := quote(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestMetricsEndpointExposesHTTPMetrics(t *testing.T) {
	router, _ := newTestRouter(t, &stubStore{allow: true})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `route="/health/live"`) {
		t.Fatalf("expected health route in metrics output")
	}
}
