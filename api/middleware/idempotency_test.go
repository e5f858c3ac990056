package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

type memoryIdempotencyStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (s *memoryIdempotencyStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.data[key], _ = value.(string)
	s.ttls[key] = ttl
	return nil
}

func (s *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	return true, s.Set(ctx, key, value, ttl)
}

func (s *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

var (
	firstUser  = uuid.MustParse("7d1c4b5e-3f2a-4c8d-9e10-2b3c4d5e6f70")
	secondUser = uuid.MustParse("0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d")
)

func postBundle(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bundles", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req.WithContext(WithPrincipal(req.Context(), Principal{UserID: firstUser}))
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	return payload.Error.Code
}

func TestIdempotencyRejectsMissingOrMalformedKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"missing", ""},
		{"too long", strings.Repeat("k", maxIdempotencyKeyLength+1)},
		{"control characters", "abc\x01def"},
		{"inner space", "abc def"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := Idempotency(newMemoryIdempotencyStore(), 0, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, postBundle(tc.key, `{}`))

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if called {
				t.Fatalf("handler must not run")
			}
		})
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"b-1"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postBundle("abc", `{"name":"Starter"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}
	if first.Header().Get(IdempotentReplayHeader) != "" {
		t.Fatalf("first response must not be marked as replayed")
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postBundle("abc", `{"name":"Starter"}`))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != `{"data":{"id":"b-1"}}` {
		t.Fatalf("unexpected replay body %s", second.Body.String())
	}
	if second.Header().Get("Content-Type") != "application/json" || second.Header().Get(IdempotentReplayHeader) != "true" {
		t.Fatalf("unexpected replay headers %v", second.Header())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, expected 1", calls)
	}
	if store.ttls["idem:"+firstUser.String()+"|POST|/api/v1/bundles:abc"] != time.Hour {
		t.Fatalf("expected record stored for an hour, got %v", store.ttls)
	}
}

func TestIdempotencyRejectsReuseWithDifferentBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	handler := Idempotency(store, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), postBundle("xyz", `{"name":"A"}`))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postBundle("xyz", `{"name":"B"}`))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if got := errorCode(t, resp); got != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeIdempotency, got)
	}
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var inner *httptest.ResponseRecorder
	var handler http.Handler
	handler = Idempotency(store, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inner == nil {
			inner = httptest.NewRecorder()
			handler.ServeHTTP(inner, postBundle("dup", `{}`))
		}
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), postBundle("dup", `{}`))

	if inner.Code != http.StatusConflict {
		t.Fatalf("expected in-flight duplicate to get 409, got %d", inner.Code)
	}
	if got := errorCode(t, inner); got != string(pkgerrors.CodeConflict) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeConflict, got)
	}
}

func TestIdempotencyReleasesKeyAfterServerError(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), postBundle("retry-me", `{}`))
	}
	if calls != 2 {
		t.Fatalf("expected failed request to be retried, handler ran %d times", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected key released, store has %v", store.data)
	}
}

func TestIdempotencyReleasesKeyWhenHandlerPanics(t *testing.T) {
	store := newMemoryIdempotencyStore()
	handler := Idempotency(store, 0, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), postBundle("crash", `{}`))
	}()

	if len(store.data) != 0 {
		t.Fatalf("expected key released after panic, store has %v", store.data)
	}
}

func TestIdempotencyScopesKeysPerUser(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	handler := Idempotency(store, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), postBundle("shared", `{}`))
	other := postBundle("shared", `{}`)
	other = other.WithContext(WithPrincipal(other.Context(), Principal{UserID: secondUser}))
	handler.ServeHTTP(httptest.NewRecorder(), other)

	if calls != 2 {
		t.Fatalf("expected each user to get their own key space, handler ran %d times", calls)
	}
}

func TestIdempotencyRejectsOversizedBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	called := false
	handler := Idempotency(store, 0, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postBundle("big", strings.Repeat("x", validators.MaxBodyBytes+1)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if called {
		t.Fatalf("handler must not run")
	}
	if len(store.data) != 0 {
		t.Fatalf("oversized request must not claim a key, store has %v", store.data)
	}
}
