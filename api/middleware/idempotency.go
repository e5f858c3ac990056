package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	pkgredis "github.com/pawfectfind/pawfectfind-backend/pkg/redis"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	DefaultIdempotencyTTL  = 24 * time.Hour

	maxIdempotencyKeyLength = 255
	// inFlightTTL bounds how long a crashed request can block its key.
	inFlightTTL    = time.Minute
	inFlightMarker = "in-flight"
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

type idempotency struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency makes a mutating route safe to retry. The first request for an
// Idempotency-Key claims it, runs, and stores its response for ttl; repeats
// with the same method, path and body get that response back. A repeat that
// arrives while the first is still running, or that carries a different
// body, is rejected with 409. Server errors release the key.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	m := &idempotency{store: store, ttl: ttl, logg: logg}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.serve(next, w, r)
		})
	}
}

func (m *idempotency) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if err := validateIdempotencyKey(clientKey); err != nil {
		responses.WriteError(ctx, nil, w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
				WithDetails(map[string]any{"max_bytes": tooLarge.Limit}))
			return
		}
		responses.WriteError(ctx, m.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	fingerprint := requestFingerprint(r, body)
	key := m.store.IdempotencyKey(UserIDFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, clientKey)

	claimed, err := m.store.SetNX(ctx, key, inFlightMarker, inFlightTTL)
	if err != nil {
		responses.WriteError(ctx, m.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claiming idempotency key"))
		return
	}
	if !claimed {
		m.replay(ctx, w, key, fingerprint)
		return
	}

	// Cleanup runs on panic too, so a crashed handler does not pin the key.
	rec := &bodyRecorder{statusRecorder: statusRecorder{ResponseWriter: w}}
	stored := false
	defer func() {
		if !stored {
			m.release(ctx, key)
		}
	}()

	next.ServeHTTP(rec, r)

	if rec.code() >= http.StatusInternalServerError {
		return
	}
	stored = m.persist(ctx, key, storedResponse{
		Status:      rec.code(),
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.body.Bytes(),
		Fingerprint: fingerprint,
	})
}

func (m *idempotency) replay(ctx context.Context, w http.ResponseWriter, key, fingerprint string) {
	raw, err := m.store.Get(ctx, key)
	switch {
	case pkgredis.IsMiss(err), err == nil && raw == inFlightMarker:
		// A miss here means the first attempt released the key between our
		// SETNX and GET; the client retries either way.
		responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeConflict, "a request with this Idempotency-Key is still in progress"))
		return
	case err != nil:
		responses.WriteError(ctx, m.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading idempotency record"))
		return
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(ctx, m.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding idempotency record"))
		return
	}
	if record.Fingerprint != fingerprint {
		responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key was already used with a different request"))
		return
	}

	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(record.Body)
}

func (m *idempotency) persist(ctx context.Context, key string, record storedResponse) bool {
	payload, err := json.Marshal(record)
	if err != nil {
		m.logError(ctx, "idempotency.encode_failed", err)
		return false
	}
	if err := m.store.Set(context.WithoutCancel(ctx), key, string(payload), m.ttl); err != nil {
		m.logError(ctx, "idempotency.persist_failed", err)
		return false
	}
	return true
}

func (m *idempotency) release(ctx context.Context, key string) {
	if err := m.store.Del(context.WithoutCancel(ctx), key); err != nil {
		m.logError(ctx, "idempotency.release_failed", err)
	}
}

func (m *idempotency) logError(ctx context.Context, msg string, err error) {
	if m.logg != nil {
		m.logg.Error(ctx, msg, err)
	}
}

func validateIdempotencyKey(key string) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, IdempotencyKeyHeader+" header required")
	}
	if len(key) > maxIdempotencyKeyLength {
		return pkgerrors.New(pkgerrors.CodeValidation, IdempotencyKeyHeader+" header too long").
			WithDetails(map[string]any{"max_length": maxIdempotencyKeyLength})
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x21 || key[i] > 0x7e {
			return pkgerrors.New(pkgerrors.CodeValidation, IdempotencyKeyHeader+" header must be printable ASCII")
		}
	}
	return nil
}

func requestFingerprint(r *http.Request, body []byte) string {
	h := sha256.New()
	_, _ = io.WriteString(h, r.Method+" "+r.URL.Path+"\n")
	_, _ = h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// bodyRecorder keeps a copy of everything written so it can be replayed.
type bodyRecorder struct {
	statusRecorder
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.statusRecorder.Write(b)
}
