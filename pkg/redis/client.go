package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawfectfind/pawfectfind-backend/pkg/config"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

const defaultNamespace = "pawfect"

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	Eval(context.Context, string, []string, ...any) *redis.Cmd
}

// compareAndDelete removes KEYS[1] only while it still holds ARGV[1].
const compareAndDelete = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Client backs the match cache, guest dog sessions, worker locks, rate
// limits and idempotency records.
type Client struct {
	Keyspace
	store cmdable
	raw   *redis.Client
	now   func() time.Time
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore is the subset of the client used to replay mutating
// requests.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// Window is the outcome of one fixed-window rate limit check.
type Window struct {
	Allowed bool
	Count   int64
	ResetIn time.Duration
}

// New dials Redis with the configured pool and timeouts and verifies the
// connection with a ping.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"db":        opts.DB,
			"namespace": cfg.Namespace,
		}), "redis connection established")
	}
	return &Client{Keyspace: NewKeyspace(cfg.Namespace), store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	case cfg.Address == "":
		return nil, errors.New("redis url or address is required")
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

func (c *Client) conn() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

func (c *Client) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Set stores value at key; ttl 0 keeps it until deleted.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns the string at key. A missing key yields an error matching IsMiss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.conn()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

// SetNX stores value only when key is absent and reports whether it did.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	store, err := c.conn()
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, value, ttl).Result()
}

// Del removes keys; absent keys are ignored.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Del(ctx, keys...).Err()
}

// CompareAndDelete atomically deletes key if its value is still value and
// reports whether it did.
func (c *Client) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	store, err := c.conn()
	if err != nil {
		return false, err
	}
	n, err := store.Eval(ctx, compareAndDelete, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetJSON encodes value as JSON and stores it with ttl.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return c.Set(ctx, key, payload, ttl)
}

// GetJSON decodes the JSON stored at key into dest. found is false when the
// key is absent.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.Get(ctx, key)
	switch {
	case IsMiss(err):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// FixedWindowAllow counts one hit for scope in the current window. Windows
// are aligned to multiples of window since the epoch, so every replica
// shares the same bucket and ResetIn is exact.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if window <= 0 {
		return Window{}, fmt.Errorf("rate limit window must be positive")
	}
	store, err := c.conn()
	if err != nil {
		return Window{}, err
	}

	now := c.clock()
	bucket := now.UnixNano() / int64(window)
	resetIn := time.Duration((bucket+1)*int64(window) - now.UnixNano())
	key := c.RateLimitKey(scope, strconv.FormatInt(bucket, 10))

	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, err
	}
	if count == 1 {
		// The bucket key is never reused, so a lost EXPIRE only leaks memory.
		if err := store.Expire(ctx, key, resetIn+time.Second).Err(); err != nil {
			return Window{}, err
		}
	}
	return Window{Allowed: count <= limit, Count: count, ResetIn: resetIn}, nil
}

// IsMiss reports whether err signals a missing key.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Ping(ctx).Err()
}

// Close shuts down the underlying connection pool if one was dialed.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Keyspace lays out every key the service writes under one namespace:
//
//	<ns>:idempotency:<scope>:<key>
//	<ns>:rate_limit:<policy>:<caller>:<bucket>
//	<ns>:match:<breed>:<size>:<category>
//	<ns>:guest:<token>:dogs
//	<ns>:lock:<job>
type Keyspace struct {
	namespace string
}

// NewKeyspace returns a keyspace rooted at namespace, defaulting to "pawfect".
func NewKeyspace(namespace string) Keyspace {
	return Keyspace{namespace: strings.TrimSpace(namespace)}
}

// IdempotencyKey addresses a stored response for an Idempotency-Key.
func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.key("idempotency", scope, id)
}

// RateLimitKey addresses one rate limit counter bucket.
func (k Keyspace) RateLimitKey(scope, bucket string) string {
	return k.key("rate_limit", scope, bucket)
}

// MatchCacheKey identifies one cached recommendation result. Breed names are
// lower-cased so "Beagle" and "beagle" share an entry.
func (k Keyspace) MatchCacheKey(breed, size, categoryID string) string {
	if categoryID == "" {
		categoryID = "all"
	}
	return k.key("match", strings.ToLower(strings.TrimSpace(breed)), size, categoryID)
}

// GuestDogsKey addresses the temporary dog profiles kept for a guest session.
func (k Keyspace) GuestDogsKey(token string) string {
	return k.key("guest", token, "dogs")
}

// LockKey addresses the lock guarding a singleton job.
func (k Keyspace) LockKey(name string) string {
	return k.key("lock", name)
}

func (k Keyspace) key(parts ...string) string {
	ns := k.namespace
	if ns == "" {
		ns = defaultNamespace
	}
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, ns)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, ":")
}
