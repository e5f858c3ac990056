package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Matching     MatchingConfig
	Guest        GuestConfig
	Retry        RetryConfig
	RateLimit    RateLimitConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PAWFECTFIND_APP_ENV" required:"true"`
	Port         string `envconfig:"PAWFECTFIND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAWFECTFIND_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PAWFECTFIND_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PAWFECTFIND_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list. Empty uses the built-in set.
	CORSOrigins []string `envconfig:"PAWFECTFIND_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAWFECTFIND_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAWFECTFIND_DB_DSN"`
	Driver string `envconfig:"PAWFECTFIND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAWFECTFIND_DB_HOST"`
	LegacyPort     int    `envconfig:"PAWFECTFIND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAWFECTFIND_DB_USER"`
	LegacyPassword string `envconfig:"PAWFECTFIND_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAWFECTFIND_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAWFECTFIND_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PAWFECTFIND_SQLITE_PATH" default:"pawfectfind.db"`

	MaxOpenConns    int           `envconfig:"PAWFECTFIND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAWFECTFIND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAWFECTFIND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAWFECTFIND_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements slower than this; 0 disables.
	SlowQueryThreshold time.Duration `envconfig:"PAWFECTFIND_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PAWFECTFIND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PAWFECTFIND_REDIS_ADDR"`
	Password     string        `envconfig:"PAWFECTFIND_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAWFECTFIND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAWFECTFIND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAWFECTFIND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAWFECTFIND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAWFECTFIND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAWFECTFIND_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"PAWFECTFIND_REDIS_NAMESPACE" default:"pawfect"`
}

// JWTConfig describes the tokens issued by the identity provider.
type JWTConfig struct {
	Secret            string `envconfig:"PAWFECTFIND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PAWFECTFIND_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PAWFECTFIND_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PAWFECTFIND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PAWFECTFIND_AUTO_MIGRATE" default:"false"`
}

// MatchingConfig tunes the recommendation cache.
type MatchingConfig struct {
	CacheTTL time.Duration `envconfig:"PAWFECTFIND_MATCH_CACHE_TTL" default:"15m"`
}

// GuestConfig controls how long temporary dog profiles live before sign in.
type GuestConfig struct {
	TTL time.Duration `envconfig:"PAWFECTFIND_GUEST_TTL" default:"720h"`
}

// RetryConfig bounds the backoff applied to catalog and storage reads.
type RetryConfig struct {
	MaxRetries   uint64        `envconfig:"PAWFECTFIND_RETRY_MAX_RETRIES" default:"3"`
	InitialDelay time.Duration `envconfig:"PAWFECTFIND_RETRY_INITIAL_DELAY" default:"1s"`
	MaxDelay     time.Duration `envconfig:"PAWFECTFIND_RETRY_MAX_DELAY" default:"10s"`
}

type RateLimitConfig struct {
	QuoteWindow time.Duration `envconfig:"PAWFECTFIND_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteLimit  int           `envconfig:"PAWFECTFIND_RATE_LIMIT_QUOTE_LIMIT" default:"60"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PAWFECTFIND_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"PAWFECTFIND_CRON_LOCK_TTL" default:"55m"`
	// WarmCategories are warmed per breed on top of the whole catalog.
	WarmCategories []string `envconfig:"PAWFECTFIND_CRON_WARM_CATEGORIES"`
	AuditBatchSize int      `envconfig:"PAWFECTFIND_CRON_AUDIT_BATCH_SIZE" default:"200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
