package config

const (
	EnvPrefix = "PAWFECTFIND"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable names referenced by tests and error messages.
const (
	EnvAppEnv      = "PAWFECTFIND_APP_ENV"
	EnvPort        = "PAWFECTFIND_APP_PORT"
	EnvDBDSN       = "PAWFECTFIND_DB_DSN"
	EnvDBHost      = "PAWFECTFIND_DB_HOST"
	EnvDBUser      = "PAWFECTFIND_DB_USER"
	EnvDBName      = "PAWFECTFIND_DB_NAME"
	EnvDBPassword  = "PAWFECTFIND_DB_PASSWORD"
	EnvUseSQLite   = "PAWFECTFIND_USE_SQLITE"
	EnvRedisURL    = "PAWFECTFIND_REDIS_URL"
	EnvJWTSecret   = "PAWFECTFIND_JWT_SECRET"
	EnvJWTIssuer   = "PAWFECTFIND_JWT_ISSUER"
	EnvMatchTTL    = "PAWFECTFIND_MATCH_CACHE_TTL"
	EnvRetryMax    = "PAWFECTFIND_RETRY_MAX_RETRIES"
	EnvQuoteLimit  = "PAWFECTFIND_RATE_LIMIT_QUOTE_LIMIT"
	EnvCronEvery   = "PAWFECTFIND_CRON_INTERVAL"
	EnvGuestTTL    = "PAWFECTFIND_GUEST_TTL"
	EnvLogFormat   = "PAWFECTFIND_LOG_FORMAT"
	EnvAutoMigrate = "PAWFECTFIND_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
