package config

// EnvPrefix is passed to envconfig.Process; the struct tags already carry
// fully qualified names, so no extra prefix is applied.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared by Load, the binaries, and tests.
const (
	EnvAppEnv       = "TABLERIO_APP_ENV"
	EnvPort         = "TABLERIO_APP_PORT"
	EnvLogLevel     = "TABLERIO_LOG_LEVEL"
	EnvDBDSN        = "TABLERIO_DB_DSN"
	EnvDBHost       = "TABLERIO_DB_HOST"
	EnvDBPort       = "TABLERIO_DB_PORT"
	EnvDBUser       = "TABLERIO_DB_USER"
	EnvDBPassword   = "TABLERIO_DB_PASSWORD"
	EnvDBName       = "TABLERIO_DB_NAME"
	EnvDBSSLMode    = "TABLERIO_DB_SSLMODE"
	EnvRedisURL     = "TABLERIO_REDIS_URL"
	EnvCacheRuleTTL = "TABLERIO_CACHE_RULE_TTL"
	EnvCacheQuoteTTL = "TABLERIO_CACHE_QUOTE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
