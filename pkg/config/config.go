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
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TABLERIO_APP_ENV" required:"true"`
	Port         string `envconfig:"TABLERIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TABLERIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TABLERIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TABLERIO_DB_DSN"`
	Driver string `envconfig:"TABLERIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TABLERIO_DB_HOST"`
	LegacyPort     int    `envconfig:"TABLERIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TABLERIO_DB_USER"`
	LegacyPassword string `envconfig:"TABLERIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"TABLERIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"TABLERIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TABLERIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TABLERIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TABLERIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TABLERIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TABLERIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TABLERIO_REDIS_ADDR"`
	Password     string        `envconfig:"TABLERIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TABLERIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TABLERIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TABLERIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TABLERIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TABLERIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TABLERIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig carries the two TTL classes used by the cache-aside layer.
// Rule and catalog snapshots change only through admin edits (which also
// invalidate explicitly), so they live long; computed quotes use a shorter
// TTL as the staleness bound when an invalidation is missed.
type CacheConfig struct {
	RuleTTL  time.Duration `envconfig:"TABLERIO_CACHE_RULE_TTL" default:"12h"`
	QuoteTTL time.Duration `envconfig:"TABLERIO_CACHE_QUOTE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TABLERIO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
