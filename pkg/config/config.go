package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexim39/marketspase-engine/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable consumed by the engine.
const EnvPrefix = "MARKETSPASE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Storage StorageConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKETSPASE_APP_ENV" default:"dev"`
	Port         string `envconfig:"MARKETSPASE_APP_PORT" default:"8085"`
	LogLevel     string `envconfig:"MARKETSPASE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKETSPASE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the upstream product catalog snapshot loaded at boot.
type CatalogConfig struct {
	Path string `envconfig:"MARKETSPASE_CATALOG_PATH"`
	URL  string `envconfig:"MARKETSPASE_CATALOG_URL"`
}

type StorageConfig struct {
	Backend string `envconfig:"MARKETSPASE_STORAGE_BACKEND" default:"file"`
	DataDir string `envconfig:"MARKETSPASE_STORAGE_DATA_DIR" default:".marketspase"`
	// SQLitePath is the database file used when the sqlite backend is selected.
	SQLitePath string `envconfig:"MARKETSPASE_STORAGE_SQLITE_PATH" default:".marketspase/state.db"`
}

// BackendKind returns the validated storage backend selector.
func (s StorageConfig) BackendKind() enums.StorageBackend {
	backend, err := enums.ParseStorageBackend(strings.ToLower(strings.TrimSpace(s.Backend)))
	if err != nil {
		return enums.StorageFile
	}
	return backend
}

func (s StorageConfig) validate() error {
	if _, err := enums.ParseStorageBackend(strings.ToLower(strings.TrimSpace(s.Backend))); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETSPASE_REDIS_URL"`
	Address      string        `envconfig:"MARKETSPASE_REDIS_ADDR"`
	Password     string        `envconfig:"MARKETSPASE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETSPASE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETSPASE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETSPASE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETSPASE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETSPASE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETSPASE_REDIS_WRITE_TIMEOUT" default:"5s"`
}
