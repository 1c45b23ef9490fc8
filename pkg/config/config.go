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
	JWT          JWTConfig
	Storage      StorageConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if cfg.DB.Driver == "sqlite" {
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"IMAGEFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"IMAGEFLOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"IMAGEFLOW_LOG_LEVEL" default:"info"`
	LogConsole   bool   `envconfig:"IMAGEFLOW_LOG_CONSOLE" default:"false"`
	LogWarnStack bool   `envconfig:"IMAGEFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"IMAGEFLOW_DB_DSN"`
	Driver string `envconfig:"IMAGEFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"IMAGEFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"IMAGEFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"IMAGEFLOW_DB_USER"`
	LegacyPassword string `envconfig:"IMAGEFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"IMAGEFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"IMAGEFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"IMAGEFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"IMAGEFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"IMAGEFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"IMAGEFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"IMAGEFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"IMAGEFLOW_JWT_ISSUER" required:"true"`
	Audience          string `envconfig:"IMAGEFLOW_JWT_AUDIENCE" required:"true"`
	ExpirationMinutes int    `envconfig:"IMAGEFLOW_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type StorageConfig struct {
	Dir          string `envconfig:"IMAGEFLOW_STORAGE_DIR" default:"images"`
	PublicPrefix string `envconfig:"IMAGEFLOW_STORAGE_PUBLIC_PREFIX" default:"/images"`
	MaxUploadMB  int    `envconfig:"IMAGEFLOW_MAX_UPLOAD_MB" default:"50"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"IMAGEFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"IMAGEFLOW_AUTO_MIGRATE" default:"false"`
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
