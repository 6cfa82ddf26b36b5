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
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Backend      BackendConfig
	Editor       EditorConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WEBTHEME_APP_ENV" required:"true"`
	Port         string `envconfig:"WEBTHEME_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WEBTHEME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WEBTHEME_LOG_WARN_STACK" default:"false"`

	// CORSOrigins lists the editor frontends allowed to call the API.
	CORSOrigins []string `envconfig:"WEBTHEME_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN        string `envconfig:"WEBTHEME_DB_DSN"`
	Driver     string `envconfig:"WEBTHEME_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"WEBTHEME_SQLITE_PATH" default:"file:webtheme.db?cache=shared"`

	LegacyHost     string `envconfig:"WEBTHEME_DB_HOST"`
	LegacyPort     int    `envconfig:"WEBTHEME_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WEBTHEME_DB_USER"`
	LegacyPassword string `envconfig:"WEBTHEME_DB_PASSWORD"`
	LegacyName     string `envconfig:"WEBTHEME_DB_NAME"`
	LegacySSLMode  string `envconfig:"WEBTHEME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WEBTHEME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WEBTHEME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WEBTHEME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WEBTHEME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WEBTHEME_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WEBTHEME_REDIS_ADDR"`
	Password     string        `envconfig:"WEBTHEME_REDIS_PASSWORD"`
	DB           int           `envconfig:"WEBTHEME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WEBTHEME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WEBTHEME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WEBTHEME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WEBTHEME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WEBTHEME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WEBTHEME_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WEBTHEME_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WEBTHEME_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WEBTHEME_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WEBTHEME_AUTO_MIGRATE" default:"false"`
}

// BackendConfig points at the storefront settings backend.
type BackendConfig struct {
	BaseURL          string        `envconfig:"WEBTHEME_BACKEND_BASE_URL" required:"true"`
	Timeout          time.Duration `envconfig:"WEBTHEME_BACKEND_TIMEOUT" default:"15s"`
	RetryMaxAttempts int           `envconfig:"WEBTHEME_BACKEND_RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay   time.Duration `envconfig:"WEBTHEME_BACKEND_RETRY_BASE_DELAY" default:"500ms"`
	RetryMultiplier  float64       `envconfig:"WEBTHEME_BACKEND_RETRY_MULTIPLIER" default:"2"`
}

func (b BackendConfig) validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvBackendBaseURL, b.BaseURL)
	}
	if b.RetryMaxAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", EnvBackendRetryMaxAttempts)
	}
	return nil
}

type EditorConfig struct {
	DraftTTL          time.Duration `envconfig:"WEBTHEME_EDITOR_DRAFT_TTL" default:"24h"`
	BaselineTTL       time.Duration `envconfig:"WEBTHEME_EDITOR_BASELINE_TTL" default:"72h"`
	SaveLockTTL       time.Duration `envconfig:"WEBTHEME_EDITOR_SAVE_LOCK_TTL" default:"30s"`
	ReferenceTimeout  time.Duration `envconfig:"WEBTHEME_EDITOR_REFERENCE_TIMEOUT" default:"10s"`
	MemoSize          int           `envconfig:"WEBTHEME_EDITOR_MEMO_SIZE" default:"64"`
	RevisionRetention int           `envconfig:"WEBTHEME_EDITOR_REVISION_RETENTION" default:"50"`
	SaveRateLimit     int           `envconfig:"WEBTHEME_EDITOR_SAVE_RATE_LIMIT" default:"20"`
	SaveRateWindow    time.Duration `envconfig:"WEBTHEME_EDITOR_SAVE_RATE_WINDOW" default:"1m"`
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
