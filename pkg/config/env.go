package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "WEBTHEME"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "WEBTHEME_APP_ENV"
	EnvPort     = "WEBTHEME_APP_PORT"
	EnvLogLevel = "WEBTHEME_LOG_LEVEL"

	EnvDBDSN  = "WEBTHEME_DB_DSN"
	EnvDBHost = "WEBTHEME_DB_HOST"
	EnvDBUser = "WEBTHEME_DB_USER"
	EnvDBName = "WEBTHEME_DB_NAME"

	EnvRedisURL = "WEBTHEME_REDIS_URL"

	EnvJWTSecret  = "WEBTHEME_JWT_SECRET"
	EnvJWTIssuer  = "WEBTHEME_JWT_ISSUER"
	EnvJWTExpMins = "WEBTHEME_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "WEBTHEME_USE_SQLITE"
	EnvAutoMigrate = "WEBTHEME_AUTO_MIGRATE"

	EnvBackendBaseURL          = "WEBTHEME_BACKEND_BASE_URL"
	EnvBackendRetryMaxAttempts = "WEBTHEME_BACKEND_RETRY_MAX_ATTEMPTS"

	EnvEditorReferenceTimeout = "WEBTHEME_EDITOR_REFERENCE_TIMEOUT"
)

// legacyDBEnvVars must all be set when no DSN is given.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
