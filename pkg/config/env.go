package config

const (
	EnvPrefix = "PROCIFARMED"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "PROCIFARMED_APP_ENV"
	EnvPort     = "PROCIFARMED_APP_PORT"
	EnvLogLevel = "PROCIFARMED_LOG_LEVEL"

	EnvDBDSN  = "PROCIFARMED_DB_DSN"
	EnvDBHost = "PROCIFARMED_DB_HOST"
	EnvDBUser = "PROCIFARMED_DB_USER"
	EnvDBName = "PROCIFARMED_DB_NAME"

	EnvRedisURL = "PROCIFARMED_REDIS_URL"

	EnvJWTSecret              = "PROCIFARMED_JWT_SECRET"
	EnvJWTIssuer              = "PROCIFARMED_JWT_ISSUER"
	EnvJWTExpMins             = "PROCIFARMED_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PROCIFARMED_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite              = "PROCIFARMED_USE_SQLITE"
	EnvCORSAllowedOrigins     = "PROCIFARMED_CORS_ALLOWED_ORIGINS"
	EnvCheckoutIdempotencyTTL = "PROCIFARMED_CHECKOUT_IDEMPOTENCY_TTL"
	EnvSMTPHost               = "PROCIFARMED_SMTP_HOST"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
