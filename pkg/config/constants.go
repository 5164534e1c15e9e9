package config

const (
	EnvPrefix = "FRESHKART"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "FRESHKART_APP_ENV"

	EnvDBDSN  = "FRESHKART_DB_DSN"
	EnvDBHost = "FRESHKART_DB_HOST"
	EnvDBUser = "FRESHKART_DB_USER"
	EnvDBName = "FRESHKART_DB_NAME"

	EnvRedisURL  = "FRESHKART_REDIS_URL"
	EnvJWTSecret = "FRESHKART_JWT_SECRET"
)
