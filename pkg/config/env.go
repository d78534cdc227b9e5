package config

const EnvPrefix = "KANTIN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	CartBackendRedis  = "redis"
	CartBackendSQLite = "sqlite"
	CartBackendMemory = "memory"
)

// Environment variable names referenced from tests and docs.
const (
	EnvAppEnv          = "KANTIN_APP_ENV"
	EnvPort            = "KANTIN_APP_PORT"
	EnvUpstreamBaseURL = "KANTIN_UPSTREAM_BASE_URL"
	EnvUpstreamMakerID = "KANTIN_UPSTREAM_MAKER_ID"
	EnvRedisURL        = "KANTIN_REDIS_URL"
	EnvCartBackend     = "KANTIN_CART_BACKEND"
	EnvSessionSecret   = "KANTIN_SESSION_SECRET"
	EnvSessionIssuer   = "KANTIN_SESSION_ISSUER"
)
