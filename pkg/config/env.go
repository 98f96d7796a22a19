package config

// EnvPrefix is passed to envconfig; every field carries its full name in its tag.
const EnvPrefix = "MATERIALHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "MATERIALHUB_APP_ENV"
	EnvPort      = "MATERIALHUB_APP_PORT"
	EnvDBDSN     = "MATERIALHUB_DB_DSN"
	EnvDBHost    = "MATERIALHUB_DB_HOST"
	EnvDBUser    = "MATERIALHUB_DB_USER"
	EnvDBName    = "MATERIALHUB_DB_NAME"
	EnvUseSQLite = "MATERIALHUB_USE_SQLITE"
	EnvRedisURL  = "MATERIALHUB_REDIS_URL"
	EnvJWTSecret = "MATERIALHUB_JWT_SECRET"
	EnvJWTIssuer = "MATERIALHUB_JWT_ISSUER"

	EnvCartTTL              = "MATERIALHUB_CART_TTL"
	EnvCatalogMaxAge        = "MATERIALHUB_CATALOG_MAX_AGE"
	EnvPubSubCatalogSub     = "MATERIALHUB_PUBSUB_CATALOG_SUBSCRIPTION"
	EnvGCPProjectID         = "MATERIALHUB_GCP_PROJECT_ID"
	EnvCronReconcileGrace   = "MATERIALHUB_CRON_RECONCILE_GRACE"
	EnvMessagingCountryCode = "MATERIALHUB_MESSAGING_COUNTRY_CODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
