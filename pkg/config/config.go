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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Messaging    MessagingConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MATERIALHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"MATERIALHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MATERIALHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MATERIALHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"MATERIALHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MATERIALHUB_DB_DSN"`
	Driver string `envconfig:"MATERIALHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MATERIALHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"MATERIALHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MATERIALHUB_DB_USER"`
	LegacyPassword string `envconfig:"MATERIALHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"MATERIALHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"MATERIALHUB_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"MATERIALHUB_SQLITE_PATH" default:"materialhub.db"`

	MaxOpenConns    int           `envconfig:"MATERIALHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MATERIALHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MATERIALHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MATERIALHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MATERIALHUB_REDIS_URL"`
	Address      string        `envconfig:"MATERIALHUB_REDIS_ADDR"`
	Password     string        `envconfig:"MATERIALHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"MATERIALHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MATERIALHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MATERIALHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MATERIALHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MATERIALHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MATERIALHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig carries the verification parameters for operator tokens.
// Tokens are minted by the identity service, never here.
type JWTConfig struct {
	Secret string `envconfig:"MATERIALHUB_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"MATERIALHUB_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MATERIALHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MATERIALHUB_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	MaxAge time.Duration `envconfig:"MATERIALHUB_CATALOG_MAX_AGE" default:"30s"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"MATERIALHUB_CART_TTL" default:"72h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MATERIALHUB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CatalogSubscription string `envconfig:"MATERIALHUB_PUBSUB_CATALOG_SUBSCRIPTION"`
}

// Enabled reports whether a catalog change feed is configured.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.CatalogSubscription) != ""
}

type MessagingConfig struct {
	CountryCode string `envconfig:"MATERIALHUB_MESSAGING_COUNTRY_CODE" default:"91"`
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"MATERIALHUB_CRON_INTERVAL" default:"15m"`
	ReconcileGrace     time.Duration `envconfig:"MATERIALHUB_CRON_RECONCILE_GRACE" default:"10m"`
	ReconcileBatchSize int           `envconfig:"MATERIALHUB_CRON_RECONCILE_BATCH" default:"200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
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
