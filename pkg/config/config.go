package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BLENDERY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BLENDERY_DB_DSN"
	EnvDBHost = "BLENDERY_DB_HOST"
	EnvDBUser = "BLENDERY_DB_USER"
	EnvDBName = "BLENDERY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Points       PointsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
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
	Env          string `envconfig:"BLENDERY_APP_ENV" required:"true"`
	Port         string `envconfig:"BLENDERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLENDERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLENDERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BLENDERY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BLENDERY_DB_DSN"`
	Driver string `envconfig:"BLENDERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLENDERY_DB_HOST"`
	LegacyPort     int    `envconfig:"BLENDERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLENDERY_DB_USER"`
	LegacyPassword string `envconfig:"BLENDERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLENDERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLENDERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLENDERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLENDERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLENDERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLENDERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLENDERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLENDERY_REDIS_ADDR"`
	Password     string        `envconfig:"BLENDERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLENDERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLENDERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLENDERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLENDERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLENDERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLENDERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BLENDERY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BLENDERY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BLENDERY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BLENDERY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BLENDERY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BLENDERY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BLENDERY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BLENDERY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BLENDERY_ARGON_KEY_LEN" default:"32"`
}

// PointsConfig carries the fixed loyalty awards handed out by lifecycle hooks.
type PointsConfig struct {
	PublishBonus      int `envconfig:"BLENDERY_POINTS_PUBLISH_BONUS" default:"50"`
	RegistrationBonus int `envconfig:"BLENDERY_POINTS_REGISTRATION_BONUS" default:"100"`
	ReviewBonus       int `envconfig:"BLENDERY_POINTS_REVIEW_BONUS" default:"10"`
	SaleCommission    int `envconfig:"BLENDERY_POINTS_SALE_COMMISSION" default:"25"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLENDERY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BLENDERY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BLENDERY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BLENDERY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"BLENDERY_PUBSUB_DOMAIN_TOPIC" default:"blendery-domain-events"`
	DomainSubscription string `envconfig:"BLENDERY_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"BLENDERY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"BLENDERY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"BLENDERY_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"BLENDERY_OUTBOX_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BLENDERY_CRON_INTERVAL" default:"1h"`
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
