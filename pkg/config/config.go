package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Places        PlacesConfig
	Cron          CronConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"BLOEMEN_APP_ENV" required:"true"`
	Port         string `envconfig:"BLOEMEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLOEMEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLOEMEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLOEMEN_DB_DSN"`
	Driver string `envconfig:"BLOEMEN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BLOEMEN_DB_HOST"`
	Port     int    `envconfig:"BLOEMEN_DB_PORT" default:"5432"`
	User     string `envconfig:"BLOEMEN_DB_USER"`
	Password string `envconfig:"BLOEMEN_DB_PASSWORD"`
	Name     string `envconfig:"BLOEMEN_DB_NAME"`
	SSLMode  string `envconfig:"BLOEMEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOEMEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOEMEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOEMEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOEMEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLOEMEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLOEMEN_REDIS_ADDR"`
	Password     string        `envconfig:"BLOEMEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOEMEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOEMEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOEMEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOEMEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOEMEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOEMEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BLOEMEN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BLOEMEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BLOEMEN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BLOEMEN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BLOEMEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BLOEMEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BLOEMEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BLOEMEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BLOEMEN_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig carries the flat fees applied at checkout, in euro cents.
type CheckoutConfig struct {
	DeliveryFeeCents  int `envconfig:"BLOEMEN_CHECKOUT_DELIVERY_FEE_CENTS" default:"495"`
	InsuranceFeeCents int `envconfig:"BLOEMEN_CHECKOUT_INSURANCE_FEE_CENTS" default:"750"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BLOEMEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BLOEMEN_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BLOEMEN_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BLOEMEN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BLOEMEN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrderEventsTopic        string `envconfig:"BLOEMEN_PUBSUB_ORDER_EVENTS_TOPIC" default:"bvdg-order-events"`
	OrderEventsSubscription string `envconfig:"BLOEMEN_PUBSUB_ORDER_EVENTS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BLOEMEN_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BLOEMEN_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BLOEMEN_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type PlacesConfig struct {
	BaseURL string        `envconfig:"BLOEMEN_PLACES_BASE_URL" default:"https://places.googleapis.com/v1"`
	APIKey  string        `envconfig:"BLOEMEN_PLACES_API_KEY"`
	Timeout time.Duration `envconfig:"BLOEMEN_PLACES_TIMEOUT" default:"10s"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BLOEMEN_AUTH_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"BLOEMEN_AUTH_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit    int           `envconfig:"BLOEMEN_AUTH_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"BLOEMEN_AUTH_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"BLOEMEN_AUTH_REGISTER_IP_LIMIT" default:"20"`
	RegisterEmailLimit int           `envconfig:"BLOEMEN_AUTH_REGISTER_EMAIL_LIMIT" default:"5"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BLOEMEN_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"BLOEMEN_CRON_LOCK_TTL" default:"55m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
