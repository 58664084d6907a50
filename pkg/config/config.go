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
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	Razorpay      RazorpayConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"CRYSTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"CRYSTAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CRYSTAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CRYSTAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CRYSTAL_DB_DSN"`
	Driver string `envconfig:"CRYSTAL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CRYSTAL_DB_HOST"`
	Port     int    `envconfig:"CRYSTAL_DB_PORT" default:"5432"`
	User     string `envconfig:"CRYSTAL_DB_USER"`
	Password string `envconfig:"CRYSTAL_DB_PASSWORD"`
	Name     string `envconfig:"CRYSTAL_DB_NAME"`
	SSLMode  string `envconfig:"CRYSTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CRYSTAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CRYSTAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CRYSTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CRYSTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CRYSTAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CRYSTAL_REDIS_ADDR"`
	Password     string        `envconfig:"CRYSTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"CRYSTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CRYSTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CRYSTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CRYSTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CRYSTAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CRYSTAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CRYSTAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CRYSTAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CRYSTAL_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CRYSTAL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CRYSTAL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CRYSTAL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CRYSTAL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CRYSTAL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginPhoneLimit    int           `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_LOGIN_PHONE_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterPhoneLimit int           `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_REGISTER_PHONE_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CRYSTAL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CartConfig holds the storefront pricing knobs that are not derived from
// the cart contents themselves.
type CartConfig struct {
	ShippingFlat string `envconfig:"CRYSTAL_CART_SHIPPING_FLAT" default:"9.99"`
}

type CatalogConfig struct {
	RetryAttempts int           `envconfig:"CRYSTAL_CATALOG_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"CRYSTAL_CATALOG_RETRY_DELAY" default:"1s"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"CRYSTAL_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"CRYSTAL_RAZORPAY_KEY_SECRET"`
	BaseURL   string `envconfig:"CRYSTAL_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	Currency  string `envconfig:"CRYSTAL_RAZORPAY_CURRENCY" default:"INR"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CRYSTAL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if legacyValues[env] == "" {
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
