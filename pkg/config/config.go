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
	Checkout      CheckoutConfig
	Mail          MailConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env           string `envconfig:"PROCIFARMED_APP_ENV" required:"true"`
	Port          string `envconfig:"PROCIFARMED_APP_PORT" required:"true"`
	LogLevel      string `envconfig:"PROCIFARMED_LOG_LEVEL" default:"info"`
	LogWarnStack  bool   `envconfig:"PROCIFARMED_LOG_WARN_STACK" default:"false"`
	LogFormat     string `envconfig:"PROCIFARMED_LOG_FORMAT" default:"json"`
	PublicBaseURL string `envconfig:"PROCIFARMED_PUBLIC_BASE_URL" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PROCIFARMED_DB_DSN"`
	Driver string `envconfig:"PROCIFARMED_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PROCIFARMED_DB_HOST"`
	LegacyPort     int    `envconfig:"PROCIFARMED_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROCIFARMED_DB_USER"`
	LegacyPassword string `envconfig:"PROCIFARMED_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROCIFARMED_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROCIFARMED_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PROCIFARMED_SQLITE_PATH" default:"procifarmed.db"`

	MaxOpenConns    int           `envconfig:"PROCIFARMED_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROCIFARMED_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROCIFARMED_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROCIFARMED_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PROCIFARMED_REDIS_URL"`
	Address      string        `envconfig:"PROCIFARMED_REDIS_ADDR"`
	Password     string        `envconfig:"PROCIFARMED_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROCIFARMED_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROCIFARMED_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROCIFARMED_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROCIFARMED_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROCIFARMED_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROCIFARMED_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PROCIFARMED_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PROCIFARMED_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PROCIFARMED_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PROCIFARMED_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROCIFARMED_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROCIFARMED_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROCIFARMED_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROCIFARMED_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROCIFARMED_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"PROCIFARMED_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"PROCIFARMED_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	PixKey         string        `envconfig:"PROCIFARMED_PIX_KEY" default:"(definir)"`
	PixBeneficiary string        `envconfig:"PROCIFARMED_PIX_BENEFICIARY" default:"Procifarmed (definir)"`
	IdempotencyTTL time.Duration `envconfig:"PROCIFARMED_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type MailConfig struct {
	Host     string `envconfig:"PROCIFARMED_SMTP_HOST"`
	Port     int    `envconfig:"PROCIFARMED_SMTP_PORT" default:"587"`
	Username string `envconfig:"PROCIFARMED_SMTP_USERNAME"`
	Password string `envconfig:"PROCIFARMED_SMTP_PASSWORD"`
	From     string `envconfig:"PROCIFARMED_SMTP_FROM" default:"Procifarmed <pedidos@procifarmed.com.br>"`
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PROCIFARMED_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PROCIFARMED_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PROCIFARMED_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"PROCIFARMED_SEED_CATALOG" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
