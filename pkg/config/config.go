package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Password PasswordConfig
	Admin    AdminSeedConfig
	Seeder   SeederConfig
	CORS     CORSConfig
}

// Load parses configuration from the environment. Env var names follow the
// deployment's existing conventions (PORT, MONGO_URI, JWT_SECRET, ADMIN_*).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string        `envconfig:"APP_ENV" default:"development"`
	Port           int           `envconfig:"PORT" default:"5000"`
	PortBindTries  int           `envconfig:"PORT_BIND_TRIES" default:"10"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogWarnStack   bool          `envconfig:"LOG_WARN_STACK" default:"false"`
	EnableMetrics  bool          `envconfig:"ENABLE_METRICS" default:"true"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// MongoConfig targets the durable document store. URI may be empty, in which
// case the process runs on the in-memory fallback store alone.
type MongoConfig struct {
	URI            string        `envconfig:"MONGO_URI"`
	Database       string        `envconfig:"MONGO_DB" default:"library"`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"5s"`
	PingTimeout    time.Duration `envconfig:"MONGO_PING_TIMEOUT" default:"2s"`
	ReadyCacheTTL  time.Duration `envconfig:"MONGO_READY_CACHE_TTL" default:"3s"`
}

// JWTConfig holds token signing settings. The secret has no default: the
// process refuses to start without one.
type JWTConfig struct {
	Secret  string `envconfig:"JWT_SECRET" required:"true"`
	TTLDays int    `envconfig:"JWT_TTL_DAYS" default:"7"`
}

// TTL returns the token validity window.
func (j JWTConfig) TTL() time.Duration {
	days := j.TTLDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARGON_KEY_LEN" default:"32"`
}

// AdminSeedConfig describes the administrator account provisioned at startup.
// Seeding is skipped entirely when email or password is unset.
type AdminSeedConfig struct {
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
	Name     string `envconfig:"ADMIN_NAME" default:"Admin"`
}

func (a AdminSeedConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

type SeederConfig struct {
	Interval    time.Duration `envconfig:"SEED_INTERVAL" default:"2s"`
	MaxAttempts int           `envconfig:"SEED_MAX_ATTEMPTS" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	CSPConnectSrc  string   `envconfig:"CSP_CONNECT_SRC" default:"'self' https: http:"`
}
