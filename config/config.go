package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"     default:"postgres"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"     default:"salon"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"   default:"Authorization,Content-Type,X-API-Key"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"   default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"   default:"*"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"   default:"300"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Host     string `envconfig:"HOST"      default:"0.0.0.0"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Shutdown struct {
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name        string      `envconfig:"APP_NAME" default:"salon"`
		Timezone    string      `envconfig:"TIMEZONE" default:"UTC"`
		APIKey      string      `envconfig:"API_KEY"`
		CORS        CORS        `envconfig:"CORS"`
		RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Booking struct {
		StoreTimeoutSeconds    int `envconfig:"STORE_TIMEOUT_SECONDS"     default:"5"`
		CatalogCacheTTLSeconds int `envconfig:"CATALOG_CACHE_TTL_SECONDS" default:"300"`
		MaxServicesPerBooking  int `envconfig:"MAX_SERVICES_PER_BOOKING"  default:"10"`
	} `envconfig:"BOOKING"`

	Cache struct {
		TTL   int `envconfig:"TTL" default:"60"`
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"     default:"localhost"`
				Port     string `envconfig:"PORT"     default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			Prefix         string       `envconfig:"PREFIX"`
			MaxRetry       int          `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Enable      bool    `envconfig:"ENABLE"`
			Endpoint    string  `envconfig:"ENDPOINT"     default:"localhost:4317"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
	} `envconfig:"EXTERNAL"`
}

// Load reads an optional .env file and then the process environment into a fresh Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using the process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &cfg, nil
}

var get = sync.OnceValue(func() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	log.Info().Str("env", cfg.Server.Env).Msg("Service configuration initialized")

	return cfg
})

// Get returns the process-wide configuration, loading it on first use.
func Get() *Config {
	return get()
}
