package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

var log = logging.MustGetLogger("config")

// Config holds every knob the terminal reads at startup.
type Config struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	DBDriver          string        `mapstructure:"db_driver"`
	DBDSN             string        `mapstructure:"db_dsn"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTTTL            time.Duration `mapstructure:"jwt_ttl"`
	AllowRegistration bool          `mapstructure:"allow_registration"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	AMQPURL           string        `mapstructure:"amqp_url"`
	LogLevel          string        `mapstructure:"log_level"`
	TaxRate           float64       `mapstructure:"tax_rate"`
	AutosaveDelay     time.Duration `mapstructure:"autosave_delay"`
	PersistCart       bool          `mapstructure:"persist_cart"`
	StoragePrefix     string        `mapstructure:"storage_prefix"`
	SeedDemo          bool          `mapstructure:"seed_demo"`
}

// field: default value
var optionalFields = map[string]interface{}{
	"port":               8080,
	"base_url":           "http://localhost:8080",
	"db_driver":          "sqlite",
	"db_dsn":             "pos.db",
	"jwt_ttl":            24 * time.Hour,
	"allow_registration": false,
	"cors_origins":       "http://localhost:5173",
	"gemini_api_key":     "",
	"amqp_url":           "",
	"log_level":          "INFO",
	"tax_rate":           15.0,
	"autosave_delay":     100 * time.Millisecond,
	"persist_cart":       false,
	"storage_prefix":     "grillmaster",
	"seed_demo":          true,
}

// Load reads a .env file (if present) and the process environment.
// Environment variables take precedence over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warning("No .env file found, using environment only")
	}
	return FromViper(viper.New())
}

// FromViper binds every known key on v to the environment and decodes it.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	for field, defaultValue := range optionalFields {
		v.SetDefault(field, defaultValue)
		if err := v.BindEnv(field); err != nil {
			return nil, fmt.Errorf("bind %s: %w", field, err)
		}
	}
	if err := v.BindEnv("jwt_secret"); err != nil {
		return nil, fmt.Errorf("bind jwt_secret: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("cors_origins"))

	switch cfg.DBDriver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", cfg.DBDriver)
	}
	if cfg.TaxRate < 0 {
		return nil, fmt.Errorf("TAX_RATE must not be negative, got %v", cfg.TaxRate)
	}

	return &cfg, nil
}

// RequireServing checks the keys only the HTTP server needs.
func (c *Config) RequireServing() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("missing required config field: jwt_secret")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
