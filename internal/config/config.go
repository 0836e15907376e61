package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"app"`

	Server struct {
		Host               string   `mapstructure:"host"`
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Path         string `mapstructure:"path"`
		ResourcePath string `mapstructure:"resource_path"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
		Audience        string `mapstructure:"audience"`
	} `mapstructure:"jwt"`

	Auth struct {
		MaxLoginAttempts int    `mapstructure:"max_login_attempts"`
		LockoutMinutes   int    `mapstructure:"lockout_minutes"`
		SeedUsername     string `mapstructure:"seed_username"`
		SeedPassword     string `mapstructure:"seed_password"`
		SeedEmail        string `mapstructure:"seed_email"`
	} `mapstructure:"auth"`

	Customer struct {
		CodePrefix  string `mapstructure:"code_prefix"`
		CodePattern string `mapstructure:"code_pattern"`
		CodeMin     int    `mapstructure:"code_min"`
		CodeMax     int    `mapstructure:"code_max"`
	} `mapstructure:"customer"`

	Scheme struct {
		DefaultStartDate string `mapstructure:"default_start_date"`
	} `mapstructure:"scheme"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Backup BackupConfig `mapstructure:"backup"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// IsDevelopment reports whether the store should live next to the binary
// instead of under the per-user config directory.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DatabaseFile resolves the SQLite file location for the current mode.
func (c *Config) DatabaseFile() (string, error) {
	if c.IsDevelopment() {
		return c.Database.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "nxq", "nxq.db"), nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads configs/config.yaml (optional), .env (optional) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	applyLegacyEnv(&cfg)

	if cfg.JWT.Secret == "" {
		if cfg.IsDevelopment() {
			cfg.JWT.Secret = "nxq-development-secret"
		} else {
			return nil, fmt.Errorf("JWT_SECRET not set")
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8765)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000", "app://nxq"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("database.path", "./data/nxq.db")
	v.SetDefault("database.resource_path", "./resources/nxq.db")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "nxq-app")
	v.SetDefault("jwt.audience", "nxq-users")
	v.SetDefault("auth.max_login_attempts", 5)
	v.SetDefault("auth.lockout_minutes", 15)
	v.SetDefault("auth.seed_username", "admin")
	v.SetDefault("auth.seed_password", "admin123")
	v.SetDefault("auth.seed_email", "admin@nxq.com")
	v.SetDefault("customer.code_prefix", "GD7")
	v.SetDefault("customer.code_pattern", `^[A-Za-z0-9]+[- ]?\d+$`)
	v.SetDefault("customer.code_min", 1)
	v.SetDefault("customer.code_max", 9999)
	v.SetDefault("scheme.default_start_date", "2024-12-15")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	setBackupDefaults(v)
}

// applyLegacyEnv honours the flat variable names used by existing installs.
func applyLegacyEnv(cfg *Config) {
	if env := os.Getenv("NODE_ENV"); env != "" && os.Getenv("APP_ENV") == "" {
		cfg.App.Env = env
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if expiry := os.Getenv("TOKEN_EXPIRY"); expiry != "" {
		if hours, ok := parseHours(expiry); ok {
			cfg.JWT.ExpirationHours = hours
		}
	}
	if n, err := strconv.Atoi(os.Getenv("MAX_LOGIN_ATTEMPTS")); err == nil && n > 0 {
		cfg.Auth.MaxLoginAttempts = n
	}
	// LOCKOUT_DURATION is expressed in minutes
	if mins, err := strconv.Atoi(os.Getenv("LOCKOUT_DURATION")); err == nil && mins > 0 {
		cfg.Auth.LockoutMinutes = mins
	}
	if prefix := os.Getenv("CUSTOMER_CODE_PREFIX"); prefix != "" {
		cfg.Customer.CodePrefix = prefix
	}
	if date := os.Getenv("DEFAULT_START_DATE"); date != "" {
		cfg.Scheme.DefaultStartDate = date
	}
}

// parseHours accepts "24", "24h" or "1d".
func parseHours(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	mult := 1
	switch {
	case strings.HasSuffix(s, "d"):
		mult, s = 24, strings.TrimSuffix(s, "d")
	case strings.HasSuffix(s, "h"):
		s = strings.TrimSuffix(s, "h")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * mult, true
}
