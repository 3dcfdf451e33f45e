package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// ErrConfiguration marks missing or invalid configuration values.
var ErrConfiguration = errors.New("configuration error")

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	DefaultAdminUsername = "admin"
	DefaultDatabasePath  = "data.db"
	DefaultBcryptCost    = 12
	DefaultServerAddr    = ":8081"

	maxUsernameLen = 100
)

type Config struct {
	Admin     AdminConfig  `mapstructure:"admin"`
	DB        DBConfig     `mapstructure:"db"`
	Server    ServerConfig `mapstructure:"server"`
	Log       LogConfig    `mapstructure:"log"`
	SecretKey string       `mapstructure:"secret_key"`
}

type AdminConfig struct {
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables operators set.
var envBindings = map[string]string{
	"admin.username":    "ADMIN_USERNAME",
	"admin.password":    "ADMIN_PASSWORD",
	"admin.bcrypt_cost": "BCRYPT_COST",
	"db.driver":         "DATABASE_DRIVER",
	"db.path":           "DATABASE_PATH",
	"db.dsn":            "DATABASE_DSN",
	"db.maxOpenConns":   "DATABASE_MAX_OPEN_CONNS",
	"server.addr":       "SERVER_ADDR",
	"log.level":         "LOG_LEVEL",
	"secret_key":        "SECRET_KEY",
}

// LoadConfig loads configuration from an optional config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.norahairline/")
	v.AddConfigPath("/etc/norahairline/")

	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// The config file is optional; environment variables alone are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", ErrConfiguration, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("admin.username", DefaultAdminUsername)
	v.SetDefault("admin.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", DefaultDatabasePath)
	v.SetDefault("db.maxOpenConns", 1)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("log.level", "info")
}

// Validate checks the values that Bootstrap and Reset rely on.
func (c *Config) Validate() error {
	c.Admin.Username = strings.TrimSpace(c.Admin.Username)
	if c.Admin.Username == "" {
		return fmt.Errorf("%w: ADMIN_USERNAME must not be empty", ErrConfiguration)
	}
	if utf8.RuneCountInString(c.Admin.Username) > maxUsernameLen {
		return fmt.Errorf("%w: ADMIN_USERNAME exceeds %d characters", ErrConfiguration, maxUsernameLen)
	}

	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("%w: DATABASE_PATH must not be empty", ErrConfiguration)
		}
	case DriverMySQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required when DATABASE_DRIVER=mysql", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported DATABASE_DRIVER %q", ErrConfiguration, c.DB.Driver)
	}

	return nil
}

// Location describes where the store lives without exposing DSN credentials.
func (c *DBConfig) Location() string {
	if c.Driver == DriverMySQL {
		if i := strings.LastIndex(c.DSN, "@"); i >= 0 {
			return "mysql://" + c.DSN[i+1:]
		}
		return "mysql"
	}
	return c.Path
}
