package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Clinic   ClinicConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT" default:"8080"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS" default:"30"`
	RateLimitRPS   int `mapstructure:"rateLimitRps" envconfig:"SERVER_RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int `mapstructure:"rateLimitBurst" envconfig:"SERVER_RATE_LIMIT_BURST" default:"100"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `mapstructure:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME" default:"clinicdesk"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `mapstructure:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"db" envconfig:"REDIS_DB" default:"0"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS" default:"24"`
}

// ClinicConfig defines the bookable day: slots are generated at Granularity
// intervals covering [OpenHour:00, CloseHour:00).
type ClinicConfig struct {
	OpenHour           int `mapstructure:"open_hour" envconfig:"CLINIC_OPEN_HOUR" default:"8"`
	CloseHour          int `mapstructure:"close_hour" envconfig:"CLINIC_CLOSE_HOUR" default:"18"`
	GranularityMinutes int `mapstructure:"granularity_minutes" envconfig:"CLINIC_GRANULARITY_MINUTES" default:"30"`
}

func (c ClinicConfig) Granularity() time.Duration {
	return time.Duration(c.GranularityMinutes) * time.Minute
}

// LoadConfig reads config.yaml with environment overrides. When no config
// file exists (containers), the environment alone is used.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return LoadFromEnv()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadFromEnv populates the configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return &config, nil
}
