package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Gateway     GatewayConfig
	Marketplace MarketplaceConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// GatewayConfig holds the external payment gateway settings
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MarketplaceConfig holds lead pricing and settlement knobs
type MarketplaceConfig struct {
	CommissionRate        float64
	CommissionDueDays     int
	DefaultMaxContractors int
	OverdueSweepInterval  time.Duration
	CreditResetInterval   time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "leadmarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("PAYMENT_GATEWAY_URL", "http://localhost:9090"),
			APIKey:  getEnv("PAYMENT_GATEWAY_API_KEY", ""),
			Timeout: getEnvAsDuration("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
		},
		Marketplace: MarketplaceConfig{
			CommissionRate:        getEnvAsFloat("COMMISSION_RATE_PERCENT", 5.0),
			CommissionDueDays:     getEnvAsInt("COMMISSION_DUE_DAYS", 7),
			DefaultMaxContractors: getEnvAsInt("DEFAULT_MAX_CONTRACTORS", 5),
			OverdueSweepInterval:  getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", time.Hour),
			CreditResetInterval:   getEnvAsDuration("CREDIT_RESET_INTERVAL", time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
