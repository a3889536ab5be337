package config

import (
	"errors"  // For validation errors
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBDriver          string        // Database driver: postgres, mysql or sqlite
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name, or file path for sqlite
	DBSSLMode         string        // Postgres sslmode
	DBMaxOpenConns    int           // Pool size
	DBMaxIdleConns    int           // Idle connections kept in the pool
	DBConnMaxLifetime time.Duration // Maximum connection age
	JWTSecret         string        // JWT secret key
	JWTTTL            time.Duration // Token lifetime
	RedisAddr         string        // Redis server address, empty disables caching
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	CacheTTL          time.Duration // Lifetime of cached listings
	RabbitMQURL       string        // AMQP URL, empty disables booking events
	RabbitMQExchange  string        // Topic exchange for booking events
	CORSOrigin        string        // Allowed CORS origin
	AuthRateLimit     float64       // Login/register requests per second per client
	AuthRateBurst     int           // Burst allowed above the rate
	StaticDir         string        // Optional directory with the web pages
	ShutdownTimeout   time.Duration // Grace period for in-flight requests
	IsProd            bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:           getEnv("APP_PORT", "5000"),                            // Application port
		DBDriver:          getEnv("DB_DRIVER", "postgres"),                       // Database driver
		DBUser:            os.Getenv("DB_USER"),                                  // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),                              // Database password
		DBHost:            getEnv("DB_HOST", "localhost"),                        // Database host
		DBPort:            os.Getenv("DB_PORT"),                                  // Database port, driver default when empty
		DBName:            getEnv("DB_NAME", "table_booking"),                    // Database name
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),                       // Postgres sslmode
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),                    // Pool size
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),                    // Idle connections
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute), // Connection age
		JWTSecret:         os.Getenv("JWT_SECRET"),                               // JWT secret key
		JWTTTL:            getEnvDuration("JWT_TTL", time.Hour),                  // Token lifetime
		RedisAddr:         os.Getenv("REDIS_ADDR"),                               // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                               // Redis password
		RedisDB:           getEnvInt("REDIS_DB", 0),                              // Redis database number
		CacheTTL:          getEnvDuration("CACHE_TTL", 60*time.Second),           // Cache lifetime
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),                             // AMQP URL
		RabbitMQExchange:  getEnv("RABBITMQ_EXCHANGE", "bookings"),               // Exchange name
		CORSOrigin:        getEnv("CORS_ORIGIN", "*"),                            // Allowed origin
		AuthRateLimit:     getEnvFloat("AUTH_RATE_LIMIT", 1),                     // Requests per second
		AuthRateBurst:     getEnvInt("AUTH_RATE_BURST", 5),                       // Burst size
		StaticDir:         os.Getenv("STATIC_DIR"),                               // Web pages directory
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),    // Grace period
		IsProd:            os.Getenv("IS_PROD") == "true",                        // Is production environment
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306" // MySQL default port
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
	case "sqlite":
		return c.DBName // File path or :memory:
	default:
		port := c.DBPort
		if port == "" {
			port = "5432" // Postgres default port
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

// getEnv returns the variable or a fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer variable, falling back when unset or malformed
func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// getEnvFloat parses a float variable, falling back when unset or malformed
func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

// getEnvDuration parses a duration such as "90s" or "1h"
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
