package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Ledger     LedgerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the check-in rule boundaries. CutoffHour is the
// local hour at which check-ins stop being accepted; LateHour is the hour
// from which an accepted check-in counts as late.
type AttendanceConfig struct {
	CutoffHour      int
	LateHour        int
	LocationTimeout time.Duration
}

// LedgerConfig selects the attendance ledger backend: "postgres" for real
// deployments, "memory" for demo mode with generated fixture data.
type LedgerConfig struct {
	Backend string
}

func Load() (*Config, error) {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendly"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance rules
	cutoffHour, err := strconv.Atoi(getEnv("ATTENDANCE_CUTOFF_HOUR", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CUTOFF_HOUR: %w", err)
	}

	lateHour, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_HOUR", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_HOUR: %w", err)
	}

	locationTimeout, err := time.ParseDuration(getEnv("LOCATION_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_TIMEOUT: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CutoffHour:      cutoffHour,
		LateHour:        lateHour,
		LocationTimeout: locationTimeout,
	}

	config.Ledger = LedgerConfig{
		Backend: getEnv("LEDGER_BACKEND", "postgres"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Ledger.Backend != "postgres" && c.Ledger.Backend != "memory" {
		return fmt.Errorf("LEDGER_BACKEND must be postgres or memory, got %q", c.Ledger.Backend)
	}
	if c.Ledger.Backend == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when LEDGER_BACKEND is postgres")
	}
	if c.Attendance.LateHour >= c.Attendance.CutoffHour {
		return fmt.Errorf("ATTENDANCE_LATE_HOUR must be before ATTENDANCE_CUTOFF_HOUR")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
