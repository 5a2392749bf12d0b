package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Office   OfficeConfig
	Sink     SinkConfig
	Database DatabaseConfig
	Flow     FlowConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// OfficeConfig is the geofence attendance is checked against
type OfficeConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// SinkConfig selects where submitted records go
type SinkConfig struct {
	Type string // webhook or postgres
	URL  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// FlowConfig holds flow lifecycle configuration
type FlowConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

const (
	SinkWebhook  = "webhook"
	SinkPostgres = "postgres"
)

// Load reads the configuration from the environment, after loading .env
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Office configuration
	latitude, err := getEnvFloat("OFFICE_LATITUDE", "19.0259881")
	if err != nil {
		return nil, err
	}
	longitude, err := getEnvFloat("OFFICE_LONGITUDE", "72.8734742")
	if err != nil {
		return nil, err
	}
	radius, err := getEnvFloat("OFFICE_RADIUS_METERS", "5000")
	if err != nil {
		return nil, err
	}

	config.Office = OfficeConfig{
		Latitude:     latitude,
		Longitude:    longitude,
		RadiusMeters: radius,
	}

	// Sink configuration
	config.Sink = SinkConfig{
		Type: strings.ToLower(getEnv("SINK_TYPE", SinkWebhook)),
		URL:  getEnv("SINK_URL", ""),
	}

	// Database configuration (postgres sink only)
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Flow configuration
	idleTTL, err := time.ParseDuration(getEnv("FLOW_IDLE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLOW_IDLE_TTL: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("FLOW_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLOW_SWEEP_INTERVAL: %w", err)
	}

	config.Flow = FlowConfig{
		IdleTTL:       idleTTL,
		SweepInterval: sweepInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"OFFICE_LATITUDE":      c.Office.Latitude,
		"OFFICE_LONGITUDE":     c.Office.Longitude,
		"OFFICE_RADIUS_METERS": c.Office.RadiusMeters,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	if c.Office.Latitude < -90 || c.Office.Latitude > 90 {
		return fmt.Errorf("OFFICE_LATITUDE must be between -90 and 90")
	}
	if c.Office.Longitude < -180 || c.Office.Longitude > 180 {
		return fmt.Errorf("OFFICE_LONGITUDE must be between -180 and 180")
	}
	if c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}

	switch c.Sink.Type {
	case SinkWebhook:
		if c.Sink.URL == "" {
			return fmt.Errorf("SINK_URL is required")
		}
	case SinkPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unsupported SINK_TYPE %q", c.Sink.Type)
	}

	if c.Flow.SweepInterval <= 0 {
		return fmt.Errorf("FLOW_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// AttendanceFlow returns the geofence handed to attendance flows
func (c *Config) AttendanceFlow() attendance.FlowConfig {
	return attendance.FlowConfig{
		Target: attendance.Coordinate{
			Latitude:  c.Office.Latitude,
			Longitude: c.Office.Longitude,
		},
		RadiusMeters: c.Office.RadiusMeters,
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key, fallback string) (float64, error) {
	value, err := strconv.ParseFloat(getEnv(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
