package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/routecors/internal/cors"
	"github.com/benvon/routecors/internal/validation"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	DatabaseURL        string
	CORS               CORSConfig
	CORSConfigFile     string
	CORSReloadInterval time.Duration
	ServerDebugMode    bool
	EnableHSTS         bool
	OTELEnabled        bool
	OTELEndpoint       string
}

// CORSConfig is the raw CORS section. Values stay loosely typed until Build
// so that a YAML file can be rejected for carrying the wrong shapes.
type CORSConfig struct {
	AllowedOrigin any    `yaml:"allowedOrigin"`
	AllowedRoutes any    `yaml:"allowedRoutes"`
	AllowMethods  string `yaml:"allowMethods"`
	AllowHeaders  string `yaml:"allowHeaders"`
}

// Build validates the section and returns the immutable cors.Config.
func (c CORSConfig) Build() (*cors.Config, error) {
	return cors.NewConfig(cors.Settings{
		AllowedOrigin: c.AllowedOrigin,
		AllowedRoutes: c.AllowedRoutes,
		AllowMethods:  c.AllowMethods,
		AllowHeaders:  c.AllowHeaders,
	})
}

// Load loads configuration from environment variables and the optional CORS config file
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSConfigFile:     getEnv("CORS_CONFIG_FILE", ""),
		CORSReloadInterval: getEnvDuration("CORS_RELOAD_INTERVAL", time.Minute),
		ServerDebugMode:    getEnvBool("SERVER_DEBUG_MODE", false),
		EnableHSTS:         getEnvBool("SERVER_ENABLE_HSTS", false),
		OTELEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CORS: CORSConfig{
			AllowMethods: getEnv("CORS_ALLOW_METHODS", ""),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", ""),
		},
	}

	if origin := getEnv("CORS_ALLOWED_ORIGIN", ""); origin != "" {
		cfg.CORS.AllowedOrigin = origin
	}
	if routes := getEnv("CORS_ALLOWED_ROUTES", ""); routes != "" {
		cfg.CORS.AllowedRoutes = ParseRoutes(routes)
	}

	if cfg.CORSConfigFile != "" {
		fileCfg, err := LoadCORSFile(cfg.CORSConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.CORS = cfg.CORS.merge(fileCfg)
	}

	if _, err := cfg.CORS.Build(); err != nil {
		return nil, fmt.Errorf("cors configuration: %w", err)
	}

	return cfg, nil
}

// LoadCORSFile reads a YAML CORS configuration file
func LoadCORSFile(path string) (CORSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CORSConfig{}, fmt.Errorf("read cors config file: %w", err)
	}
	var c CORSConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return CORSConfig{}, fmt.Errorf("parse cors config file %s: %w", path, err)
	}
	return c, nil
}

// ParseRoutes converts the CORS_ALLOWED_ROUTES form ("*" or comma-separated routes)
// into a value cors.ParseRouteSpec accepts.
func ParseRoutes(raw string) any {
	return validation.RoutesValue(strings.TrimSpace(raw))
}

// merge overlays the values set in other onto c.
func (c CORSConfig) merge(other CORSConfig) CORSConfig {
	if other.AllowedOrigin != nil {
		c.AllowedOrigin = other.AllowedOrigin
	}
	if other.AllowedRoutes != nil {
		c.AllowedRoutes = other.AllowedRoutes
	}
	if other.AllowMethods != "" {
		c.AllowMethods = other.AllowMethods
	}
	if other.AllowHeaders != "" {
		c.AllowHeaders = other.AllowHeaders
	}
	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("30s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
