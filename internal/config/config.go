package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jsundin/esett-proxy/internal/engine"
	"github.com/jsundin/esett-proxy/internal/esett"
)

const (
	defaultPort            = 8080
	defaultUpstreamTimeout = 30 * time.Second
	defaultRequestTimeout  = 60 * time.Second
	defaultPageSize        = 1000
	defaultMaxPageSize     = 10000
	hardMaxPageSize        = 10000
	defaultStaticDir       = "./web/static"
)

// Config holds environment-driven settings for the proxy.
type Config struct {
	DatabaseURL           string
	EsettBaseURL          string
	Port                  int
	UpstreamTimeout       time.Duration
	RequestTimeout        time.Duration
	DefaultPageSize       int
	MaxPageSize           int
	CompletenessThreshold float64
	BearerToken           string
	StaticDir             string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		EsettBaseURL:          esett.DefaultBaseURL,
		Port:                  defaultPort,
		UpstreamTimeout:       defaultUpstreamTimeout,
		RequestTimeout:        defaultRequestTimeout,
		DefaultPageSize:       defaultPageSize,
		MaxPageSize:           defaultMaxPageSize,
		CompletenessThreshold: engine.DefaultThreshold,
		StaticDir:             defaultStaticDir,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if base := strings.TrimSpace(os.Getenv("ESETT_BASE_URL")); base != "" {
		cfg.EsettBaseURL = strings.TrimRight(base, "/")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.Port = port
	}

	if v := os.Getenv("ESETT_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid ESETT_REQUEST_TIMEOUT: %s", v)
		}
		cfg.UpstreamTimeout = d
	}

	if v := os.Getenv("API_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid API_REQUEST_TIMEOUT: %s", v)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("API_DEFAULT_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid API_DEFAULT_PAGE_SIZE: %s", v)
		}
		cfg.DefaultPageSize = n
	}

	if v := os.Getenv("API_MAX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > hardMaxPageSize {
			return cfg, fmt.Errorf("invalid API_MAX_PAGE_SIZE: %s (1-%d)", v, hardMaxPageSize)
		}
		cfg.MaxPageSize = n
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		return cfg, fmt.Errorf("API_DEFAULT_PAGE_SIZE %d exceeds API_MAX_PAGE_SIZE %d",
			cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	if v := os.Getenv("CACHE_COMPLETENESS_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 1 {
			return cfg, fmt.Errorf("invalid CACHE_COMPLETENESS_THRESHOLD: %s", v)
		}
		cfg.CompletenessThreshold = f
	}

	if dir := strings.TrimSpace(os.Getenv("STATIC_DIR")); dir != "" {
		cfg.StaticDir = dir
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
