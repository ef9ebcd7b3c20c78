/*
Package configs is responsible for loading and parsing the client's configuration settings.

It configures the client by reading operating system environment variables: the running
environment, the library backend URL and authorization scheme, request pacing, UI timings,
and where persisted session state is kept.
*/
package configs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends for persisted client state.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// AppConfig contains all configuration parameters required for the client to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string

	// Backend Settings
	APIURL         string
	AuthScheme     string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	// UI Timings
	Debounce       time.Duration
	NotifyDuration time.Duration

	// Persisted State Settings
	StateDir string
	Storage  string

	// S3 Storage Settings
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string
}

// IsDevelopment reports whether the client runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the client configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
func LoadConfig() (*AppConfig, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	// --- General Settings ---
	cfg.Environment = getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	// --- Backend Settings ---
	cfg.APIURL = strings.TrimRight(getenv("ULIB_API_URL"), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8000/api"
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid ULIB_API_URL environment variable %q: expected an absolute http(s) URL", cfg.APIURL)
	}

	cfg.AuthScheme = getenv("ULIB_AUTH_SCHEME")
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Token"
	}
	if cfg.AuthScheme != "Token" && cfg.AuthScheme != "Bearer" {
		return nil, fmt.Errorf("invalid ULIB_AUTH_SCHEME environment variable %q: must be Token or Bearer", cfg.AuthScheme)
	}

	if cfg.RequestTimeout, err = duration(getenv, "ULIB_REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	rateStr := getenv("ULIB_RATE_LIMIT")
	if rateStr == "" {
		rateStr = "10"
	}
	cfg.RateLimit, err = strconv.ParseFloat(rateStr, 64)
	if err != nil || cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("invalid ULIB_RATE_LIMIT environment variable %q: must be a positive number", rateStr)
	}

	burstStr := getenv("ULIB_RATE_BURST")
	if burstStr == "" {
		burstStr = "20"
	}
	cfg.RateBurst, err = strconv.Atoi(burstStr)
	if err != nil || cfg.RateBurst < 1 {
		return nil, fmt.Errorf("invalid ULIB_RATE_BURST environment variable %q: must be a positive integer", burstStr)
	}

	// --- UI Timings ---
	if cfg.Debounce, err = duration(getenv, "ULIB_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.NotifyDuration, err = duration(getenv, "ULIB_NOTIFY_DURATION", 5*time.Second); err != nil {
		return nil, err
	}

	// --- Persisted State Settings ---
	cfg.StateDir = getenv("ULIB_STATE_DIR")
	if cfg.StateDir == "" {
		home := getenv("HOME")
		if home == "" {
			return nil, fmt.Errorf("ULIB_STATE_DIR environment variable is required when HOME is not set")
		}
		cfg.StateDir = filepath.Join(home, ".ulibrary")
	}

	cfg.Storage = getenv("ULIB_STORAGE")
	if cfg.Storage == "" {
		cfg.Storage = StorageSQLite
	}

	switch cfg.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	case StorageS3:
		// --- S3 Storage Settings ---
		cfg.S3BucketName = getenv("S3_BUCKET_NAME")
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required for S3 storage")
		}

		cfg.S3Endpoint = getenv("S3_ENDPOINT")
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required for S3 storage")
		}

		cfg.S3AccessKeyID = getenv("S3_ACCESS_KEY_ID")
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID environment variable is required for S3 authentication")
		}

		cfg.S3SecretAccessKey = getenv("S3_SECRET_ACCESS_KEY")
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY environment variable is required for S3 authentication")
		}

		cfg.S3Prefix = getenv("S3_PREFIX")
		if cfg.S3Prefix == "" {
			cfg.S3Prefix = "ulibrary/"
		}
	default:
		return nil, fmt.Errorf("invalid ULIB_STORAGE environment variable %q: must be one of sqlite, file, s3, memory", cfg.Storage)
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}

	return d, nil
}
