package configs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func Test_Load_Defaults(t *testing.T) {
	cfg, err := load(env(map[string]string{"HOME": "/home/ada"}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	assert.Equal(t, "Token", cfg.AuthScheme)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, 20, cfg.RateBurst)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5*time.Second, cfg.NotifyDuration)
	assert.Equal(t, filepath.Join("/home/ada", ".ulibrary"), cfg.StateDir)
	assert.Equal(t, StorageSQLite, cfg.Storage)
}

func Test_Load_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"ENVIRONMENT":      "development",
		"ULIB_API_URL":     "https://library.example.edu/api/",
		"ULIB_AUTH_SCHEME": "Bearer",
		"ULIB_DEBOUNCE":    "50ms",
		"ULIB_STATE_DIR":   "/tmp/state",
		"ULIB_STORAGE":     "memory",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "https://library.example.edu/api", cfg.APIURL)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "/tmp/state", cfg.StateDir)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func Test_Load_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"relative url":     {"ULIB_API_URL": "library/api"},
		"bad scheme":       {"ULIB_AUTH_SCHEME": "Basic"},
		"bad duration":     {"ULIB_DEBOUNCE": "soon"},
		"negative timeout": {"ULIB_REQUEST_TIMEOUT": "-1s"},
		"zero rate":        {"ULIB_RATE_LIMIT": "0"},
		"bad burst":        {"ULIB_RATE_BURST": "x"},
		"unknown storage":  {"ULIB_STORAGE": "redis"},
		"s3 without bucket": {
			"ULIB_STORAGE": "s3",
		},
	}

	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			vars["HOME"] = "/home/ada"
			_, err := load(env(vars))
			assert.Error(t, err)
		})
	}
}

func Test_Load_S3(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"HOME":                 "/home/ada",
		"ULIB_STORAGE":         "s3",
		"S3_BUCKET_NAME":       "prefs",
		"S3_ENDPOINT":          "http://localhost:9000",
		"S3_ACCESS_KEY_ID":     "id",
		"S3_SECRET_ACCESS_KEY": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "prefs", cfg.S3BucketName)
	assert.Equal(t, "ulibrary/", cfg.S3Prefix)
}
