package rnfi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	assert.Equal(t, "React Native Finland", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "Europe/Helsinki", cfg.Timezone)
	assert.Equal(t, time.Hour, cfg.ImageCacheTTL)
	assert.Equal(t, 5, cfg.ContactLimit)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rnfi.yaml")
	yaml := `
name: RN Finland staging
url: https://staging.react-native.fi
addr: ":8080"
image_cache_ttl: 10m
contact_limit: 2
cookie_secure: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("RNFI_ENV", "production")
	t.Setenv("RNFI_URL", "https://react-native.fi")
	t.Setenv("RNFI_SESSION_SECRET", "s3cret")
	t.Setenv("RNFI_REMOTE_FONTS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "RN Finland staging", cfg.Name)
	assert.Equal(t, "https://react-native.fi", cfg.URL, "env overrides the file")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Minute, cfg.ImageCacheTTL)
	assert.Equal(t, 2, cfg.ContactLimit)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.RemoteFonts)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "content", cfg.ContentDir, "defaults fill the rest")
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("RNFI_ENV", "production")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("contact_limit: [1, 2"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	t.Setenv("RNFI_COOKIE_SECURE", "maybe")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARN":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range tests {
		if got := levelFromString(in).String(); got != want {
			t.Errorf("levelFromString(%q) = %q, want %q", in, got, want)
		}
	}
}
