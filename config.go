package rnfi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eringen/rnfi/views"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name          string `yaml:"name"`           // Site name (default "React Native Finland")
	URL           string `yaml:"url"`            // Canonical URL (default "http://localhost:3000")
	Description   string `yaml:"description"`    // Default meta description
	TwitterHandle string `yaml:"twitter_handle"` // twitter:site

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	ContentDir   string `yaml:"content_dir"`   // Content store root (default "content")
	DatabasePath string `yaml:"database_path"` // Contact inbox SQLite path (default "data/contact.db")
	Timezone     string `yaml:"timezone"`      // Zone for events without one (default "Europe/Helsinki")

	SessionSecret string `yaml:"session_secret"` // Required: session cookie secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	RemoteFonts   bool          `yaml:"remote_fonts"`    // Fetch Inter for preview images instead of the bundled Go fonts
	FontTimeout   time.Duration `yaml:"font_timeout"`    // Font fetch timeout (default 10s)
	ImageCacheTTL time.Duration `yaml:"image_cache_ttl"` // Rendered preview TTL (default 1h)

	ContactLimit  int           `yaml:"contact_limit"`  // Messages per IP per window (default 5)
	ContactWindow time.Duration `yaml:"contact_window"` // (default 1h)

	Environment string `yaml:"environment"` // "development" or "production"
	LogLevel    string `yaml:"log_level"`   // debug, info, warn, error
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "React Native Finland"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Finland's React Native community hub: Helsinki meetups, articles and local developers."
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/contact.db"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Helsinki"
	}
	if c.FontTimeout == 0 {
		c.FontTimeout = 10 * time.Second
	}
	if c.ImageCacheTTL == 0 {
		c.ImageCacheTTL = time.Hour
	}
	if c.ContactLimit == 0 {
		c.ContactLimit = 5
	}
	if c.ContactWindow == 0 {
		c.ContactWindow = time.Hour
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c SiteConfig) views() views.SiteConfig {
	return views.SiteConfig{
		Name:          c.Name,
		URL:           c.URL,
		Description:   c.Description,
		TwitterHandle: c.TwitterHandle,
	}
}

// LoadConfig reads the YAML file at path, when path is not empty, and then
// applies RNFI_* environment overrides. Outside production a .env file in
// the working directory is loaded first.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if os.Getenv("RNFI_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("rnfi: load .env: %w", err)
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("rnfi: read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("rnfi: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	strs := map[string]*string{
		"RNFI_NAME":           &c.Name,
		"RNFI_URL":            &c.URL,
		"RNFI_DESCRIPTION":    &c.Description,
		"RNFI_ADDR":           &c.Addr,
		"RNFI_CONTENT_DIR":    &c.ContentDir,
		"RNFI_DATABASE_PATH":  &c.DatabasePath,
		"RNFI_TIMEZONE":       &c.Timezone,
		"RNFI_SESSION_SECRET": &c.SessionSecret,
		"RNFI_ENV":            &c.Environment,
		"RNFI_LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"RNFI_COOKIE_SECURE": &c.CookieSecure,
		"RNFI_REMOTE_FONTS":  &c.RemoteFonts,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("rnfi: %s: %w", key, err)
			}
			*dst = b
		}
	}
	if v := os.Getenv("RNFI_IMAGE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("rnfi: RNFI_IMAGE_CACHE_TTL: %w", err)
		}
		c.ImageCacheTTL = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for site-owned static assets such as
// article images (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithViews replaces the page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithClock sets the clock used for event status.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithContentFS loads content from fsys instead of Config.ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}
