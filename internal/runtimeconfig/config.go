package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrContentDirRequired      = errors.New("blog config: content directory is required")
	ErrPostsPerPageInvalid     = errors.New("blog config: posts per page must be positive")
	ErrStorageDriverUnknown    = errors.New("blog config: storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("blog config: storage dsn is required for sql drivers")
	ErrCacheTTLInvalid         = errors.New("blog config: cache ttl must be zero or positive")
	ErrCommandTimeoutInvalid   = errors.New("blog config: command timeout must be zero or positive")
	ErrLoggingProviderRequired = errors.New("blog config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("blog config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("blog config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("blog config: logging format is invalid")
)

// Storage drivers understood by internal/storage.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates the settings shared by the blog CLIs.
type Config struct {
	Content   ContentConfig
	Defaults  DefaultsConfig
	Authoring AuthoringConfig
	Blog      BlogConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Commands  CommandsConfig
	Logging   LoggingConfig
}

// ContentConfig locates the Markdown posts.
type ContentConfig struct {
	Dir          string
	TemplatePath string
	Pattern      string
}

// DefaultsConfig fills in front matter keys that a migrated post leaves out.
type DefaultsConfig struct {
	Author    string
	ImageURL  string
	ImageHint string
}

// AuthoringConfig pre-fills the post creation wizard.
type AuthoringConfig struct {
	Author    string
	ImageURL  string
	ImageHint string
}

// BlogConfig mirrors the reader-facing blog switches.
type BlogConfig struct {
	PostsPerPage   int
	EnableComments bool
	EnableLikes    bool
	RequireAuth    bool
}

// StorageConfig selects the post store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig toggles the read-through repository cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// CommandsConfig tunes command handler execution.
type CommandsConfig struct {
	// Timeout bounds a single command run. Zero disables it.
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:     "src/content/blog",
			Pattern: "*.md",
		},
		Defaults: DefaultsConfig{
			Author:    "Unknown Author",
			ImageURL:  "/images/default-blog-image.jpg",
			ImageHint: "Blog post image",
		},
		Authoring: AuthoringConfig{
			Author:    "Author",
			ImageURL:  "/images/default-blog-image.jpg",
			ImageHint: "Blog post featured image",
		},
		Blog: BlogConfig{
			PostsPerPage:   6,
			EnableComments: true,
			EnableLikes:    true,
			RequireAuth:    true,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			DSN:    "file:blog.db?cache=shared",
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Blog.PostsPerPage <= 0 {
		return ErrPostsPerPageInvalid
	}
	switch driver := normalize(cfg.Storage.Driver); driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if provider != "console" && provider != "gologger" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
