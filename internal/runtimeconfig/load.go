package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BLOG_STORAGE_DRIVER.
const EnvPrefix = "BLOG"

// Load builds a Config from DefaultConfig, the optional file at path (any
// format viper understands, picked by extension) and BLOG_* environment
// variables, in increasing precedence. The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("blog config: read %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.template_path", cfg.Content.TemplatePath)
	v.SetDefault("content.pattern", cfg.Content.Pattern)

	v.SetDefault("defaults.author", cfg.Defaults.Author)
	v.SetDefault("defaults.image_url", cfg.Defaults.ImageURL)
	v.SetDefault("defaults.image_hint", cfg.Defaults.ImageHint)

	v.SetDefault("authoring.author", cfg.Authoring.Author)
	v.SetDefault("authoring.image_url", cfg.Authoring.ImageURL)
	v.SetDefault("authoring.image_hint", cfg.Authoring.ImageHint)

	v.SetDefault("blog.posts_per_page", cfg.Blog.PostsPerPage)
	v.SetDefault("blog.enable_comments", cfg.Blog.EnableComments)
	v.SetDefault("blog.enable_likes", cfg.Blog.EnableLikes)
	v.SetDefault("blog.require_auth", cfg.Blog.RequireAuth)

	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("commands.timeout", cfg.Commands.Timeout)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Content: ContentConfig{
			Dir:          v.GetString("content.dir"),
			TemplatePath: v.GetString("content.template_path"),
			Pattern:      v.GetString("content.pattern"),
		},
		Defaults: DefaultsConfig{
			Author:    v.GetString("defaults.author"),
			ImageURL:  v.GetString("defaults.image_url"),
			ImageHint: v.GetString("defaults.image_hint"),
		},
		Authoring: AuthoringConfig{
			Author:    v.GetString("authoring.author"),
			ImageURL:  v.GetString("authoring.image_url"),
			ImageHint: v.GetString("authoring.image_hint"),
		},
		Blog: BlogConfig{
			PostsPerPage:   v.GetInt("blog.posts_per_page"),
			EnableComments: v.GetBool("blog.enable_comments"),
			EnableLikes:    v.GetBool("blog.enable_likes"),
			RequireAuth:    v.GetBool("blog.require_auth"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("storage.driver"),
			DSN:    v.GetString("storage.dsn"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Commands: CommandsConfig{
			Timeout: v.GetDuration("commands.timeout"),
		},
		Logging: LoggingConfig{
			Provider:  v.GetString("logging.provider"),
			Level:     v.GetString("logging.level"),
			Format:    v.GetString("logging.format"),
			AddSource: v.GetBool("logging.add_source"),
			Focus:     v.GetStringSlice("logging.focus"),
		},
	}
}
