// Package bootstrap assembles the blog runtime shared by the command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/commands"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
	"github.com/goliatone/go-blog/internal/comments"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/storage"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Options captures the command line overrides applied on top of the loaded
// configuration.
type Options struct {
	// ConfigPath is an optional YAML/TOML file.
	ConfigPath string
	ContentDir string
	// Verbose lowers the log level to debug.
	Verbose bool
	// LogWriter receives console provider output. Defaults to stderr.
	LogWriter io.Writer
	// Mutate, when set, adjusts the configuration before it is validated.
	Mutate func(*runtimeconfig.Config)
}

// CommandCollector records handlers registered during bootstrap so the CLIs
// can find them without a dispatcher.
type CommandCollector struct {
	handlers []any
}

// RegisterCommand satisfies blogcmd.CommandRegistry.
func (c *CommandCollector) RegisterCommand(handler any) error {
	c.handlers = append(c.handlers, handler)
	return nil
}

// Handlers returns the collected handlers.
func (c *CommandCollector) Handlers() []any {
	if len(c.handlers) == 0 {
		return nil
	}
	out := make([]any, len(c.handlers))
	copy(out, c.handlers)
	return out
}

// Runtime is the wired blog tooling.
type Runtime struct {
	Config    runtimeconfig.Config
	Provider  interfaces.LoggerProvider
	Logger    interfaces.Logger
	Posts     posts.Service
	Comments  comments.Service
	Manager   *authoring.Manager
	Commands  *blogcmd.HandlerSet
	Collector *CommandCollector

	db *bun.DB
}

// Close releases the database connection, if any.
func (r *Runtime) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Build loads configuration and wires every service. The caller owns the
// returned Runtime and must Close it.
func Build(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := runtimeconfig.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	if opts.Mutate != nil {
		opts.Mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := NewLoggerProvider(cfg.Logging, opts.LogWriter)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:    cfg,
		Provider:  provider,
		Logger:    logging.ModuleLogger(provider, ""),
		Collector: &CommandCollector{},
	}

	postRepo, likeRepo, commentRepo, reactionRepo, err := rt.openStores(ctx)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.Posts = posts.NewService(postRepo, likeRepo,
		posts.WithLogger(logging.PostsLogger(provider)),
		posts.WithLikesEnabled(cfg.Blog.EnableLikes),
		posts.WithRequireAuth(cfg.Blog.RequireAuth),
		posts.WithPerPage(cfg.Blog.PostsPerPage),
	)
	rt.Comments = comments.NewService(commentRepo, reactionRepo, rt.Posts,
		comments.WithLogger(logging.CommentsLogger(provider)),
		comments.WithEnabled(cfg.Blog.EnableComments),
	)
	rt.Manager = authoring.NewManager(authoring.Config{
		ContentDir:   cfg.Content.Dir,
		TemplatePath: cfg.Content.TemplatePath,
		Logger:       logging.AuthoringLogger(provider),
	})

	timeout := cfg.Commands.Timeout
	set, err := blogcmd.RegisterBlogCommands(rt.Collector, blogcmd.Dependencies{
		Loader: markdown.NewLoader(markdown.LoaderConfig{
			Pattern: cfg.Content.Pattern,
			Logger:  logging.MarkdownLogger(provider),
		}),
		Engine: migrate.NewEngine(
			migrate.WithLogger(logging.MigrateLogger(provider)),
			migrate.WithDefaults(migrate.Defaults{
				Author:    cfg.Defaults.Author,
				ImageURL:  cfg.Defaults.ImageURL,
				ImageHint: cfg.Defaults.ImageHint,
			}),
		),
		Validator: validation.NewValidator(logging.ValidationLogger(provider)),
		Store:     rt.Posts,
		Manager:   rt.Manager,
	}, provider,
		blogcmd.WithMigrateHandlerOptions(commands.WithTimeout[blogcmd.MigrateCommand](timeout)),
		blogcmd.WithValidateHandlerOptions(commands.WithTimeout[blogcmd.ValidateCommand](timeout)),
		blogcmd.WithCreateHandlerOptions(commands.WithTimeout[blogcmd.CreatePostCommand](timeout)),
		blogcmd.WithListHandlerOptions(commands.WithTimeout[blogcmd.ListPostsCommand](timeout)),
	)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("register blog commands: %w", err)
	}
	rt.Commands = set

	rt.Logger.Debug("bootstrap.ready",
		"storage", cfg.Storage.Driver,
		"cache", cfg.Cache.Enabled,
		"content_dir", cfg.Content.Dir,
	)
	return rt, nil
}

func (rt *Runtime) openStores(ctx context.Context) (posts.PostRepository, posts.LikeRepository, comments.CommentRepository, comments.ReactionRepository, error) {
	cfg := rt.Config
	if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), runtimeconfig.DriverMemory) {
		postStore := posts.NewMemoryStore()
		commentStore := comments.NewMemoryStore()
		return postStore, postStore, commentStore, commentStore, nil
	}

	db, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rt.db = db

	models := append(posts.Models(), comments.Models()...)
	if err := storage.CreateTables(ctx, db, models...); err != nil {
		return nil, nil, nil, nil, err
	}

	postRepo := posts.NewBunPostRepository(db)
	if cfg.Cache.Enabled {
		cacheCfg := cache.DefaultConfig()
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		svc, err := cache.NewCacheService(cacheCfg)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("bootstrap: cache service: %w", err)
		}
		postRepo = posts.NewBunPostRepositoryWithCache(db, svc, cache.NewDefaultKeySerializer())
	}

	return postRepo,
		posts.NewBunLikeRepository(db, postRepo),
		comments.NewBunCommentRepository(db),
		comments.NewBunReactionRepository(db),
		nil
}

// ErrUnknownLoggingProvider is returned for a provider name NewLoggerProvider
// does not know.
var ErrUnknownLoggingProvider = errors.New("bootstrap: unknown logging provider")

// NewLoggerProvider builds the provider named by cfg. Console output goes to
// w, or stderr when w is nil.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level, OmitTime: true}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLoggingProvider, cfg.Provider)
	}
}
