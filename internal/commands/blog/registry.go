package blogcmd

import (
	"errors"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Dependencies are the services the blog handlers are built from. Store
// and Manager are optional; without Manager the authoring handlers are not
// built.
type Dependencies struct {
	Loader    *markdown.Loader
	Engine    *migrate.Engine
	Validator *validation.Validator
	Store     interfaces.PostStore
	Manager   *authoring.Manager
}

// HandlerSet groups the handlers produced by RegisterBlogCommands.
type HandlerSet struct {
	Migrate  *MigrateHandler
	Validate *ValidateHandler
	Create   *CreatePostHandler
	List     *ListPostsHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	migrateOpts  []commands.HandlerOption[MigrateCommand]
	validateOpts []commands.HandlerOption[ValidateCommand]
	createOpts   []commands.HandlerOption[CreatePostCommand]
	listOpts     []commands.HandlerOption[ListPostsCommand]
}

// WithMigrateHandlerOptions forwards options to the MigrateHandler constructor.
func WithMigrateHandlerOptions(opts ...commands.HandlerOption[MigrateCommand]) Option {
	return func(cfg *options) {
		cfg.migrateOpts = append(cfg.migrateOpts, opts...)
	}
}

// WithValidateHandlerOptions forwards options to the ValidateHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateCommand]) Option {
	return func(cfg *options) {
		cfg.validateOpts = append(cfg.validateOpts, opts...)
	}
}

// WithCreateHandlerOptions forwards options to the CreatePostHandler constructor.
func WithCreateHandlerOptions(opts ...commands.HandlerOption[CreatePostCommand]) Option {
	return func(cfg *options) {
		cfg.createOpts = append(cfg.createOpts, opts...)
	}
}

// WithListHandlerOptions forwards options to the ListPostsHandler constructor.
func WithListHandlerOptions(opts ...commands.HandlerOption[ListPostsCommand]) Option {
	return func(cfg *options) {
		cfg.listOpts = append(cfg.listOpts, opts...)
	}
}

// RegisterBlogCommands builds the blog command handlers and registers them
// with reg when it is non-nil.
func RegisterBlogCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if deps.Loader == nil {
		return nil, errors.New("blog command registration: loader is nil")
	}
	if deps.Engine == nil {
		return nil, errors.New("blog command registration: engine is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "posts")

	set := &HandlerSet{
		Migrate:  NewMigrateHandler(deps.Loader, deps.Engine, deps.Store, logger, cfg.migrateOpts...),
		Validate: NewValidateHandler(deps.Loader, deps.Validator, logger, cfg.validateOpts...),
	}
	if deps.Manager != nil {
		set.Create = NewCreatePostHandler(deps.Manager, logger, cfg.createOpts...)
		set.List = NewListPostsHandler(deps.Manager, logger, cfg.listOpts...)
	}

	if reg != nil {
		for _, handler := range set.handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func (s *HandlerSet) handlers() []any {
	out := []any{s.Migrate, s.Validate}
	if s.Create != nil {
		out = append(out, s.Create)
	}
	if s.List != nil {
		out = append(out, s.List)
	}
	return out
}
