package blogcmd

import (
	"context"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	migrateOperation  = "posts.migrate"
	validateOperation = "posts.validate"
	createOperation   = "posts.create"
	listOperation     = "posts.list"
)

var (
	_ command.Commander[MigrateCommand]    = (*MigrateHandler)(nil)
	_ command.Commander[ValidateCommand]   = (*ValidateHandler)(nil)
	_ command.Commander[CreatePostCommand] = (*CreatePostHandler)(nil)
	_ command.Commander[ListPostsCommand]  = (*ListPostsHandler)(nil)
)

// MigrateHandler runs the migration engine over a content directory.
type MigrateHandler struct {
	inner *commands.Handler[MigrateCommand]
}

// NewMigrateHandler binds the loader and engine to store. A nil store makes
// every non-dry run skip its posts.
func NewMigrateHandler(loader *markdown.Loader, engine *migrate.Engine, store interfaces.PostStore, logger interfaces.Logger, opts ...commands.HandlerOption[MigrateCommand]) *MigrateHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MigrateCommand) error {
		names, err := loader.Files(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if msg.OnStart != nil {
			msg.OnStart(len(names))
		}

		report := migrate.Report{DryRun: msg.DryRun}
		if len(names) > 0 {
			entries, err := loader.Load(ctx, msg.Directory)
			if err != nil {
				return err
			}
			var collab migrate.Collaborators
			if store != nil {
				collab = posts.Collaborators(store, msg.Session)
			}
			report = engine.Migrate(ctx, entries, collab, migrate.Options{
				DryRun:   msg.DryRun,
				OnResult: msg.OnResult,
			})
		}
		if msg.Report != nil {
			*msg.Report = report
		}
		if report.Interrupted {
			return ctx.Err()
		}

		logging.WithFields(baseLogger, map[string]any{
			"created_count": report.Created,
			"updated_count": report.Updated,
			"skipped_count": report.Skipped,
			"error_count":   report.Errors,
			"dry_run":       msg.DryRun,
		}).Info("blog.command.migrate.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[MigrateCommand]{
		commands.WithLogger[MigrateCommand](baseLogger),
		commands.WithOperation[MigrateCommand](migrateOperation),
		commands.WithMessageFields(func(msg MigrateCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Session.Authenticated() {
				fields["user_id"] = msg.Session.UserID
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[MigrateCommand].
func (h *MigrateHandler) Execute(ctx context.Context, msg MigrateCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateHandler runs the content checks over a content directory.
type ValidateHandler struct {
	inner *commands.Handler[ValidateCommand]
}

// NewValidateHandler binds the loader and validator.
func NewValidateHandler(loader *markdown.Loader, validator *validation.Validator, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateCommand]) *ValidateHandler {
	baseLogger := commands.EnsureLogger(logger)
	if validator == nil {
		validator = validation.NewValidator(baseLogger)
	}

	exec := func(ctx context.Context, msg ValidateCommand) error {
		names, err := loader.Files(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if msg.OnStart != nil {
			msg.OnStart(len(names))
		}
		entries, err := loader.Load(ctx, msg.Directory)
		if err != nil {
			return err
		}
		report := validator.Validate(entries)
		if msg.Report != nil {
			*msg.Report = report
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateCommand]{
		commands.WithLogger[ValidateCommand](baseLogger),
		commands.WithOperation[ValidateCommand](validateOperation),
		commands.WithMessageFields(func(msg ValidateCommand) map[string]any {
			return map[string]any{"directory": msg.Directory}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ValidateCommand].
func (h *ValidateHandler) Execute(ctx context.Context, msg ValidateCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CreatePostHandler writes wizard drafts through the authoring manager.
type CreatePostHandler struct {
	inner *commands.Handler[CreatePostCommand]
}

// NewCreatePostHandler binds manager.
func NewCreatePostHandler(manager *authoring.Manager, logger interfaces.Logger, opts ...commands.HandlerOption[CreatePostCommand]) *CreatePostHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CreatePostCommand) error {
		path, err := manager.Create(ctx, msg.Draft, msg.Overwrite)
		if msg.Path != nil {
			*msg.Path = path
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[CreatePostCommand]{
		commands.WithLogger[CreatePostCommand](baseLogger),
		commands.WithOperation[CreatePostCommand](createOperation),
		commands.WithMessageFields(func(msg CreatePostCommand) map[string]any {
			fields := map[string]any{"slug": msg.Draft.Slug}
			if msg.Overwrite {
				fields["overwrite"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreatePostHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreatePostCommand].
func (h *CreatePostHandler) Execute(ctx context.Context, msg CreatePostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListPostsHandler summarises the posts of the manager's content directory,
// creating the directory and template first when they are missing.
type ListPostsHandler struct {
	inner *commands.Handler[ListPostsCommand]
}

// NewListPostsHandler binds manager.
func NewListPostsHandler(manager *authoring.Manager, logger interfaces.Logger, opts ...commands.HandlerOption[ListPostsCommand]) *ListPostsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ListPostsCommand) error {
		setup, err := manager.EnsureDirectories(ctx)
		if err != nil {
			return err
		}
		if msg.Setup != nil {
			*msg.Setup = setup
		}
		summaries, err := manager.List(ctx)
		if err != nil {
			return err
		}
		if msg.Summaries != nil {
			*msg.Summaries = summaries
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ListPostsCommand]{
		commands.WithLogger[ListPostsCommand](baseLogger),
		commands.WithOperation[ListPostsCommand](listOperation),
		commands.WithMessageFields(func(ListPostsCommand) map[string]any {
			return map[string]any{"directory": manager.ContentDir()}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListPostsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ListPostsCommand].
func (h *ListPostsHandler) Execute(ctx context.Context, msg ListPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}
