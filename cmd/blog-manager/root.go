package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/authoring"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/report"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

var runtimeBuilder = bootstrap.Build

type rootFlags struct {
	configPath   string
	contentDir   string
	templatePath string
	debug        bool
	plain        bool
}

type createFlags struct {
	title     string
	slug      string
	excerpt   string
	author    string
	imageURL  string
	imageHint string
	tags      string
	overwrite bool
}

type session struct {
	rt      *bootstrap.Runtime
	printer *report.Printer
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "blog-manager",
		Short:         "Create and list Markdown blog posts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				action, err := newPrompter().Action()
				if errors.Is(err, errPromptCancelled) {
					s.printer.Goodbye()
					return nil
				}
				if err != nil {
					return err
				}
				switch action {
				case actionCreate:
					return s.create(cmd, createFlags{}, true)
				case actionList:
					return s.list(cmd, false)
				default:
					s.printer.Goodbye()
					return nil
				}
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.contentDir, "content-dir", "", "Content directory (overrides configuration)")
	pf.StringVar(&flags.templatePath, "template", "", "Post template path (overrides configuration)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.plain, "plain", false, "Use ASCII markers instead of emoji")

	rootCmd.AddCommand(newCreateCommand(flags))
	rootCmd.AddCommand(newListCommand(flags))
	return rootCmd
}

func newCreateCommand(root *rootFlags) *cobra.Command {
	flags := createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new blog post from the template",
		Long: `Create a new unpublished blog post from the template.

Without --title the post details are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, root, func(s *session) error {
				return s.create(cmd, flags, strings.TrimSpace(flags.title) == "")
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&flags.title, "title", "", "Post title")
	fs.StringVar(&flags.slug, "slug", "", "Post slug (defaults to one derived from the title)")
	fs.StringVar(&flags.excerpt, "excerpt", "", "Short excerpt")
	fs.StringVar(&flags.author, "author", "", "Author name")
	fs.StringVar(&flags.imageURL, "image-url", "", "Featured image URL")
	fs.StringVar(&flags.imageHint, "image-hint", "", "Featured image description")
	fs.StringVar(&flags.tags, "tags", "", "Comma-separated tags")
	fs.BoolVar(&flags.overwrite, "overwrite", false, "Replace an existing post with the same slug")
	return cmd
}

func newListCommand(root *rootFlags) *cobra.Command {
	var asTable bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List existing blog posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, root, func(s *session) error {
				return s.list(cmd, asTable)
			})
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Render posts as a table")
	return cmd
}

func withSession(cmd *cobra.Command, flags *rootFlags, fn func(*session) error) error {
	templatePath := strings.TrimSpace(flags.templatePath)
	rt, err := runtimeBuilder(cmd.Context(), bootstrap.Options{
		ConfigPath: flags.configPath,
		ContentDir: flags.contentDir,
		Verbose:    flags.debug,
		LogWriter:  cmd.ErrOrStderr(),
		Mutate: func(cfg *runtimeconfig.Config) {
			if templatePath != "" {
				cfg.Content.TemplatePath = templatePath
			}
			// The manager only touches files.
			cfg.Storage.Driver = runtimeconfig.DriverMemory
		},
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer rt.Close()

	var opts []report.Option
	if flags.plain {
		opts = append(opts, report.WithEmoji(false), report.WithColor(false))
	}
	s := &session{rt: rt, printer: report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts...)}

	setup, err := rt.Manager.EnsureDirectories(cmd.Context())
	if err != nil {
		return err
	}
	s.printer.Setup(setup, rt.Manager.ContentDir(), rt.Manager.TemplatePath())
	return fn(s)
}

func (s *session) defaults(flags createFlags) authoring.Draft {
	cfg := s.rt.Config.Authoring
	draft := authoring.Draft{
		Title:     strings.TrimSpace(flags.title),
		Slug:      strings.TrimSpace(flags.slug),
		Excerpt:   strings.TrimSpace(flags.excerpt),
		Author:    firstNonEmpty(flags.author, cfg.Author),
		ImageURL:  firstNonEmpty(flags.imageURL, cfg.ImageURL),
		ImageHint: firstNonEmpty(flags.imageHint, cfg.ImageHint),
		Tags:      authoring.ParseTags(flags.tags),
	}
	if draft.Slug == "" && draft.Title != "" {
		draft.Slug = markdown.GenerateSlug(draft.Title)
	}
	return draft
}

func (s *session) create(cmd *cobra.Command, flags createFlags, interactive bool) error {
	draft := s.defaults(flags)
	overwrite := flags.overwrite
	var prompts prompter
	if interactive {
		prompts = newPrompter()
		var err error
		draft, err = prompts.Draft(draft)
		if errors.Is(err, errPromptCancelled) {
			s.printer.Cancelled()
			return nil
		}
		if err != nil {
			return err
		}
	}

	if !overwrite && s.rt.Manager.Exists(draft.Slug) {
		if !interactive {
			return fmt.Errorf("%w: %s.md (use --overwrite to replace it)", authoring.ErrPostExists, draft.Slug)
		}
		ok, err := prompts.ConfirmOverwrite(draft.Slug)
		if err != nil && !errors.Is(err, errPromptCancelled) {
			return err
		}
		if !ok {
			s.printer.Cancelled()
			return nil
		}
		overwrite = true
	}

	var path string
	if err := s.rt.Commands.Create.Execute(cmd.Context(), blogcmd.CreatePostCommand{
		Draft:     draft,
		Overwrite: overwrite,
		Path:      &path,
	}); err != nil {
		return err
	}
	s.printer.PostCreated(path)
	return nil
}

func (s *session) list(cmd *cobra.Command, asTable bool) error {
	var summaries []authoring.Summary
	err := s.rt.Commands.List.Execute(cmd.Context(), blogcmd.ListPostsCommand{Summaries: &summaries})
	if markdown.IsDirectoryNotFound(err) {
		s.printer.ContentDirMissing()
		return nil
	}
	if err != nil {
		return err
	}
	if asTable {
		s.printer.PostsTable(summaries)
		return nil
	}
	s.printer.Posts(summaries)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
