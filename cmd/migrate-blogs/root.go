package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/report"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var runtimeBuilder = bootstrap.Build

// errValidationFailed is returned with --fail-on-error when validation finds issues.
var errValidationFailed = errors.New("blog posts failed validation")

type migrateFlags struct {
	configPath  string
	contentDir  string
	user        string
	noDryRun    bool
	verbose     bool
	validate    bool
	failOnError bool
	debug       bool
	plain       bool
}

func newRootCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate-blogs",
		Short: "Migrate Markdown blog posts into the post store",
		Long: `Migrate every Markdown post of the content directory into the post store.

Runs as a dry run unless --no-dry-run is given. Use --validate to check the
posts without migrating them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&flags.noDryRun, "no-dry-run", false, "Write posts to the store instead of previewing them")
	fs.BoolVar(&flags.verbose, "verbose", false, "Print the outcome of every file")
	fs.BoolVar(&flags.validate, "validate", false, "Validate posts instead of migrating them")
	fs.BoolVar(&flags.failOnError, "fail-on-error", false, "Exit non-zero when any post fails")
	fs.StringVar(&flags.contentDir, "content-dir", "", "Content directory (overrides configuration)")
	fs.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	fs.StringVar(&flags.user, "user", "migrate-blogs", "User id recorded on migrated writes")
	fs.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&flags.plain, "plain", false, "Use ASCII markers instead of emoji")

	return cmd
}

func run(cmd *cobra.Command, flags *migrateFlags) error {
	ctx := cmd.Context()
	rt, err := runtimeBuilder(ctx, bootstrap.Options{
		ConfigPath: flags.configPath,
		ContentDir: flags.contentDir,
		Verbose:    flags.debug,
		LogWriter:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer rt.Close()

	var opts []report.Option
	if flags.plain {
		opts = append(opts, report.WithEmoji(false), report.WithColor(false))
	}
	printer := report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts...)
	dir := rt.Config.Content.Dir

	if flags.validate {
		return runValidate(cmd, rt, printer, dir, flags.failOnError)
	}
	return runMigrate(cmd, rt, printer, dir, flags)
}

func runValidate(cmd *cobra.Command, rt *bootstrap.Runtime, printer *report.Printer, dir string, failOnError bool) error {
	var result validation.Report
	err := rt.Commands.Validate.Execute(cmd.Context(), blogcmd.ValidateCommand{
		Directory: dir,
		OnStart:   printer.ValidationStart,
		Report:    &result,
	})
	if markdown.IsDirectoryNotFound(err) {
		printer.ValidationMissingDirectory(dir)
		return nil
	}
	if err != nil {
		return err
	}
	printer.Validation(result)
	if failOnError && !result.Valid() {
		return errValidationFailed
	}
	return nil
}

func runMigrate(cmd *cobra.Command, rt *bootstrap.Runtime, printer *report.Printer, dir string, flags *migrateFlags) error {
	dryRun := !flags.noDryRun
	total := 0
	var result migrate.Report

	err := rt.Commands.Migrate.Execute(cmd.Context(), blogcmd.MigrateCommand{
		Directory: dir,
		DryRun:    dryRun,
		Session:   &interfaces.Session{UserID: flags.user, DisplayName: "Blog migration"},
		OnStart: func(n int) {
			total = n
			if n > 0 {
				printer.MigrationStart(n, dryRun)
			}
		},
		OnResult: func(res migrate.FileResult) {
			printer.FileError(res)
			if dryRun {
				printer.Preview(res)
			}
			if flags.verbose {
				printer.Result(res)
			}
		},
		Report: &result,
	})
	switch {
	case markdown.IsDirectoryNotFound(err):
		printer.MissingDirectory(dir)
		return nil
	case err != nil && !result.Interrupted:
		return err
	case err == nil && total == 0:
		printer.NoFiles()
		return nil
	}

	printer.Summary(result)
	if err != nil {
		return err
	}
	if flags.failOnError && result.Errors > 0 {
		return fmt.Errorf("%d blog post(s) failed to migrate", result.Errors)
	}
	return nil
}
