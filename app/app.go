// Package app builds the paralang-upload and paralang-download commands.
//
// Both commands take no arguments and no flags; everything is configured
// through the environment (see package config). They exit non-zero only for
// configuration errors and for failures that leave nothing to process.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paralang/paralang/config"
	"github.com/paralang/paralang/console"
	"github.com/paralang/paralang/i18n"
	"github.com/paralang/paralang/langsync"
	"github.com/paralang/paralang/paratranz"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

// Execute runs cmd and exits with status 1 if it fails.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		console.Stderr.Error("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Shared setup
// ---------------------------------------------------------------------------

// env bundles what both commands need once configuration has loaded.
type env struct {
	cfg    config.Config
	log    *console.Logger
	client *paratranz.Client
}

func setup() (*env, error) {
	i18n.Init(os.Getenv("PARALANG_LANG"))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Lang != "" {
		i18n.Init(cfg.Lang)
	}

	client := paratranz.NewClient(cfg.APIURL, cfg.ProjectID, cfg.Token)
	client.Retries = cfg.Retries
	client.HTTPClient.Timeout = cfg.Timeout

	return &env{cfg: cfg, log: console.Stderr, client: client}, nil
}

func (e *env) layout() langsync.Layout {
	return langsync.Layout{
		SourceDir:    e.cfg.SourceDir,
		OutputDir:    e.cfg.OutputDir,
		BaseLocale:   e.cfg.BaseLocale,
		TargetLocale: e.cfg.TargetLocale,
	}
}

func (e *env) hooks() langsync.Hooks {
	return langsync.Hooks{
		OnLog:     e.log.Info,
		OnSuccess: e.log.Success,
		OnWarn:    e.log.Warning,
		OnError:   e.log.Error,
	}
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// ---------------------------------------------------------------------------
// paralang-upload
// ---------------------------------------------------------------------------

// NewUploadCmd returns the paralang-upload root command.
func NewUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paralang-upload",
		Short: "Upload base locale .lang files to Paratranz",
		Long: `paralang-upload finds every base locale file (en_us.lang by default)
under the source directory, converts it to JSON and uploads it to the
Paratranz project at the same relative path with a .json extension.

Configuration is read from the environment:
  PARATRANZ_API_TOKEN   Paratranz API token (required)
  PROJECT_ID            Paratranz project ID (required)
  PARALANG_SOURCE_DIR   source directory (default "Source")
  PARALANG_CONFIG       optional YAML config file (default "paralang.yaml")`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runUpload(ctx, e, e.client)
		},
	}
}

func runUpload(ctx context.Context, e *env, up langsync.Uploader) error {
	exp := &langsync.Exporter{Layout: e.layout(), Uploader: up, Hooks: e.hooks()}

	e.log.Info("Looking for %s files in %s", exp.Layout.BaseFileName(), exp.Layout.SourceDir)
	report, err := exp.Export(ctx)
	if err != nil {
		return err
	}

	uploaded, skipped, failed := report.Counts()
	e.log.Info("Summary: %d uploaded, %d skipped, %d failed", uploaded, skipped, failed)
	if failed > 0 {
		e.log.Warning(i18n.N("%d file failed to upload", "%d files failed to upload", failed), failed)
		return nil
	}
	e.log.Success("All files processed!")
	return nil
}

// ---------------------------------------------------------------------------
// paralang-download
// ---------------------------------------------------------------------------

// NewDownloadCmd returns the paralang-download root command.
func NewDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paralang-download",
		Short: "Download translations from Paratranz into .lang files",
		Long: `paralang-download fetches every file of the Paratranz project and writes
its translations as a target locale file (zh_cn.lang by default) under the
output directory. The matching base locale file in the source directory is
used as a template so that comments and key order are preserved; without one,
keys are written in alphabetical order.

Entries that are untranslated, hidden or disputed keep their original text.

Configuration is read from the environment:
  PARATRANZ_API_TOKEN       Paratranz API token (required)
  PROJECT_ID                Paratranz project ID (required)
  PARALANG_SOURCE_DIR       template directory (default "Source")
  PARALANG_OUTPUT_DIR       output directory (default "CNPack")
  PARALANG_FALLBACK_STAGES  stages that keep the original (default "0,-1,2")
  PARALANG_CONFIG           optional YAML config file (default "paralang.yaml")`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runDownload(ctx, e, e.client)
		},
	}
}

func runDownload(ctx context.Context, e *env, src langsync.Source) error {
	im := &langsync.Importer{
		Layout: e.layout(),
		Source: src,
		Policy: langsync.NewStagePolicy(e.cfg.FallbackStages...),
		Hooks:  e.hooks(),
	}

	e.log.Info("Fetching file list from Paratranz...")
	report, err := im.Import(ctx)
	if err != nil {
		return err
	}

	written, failed := report.Counts()
	e.log.Info("Summary: %d written, %d failed", written, failed)
	if failed > 0 {
		e.log.Warning(i18n.N("%d file failed to download", "%d files failed to download", failed), failed)
		return nil
	}
	e.log.Success("All files processed!")
	return nil
}
