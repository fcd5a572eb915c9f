package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		applog.New(applog.DefaultConfig()).Warn("Ignoring .env file", applog.FieldError, err)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel, nil)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).Create(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	store := ledger.New(res.Backend, ledger.WithLogger(logger.WithComponent(applog.ComponentLedger)))
	if err := store.Load(ctx); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	formatter, err := report.NewFormatter(cfg.Locale, loc)
	if err != nil {
		return err
	}

	dashboards := cache.NewDashboards(store, cfg.CacheSize, cfg.CacheTTL)
	opts := []apphttp.Option{
		apphttp.WithLogger(logger),
		apphttp.WithFormatter(formatter),
		apphttp.WithDashboards(dashboards),
	}
	if cfg.SheetsExportEnabled() {
		exporter, err := newSheetsExporter(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, apphttp.WithExporter(exporter))
	}

	srv := apphttp.NewServer(cfg.Addr(), store, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"addr", srv.Addr,
			applog.FieldBackend, bcfg.Type.String(),
			"sheets_export", cfg.SheetsExportEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		cache.NewJanitor(logger, dashboards).Run(gctx, cfg.CacheTTL)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newSheetsExporter(ctx context.Context, cfg *config.Config) (sheets.RowWriter, error) {
	c, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleExportSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
