package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/migrations"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveMigrate bool
	serveNoJobs  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and scheduled maintenance jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveNoJobs, "no-jobs", false, "do not start the cron jobs")
}

func runServe(c *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := cmd.OpenDatabase(config, logger)
	if err != nil {
		return err
	}
	if serveMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := migrations.Up(sqlDB, logger); err != nil {
			return err
		}
	}

	root, err := cmd.NewCompositionRoot(ctx, config, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Warn("Shutdown was not clean", zap.Error(err))
		}
	}()

	if !serveNoJobs {
		jobManager := root.CreateJobManager()
		if err := jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()
	}

	e := httpin.NewRouter(root.CreateServer(), root.CreateHealthChecker(), logger)
	e.Logger.SetLevel(echoLogLevel(config.LogLevel))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func echoLogLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
