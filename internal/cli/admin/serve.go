package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/api/handlers"
	"github.com/DhanaAnjana/DocuMind/internal/cli"
	"github.com/DhanaAnjana/DocuMind/internal/jobs"
	"github.com/DhanaAnjana/DocuMind/internal/server"
	"github.com/DhanaAnjana/DocuMind/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the DocuMind API server for document upload, listing and question answering",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides DOCUMIND_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations-dir", defaultMigrationsDir, "Directory holding the SQL migrations")
	cli.BindEnv(cmd, "port", "DOCUMIND_PORT")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.HasSentry() {
		sampleRate := 1.0
		if cfg.IsProduction() {
			sampleRate = 0.1
		}
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
		}, log)
		if err != nil {
			log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
		} else {
			defer shutdownTelemetry()
		}
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	migrationsDir, _ := cmd.Flags().GetString("migrations-dir")

	a, err := newApp(ctx, cfg, log, appOptions{
		migrate:       !noMigrate,
		migrationsDir: migrationsDir,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	var consistencyWorker *jobs.Worker
	if cfg.ConsistencyCheckInterval > 0 {
		consistencyWorker = jobs.NewWorker(
			jobs.NewConsistencyJob(a.consistency),
			cfg.ConsistencyCheckInterval,
			log.Named("consistency"),
		)
		go consistencyWorker.Start(ctx)
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:          log,
		MaxBodyBytes:    cfg.MaxUploadBytes,
		DocumentHandler: handlers.NewDocumentHandler(a.ingestion, a.documents, cfg.DefaultListLimit),
		QueryHandler:    handlers.NewQueryHandler(a.query),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")

	if consistencyWorker != nil {
		consistencyWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
