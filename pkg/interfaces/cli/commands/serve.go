package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/application/services"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/interfaces/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer s.close()

	files, err := openAttachments(ctx, cfg.Attachments, logger)
	if err != nil {
		return err
	}

	eventStore := events.NewInMemoryEventStore(logger)
	server, err := api.NewServer(api.Services{
		Assets:   services.NewAssetService(s.assets, eventStore, files, logger),
		Racks:    services.NewRackInfoService(s.racks, logger),
		Licences: services.NewLicenceService(s.licences, s.categories, eventStore, logger),
		Supports: services.NewSupportService(s.supports, s.assets, eventStore, logger),
	}, cfg.Auth, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("database", cfg.Database.Driver),
			zap.String("attachments", cfg.Attachments.Backend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
