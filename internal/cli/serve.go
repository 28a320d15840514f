package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/knowval/internal/api"
	"github.com/ppiankov/knowval/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	Long: `Serve exposes the validator under /api/v1 and, when enabled, Prometheus
metrics under /metrics. The demo snapshot and policy are seeded into an
empty data directory. With schedule.cron set, validations also run
periodically.

Example:
  knowval serve
  knowval serve --addr :9090 --data-dir ./data
  KNOWVAL_SCHEDULE_CRON="@every 1h" knowval serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Seed(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.watch(ctx)

	scheduler := pipeline.NewScheduler(a.pipeline, a.cfg.Schedule.Cron, a.logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	var metricsHandler http.Handler
	if a.collector != nil {
		metricsHandler = a.collector.Handler()
	}
	server := api.NewServer(a.cfg.Server, a.store, a.pipeline, metricsHandler, a.logger)

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("server shutting down")
	if err := server.Shutdown(10 * time.Second); err != nil {
		a.logger.Warn("shutdown", zap.Error(err))
	}
	return nil
}
