package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marmos91/pipearchive/internal/archivelog"
	"github.com/marmos91/pipearchive/pkg/archive/metrics"

	_ "github.com/marmos91/pipearchive/pkg/archive/metrics/prometheus"
)

// serveShutdownTimeout bounds how long the metrics server is given to drain
// in-flight scrapes once an interrupt is received.
const serveShutdownTimeout = 10 * time.Second

var serveMetricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a long-lived process exposing archive/cache metrics",
	Long: `Serve starts a Prometheus /metrics endpoint for this process's
metrics registry and blocks until interrupted.

Page cache and archive counters (hits, misses, evictions, read/write
operations) are registered only when an archive is opened in the same
process. Serve itself opens no archive, and counters from other
pipearchivectl processes do not reach its registry.

Example:
  pipearchivectl serve --metrics-addr :9465`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", ":9465", "address the /metrics endpoint listens on")
}

func runServe(cmd *cobra.Command, args []string) error {
	metrics.InitRegistry(nil)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    serveMetricsAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		archivelog.Info("metrics server listening", "addr", serveMetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
	case <-ctx.Done():
		archivelog.Info("shutdown signal received, draining metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
	}

	return nil
}
