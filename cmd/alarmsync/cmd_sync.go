package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/mizutama/alarmsync/internal/metrics"
)

var (
	notifyTargets []string
	dryRun        bool
	watch         bool
	watchEvery    time.Duration
	metricsAddr   string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile CloudWatch alarms with discovered resources",
	Long: `Discover resources, diff the derived alarms against CloudWatch, and
apply the difference: create what is missing, delete what is stale.

A failed backend call aborts the rest of the run; re-running is always safe
because creates are idempotent upserts and deletes of absent alarms are
no-ops.

Examples:
  # One reconciliation run
  alarmsync sync --config ./alarm-config.yaml

  # Add an extra notification target to every created alarm
  alarmsync sync --notify arn:aws:sns:us-east-1:111111111111:oncall

  # Preview without writing
  alarmsync sync --dry-run

  # Keep reconciling every 10 minutes, serving metrics on :9090
  alarmsync sync --watch --every 10m`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVar(&notifyTargets, "notify", nil, "Additional notification target ARNs for created alarms")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the change set without applying it")
	syncCmd.Flags().BoolVar(&watch, "watch", false, "Keep reconciling on an interval")
	syncCmd.Flags().DurationVar(&watchEvery, "every", 5*time.Minute, "Reconciliation interval in watch mode")
	syncCmd.Flags().StringVar(&metricsAddr, "metrics", ":9090", "Metrics server address in watch mode")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	if watch {
		return runWatch(ctx, rt)
	}

	changes, err := rt.changeSet(ctx)
	if err != nil {
		return err
	}
	if dryRun {
		displayChangeSet(os.Stdout, changes)
		return nil
	}
	return rt.exec.Apply(ctx, changes, notifyTargets)
}

// runWatch repeats the full reconciliation on a ticker. Every tick is an
// independent run against the live backend, so a failed tick needs no
// cleanup beyond letting the next one happen.
func runWatch(ctx context.Context, rt *runtime) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	promExporter, err := prometheus.New()
	if err != nil {
		return err
	}
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter)))

	syncMetrics, err := metrics.NewSyncMetrics()
	if err != nil {
		return err
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", metricsAddr).Msg("starting metrics server")
		if err := http.ListenAndServe(metricsAddr, nil); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()

	log.Info().Dur("every", watchEvery).Bool("dry_run", dryRun).Msg("watch mode starting")

	runOnce := func() {
		changes, err := rt.changeSet(ctx)
		if err == nil && !dryRun {
			err = rt.exec.Apply(ctx, changes, notifyTargets)
		}
		syncMetrics.RecordRun(ctx, changes, err)
		if err != nil {
			log.Error().Err(err).Msg("reconciliation failed")
		}
	}

	runOnce()

	ticker := time.NewTicker(watchEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runOnce()
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		}
	}
}
