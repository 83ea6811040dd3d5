// Package metrics records reconciliation outcomes as OTEL metrics, exported
// in Prometheus format when watch mode serves a metrics endpoint.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mizutama/alarmsync/types"
)

// SyncMetrics counts runs and applied alarm changes.
type SyncMetrics struct {
	runsTotal     metric.Int64Counter
	failuresTotal metric.Int64Counter
	alarmsCreated metric.Int64Counter
	alarmsDeleted metric.Int64Counter
}

// NewSyncMetrics creates the counters on the global meter provider.
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter("alarmsync")

	runs, err := meter.Int64Counter(
		"alarmsync_runs_total",
		metric.WithDescription("Total reconciliation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	failures, err := meter.Int64Counter(
		"alarmsync_run_failures_total",
		metric.WithDescription("Total failed reconciliation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	created, err := meter.Int64Counter(
		"alarmsync_alarms_created_total",
		metric.WithDescription("Total alarms created"),
		metric.WithUnit("{alarm}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	deleted, err := meter.Int64Counter(
		"alarmsync_alarms_deleted_total",
		metric.WithDescription("Total alarms deleted"),
		metric.WithUnit("{alarm}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return &SyncMetrics{
		runsTotal:     runs,
		failuresTotal: failures,
		alarmsCreated: created,
		alarmsDeleted: deleted,
	}, nil
}

// RecordRun records the outcome of one reconciliation run.
func (m *SyncMetrics) RecordRun(ctx context.Context, changes *types.ChangeSet, err error) {
	m.runsTotal.Add(ctx, 1)
	if err != nil {
		m.failuresTotal.Add(ctx, 1)
		return
	}
	m.alarmsCreated.Add(ctx, int64(len(changes.ToCreate)))
	m.alarmsDeleted.Add(ctx, int64(len(changes.ToDelete)))
}
