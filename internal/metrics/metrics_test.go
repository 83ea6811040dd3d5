package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mizutama/alarmsync/types"
)

func collectCounters(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	return sums
}

func TestRecordRun(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	m, err := NewSyncMetrics()
	require.NoError(t, err)

	changes := &types.ChangeSet{
		ToCreate: []types.AlarmSpec{{AlarmName: "a"}, {AlarmName: "b"}},
		ToDelete: []string{"c"},
	}
	m.RecordRun(context.Background(), changes, nil)
	m.RecordRun(context.Background(), nil, errors.New("boom"))

	sums := collectCounters(t, reader)
	assert.Equal(t, int64(2), sums["alarmsync_runs_total"])
	assert.Equal(t, int64(1), sums["alarmsync_run_failures_total"])
	assert.Equal(t, int64(2), sums["alarmsync_alarms_created_total"])
	assert.Equal(t, int64(1), sums["alarmsync_alarms_deleted_total"])
}
