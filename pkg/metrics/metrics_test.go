package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
)

func TestRecorder_CountsFilesByResult(t *testing.T) {
	t.Parallel()

	rec := metrics.NewRecorder()
	rec.ObserveFile(metrics.ResultOK, 2*time.Millisecond, 120)
	rec.ObserveFile(metrics.ResultOK, time.Millisecond, 30)
	rec.ObserveFile(metrics.ResultFailed, time.Millisecond, 999)

	count, err := testutil.GatherAndCount(rec.Gatherer(), "tswift_transpile_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)

	values := map[string]float64{}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch family.GetName() {
			case "tswift_files_total":
				values[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
			case "tswift_output_bytes_total":
				values["bytes"] = metric.GetCounter().GetValue()
			case "tswift_transpile_duration_seconds":
				values["observations"] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.InDelta(t, 2, values[metrics.ResultOK], 0)
	assert.InDelta(t, 1, values[metrics.ResultFailed], 0)
	assert.InDelta(t, 150, values["bytes"], 0)
	assert.InDelta(t, 3, values["observations"], 0)
}

func TestRecorder_ToolCalls(t *testing.T) {
	t.Parallel()

	rec := metrics.NewRecorder()
	rec.ObserveToolCall("swift_transpile", metrics.StatusOK)
	rec.ObserveToolCall("swift_transpile", metrics.StatusError)
	rec.ObserveToolCall("swift_transpile", metrics.StatusOK)

	count, err := testutil.GatherAndCount(rec.Gatherer(), "tswift_mcp_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	t.Parallel()

	first := metrics.NewRecorder()
	second := metrics.NewRecorder()
	first.ObserveFile(metrics.ResultOK, time.Millisecond, 1)

	count, err := testutil.GatherAndCount(second.Gatherer(), "tswift_files_total")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	rec := metrics.NewRecorder()
	rec.ObserveFile(metrics.ResultInvalid, time.Millisecond, 0)

	path := filepath.Join(t.TempDir(), "tswift.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tswift_files_total{result="invalid"} 1`)
}
