// Package metrics records per-run Prometheus metrics for batch translation
// and MCP tool calls.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for tswift_files_total.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultInvalid = "invalid"
)

// Status labels for tswift_mcp_calls_total.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder owns a private registry so independent runs never collide on
// collector registration.
type Recorder struct {
	registry    *prometheus.Registry
	files       *prometheus.CounterVec
	duration    prometheus.Histogram
	outputBytes prometheus.Counter
	toolCalls   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	rec := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tswift_files_total",
			Help: "Swift files processed, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tswift_transpile_duration_seconds",
			Help:    "Time spent translating one file.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tswift_output_bytes_total",
			Help: "Bytes of TypeScript produced.",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tswift_mcp_calls_total",
			Help: "MCP tool invocations, by tool and status.",
		}, []string{"tool", "status"}),
	}

	rec.registry.MustRegister(rec.files, rec.duration, rec.outputBytes, rec.toolCalls)

	return rec
}

// ObserveFile records one file outcome. outputBytes is ignored unless the
// result is ResultOK.
func (r *Recorder) ObserveFile(result string, elapsed time.Duration, outputBytes int) {
	r.files.WithLabelValues(result).Inc()
	r.duration.Observe(elapsed.Seconds())

	if result == ResultOK && outputBytes > 0 {
		r.outputBytes.Add(float64(outputBytes))
	}
}

// ObserveToolCall records one MCP tool invocation.
func (r *Recorder) ObserveToolCall(tool, status string) {
	r.toolCalls.WithLabelValues(tool, status).Inc()
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes the current values in the node_exporter textfile
// format.
func (r *Recorder) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
