// Package metrics exposes Prometheus metrics for model fitting, sampling and
// connector I/O.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("fit")
//	model, err := synth.Build(values)
//	metrics.ObserveFit(kind, timer.Stop(), err)
//
//	metrics.RecordsRead.WithLabelValues("csv").Add(float64(n))
//
// All vectors are registered with the default registry through promauto, so
// promhttp.Handler() serves them without further setup.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "synthdata"

// Fit outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// ModelsFitted counts fitted column models.
	// Labels: kind (model kind, or "unknown" on failure), status (success/failure)
	ModelsFitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "models_fitted_total",
			Help:      "Total number of column models fitted",
		},
		[]string{"kind", "status"},
	)

	// FitDuration tracks how long a single column fit takes.
	FitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Time spent fitting one column model",
			Buckets: []float64{
				1e-5, // 10µs - tiny columns
				1e-4,
				1e-3, // 1ms
				1e-2,
				1e-1, // 100ms - large string columns
				1,
				10,
			},
		},
		[]string{"kind"},
	)

	// SamplesDrawn counts synthetic values drawn per model kind.
	SamplesDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Total number of synthetic values drawn",
		},
		[]string{"kind"},
	)

	// RecordsRead counts records read from sources.
	RecordsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Total number of records read from sources",
		},
		[]string{"source"},
	)

	// RecordsWritten counts synthetic records written to destinations.
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Total number of synthetic records written",
		},
		[]string{"destination"},
	)

	// NullProbability exposes the fitted missing-value rate of each column.
	NullProbability = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "null_probability",
			Help:      "Fitted probability of a missing value per column",
		},
		[]string{"column"},
	)

	// Throughput tracks records per second written by the last run.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_records_per_second",
			Help:      "Write throughput in records per second",
		},
		[]string{"source", "destination"},
	)
)

// ObserveFit records the outcome and duration of one column fit.
func ObserveFit(kind string, d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	ModelsFitted.WithLabelValues(kind, status).Inc()
	FitDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the label the timer was created with.
func (t *Timer) Name() string { return t.name }

// Stop returns the time elapsed since the timer was created. It can be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker computes records per second between resets.
// Safe for concurrent use.
type ThroughputTracker struct {
	mu          sync.Mutex
	count       int64
	lastReset   time.Time
	source      string
	destination string
}

// NewThroughputTracker creates a tracker labelled with the pipeline endpoints.
func NewThroughputTracker(source, destination string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset:   time.Now(),
		source:      source,
		destination: destination,
	}
}

// Increment adds n to the record count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset returns the throughput since the last reset, publishes it to the
// Throughput gauge and starts a new window.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.source, t.destination).Set(throughput)

	return throughput
}
