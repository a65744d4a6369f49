// Package metrics collects Prometheus metrics for tvdip runs.
//
// The command is a batch job, so metrics live in a private registry and
// are written once at the end in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-tvd/dsp/meanshift"
	"github.com/cwbudde/algo-tvd/dsp/tvd"
)

// Solution status label values.
const (
	StatusSolved   = "solved"
	StatusUnsolved = "unsolved"
	StatusStalled  = "stalled"

	StatusConverged   = "converged"
	StatusUnconverged = "unconverged"
)

// Metrics is safe for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	// solutionsTotal counts solved λ values by status
	solutionsTotal *prometheus.CounterVec
	// iterations tracks Newton iterations per λ
	iterations prometheus.Histogram
	// finalGap tracks the last duality gap per λ
	finalGap prometheus.Histogram
	// lineSearchExhausted counts iterations that fell back to the smallest step
	lineSearchExhausted prometheus.Counter
	// estimatesTotal counts mean-shift runs by method and status
	estimatesTotal *prometheus.CounterVec
	// estimateIterations tracks mean-shift updates per run
	estimateIterations *prometheus.HistogramVec
	// traceDuration tracks wall time per trace
	traceDuration prometheus.Histogram
	// traceErrors counts traces that failed
	traceErrors prometheus.Counter
}

// New registers all collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		solutionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tvdip_solutions_total",
			Help: "Total regularization values solved, by status",
		}, []string{"status"}),
		iterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tvdip_newton_iterations",
			Help:    "Newton iterations per regularization value",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 40, 60, 100},
		}),
		finalGap: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tvdip_final_duality_gap",
			Help:    "Duality gap when a regularization value finished",
			Buckets: prometheus.ExponentialBuckets(1e-9, 10, 12), // 1e-9 to 1e2
		}),
		lineSearchExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "tvdip_line_search_exhausted_total",
			Help: "Newton iterations whose line search accepted no trial step",
		}),
		estimatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tvdip_estimates_total",
			Help: "Total mean-shift estimates, by method and status",
		}, []string{"method", "status"}),
		estimateIterations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tvdip_meanshift_iterations",
			Help:    "Mean-shift updates per estimate",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 50, 100},
		}, []string{"method"}),
		traceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tvdip_trace_duration_seconds",
			Help:    "Wall time to solve one trace over its whole path",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
		traceErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "tvdip_trace_errors_total",
			Help: "Traces that could not be solved",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// RecordSolution records one finished λ.
func (m *Metrics) RecordSolution(sol tvd.Solution) {
	m.solutionsTotal.WithLabelValues(status(sol)).Inc()
	m.iterations.Observe(float64(sol.Iterations))
	m.finalGap.Observe(sol.Gap)
	m.lineSearchExhausted.Add(float64(sol.LineSearchExhausted))
}

// RecordEstimate records one finished mean-shift run.
func (m *Metrics) RecordEstimate(method string, res meanshift.Result) {
	st := StatusUnconverged
	if res.Converged {
		st = StatusConverged
	}
	m.estimatesTotal.WithLabelValues(method, st).Inc()
	m.estimateIterations.WithLabelValues(method).Observe(float64(res.Iterations))
}

// RecordTrace records one finished trace.
func (m *Metrics) RecordTrace(d time.Duration, err error) {
	m.traceDuration.Observe(d.Seconds())
	if err != nil {
		m.traceErrors.Inc()
	}
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func status(sol tvd.Solution) string {
	switch {
	case sol.Solved:
		return StatusSolved
	case sol.Stalled:
		return StatusStalled
	default:
		return StatusUnsolved
	}
}
