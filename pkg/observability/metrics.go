package observability

import (
	"fmt"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by run hooks.
type Metrics struct {
	NodeResults *prometheus.CounterVec
	Retries     *prometheus.CounterVec
	Tokens      prometheus.Counter
	Frames      *prometheus.CounterVec
	NodeElapsed *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		NodeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_results_total",
			Help:      "Node results recorded, by node type and status.",
		}, []string{"node_type", "status"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_retries_total",
			Help:      "Node results recorded with a non-zero retry index.",
		}, []string{"node_type"}),
		Tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens added to runs.",
		}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Iteration and loop frame transitions.",
		}, []string{"frame", "event"}),
		NodeElapsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_result_run_elapsed_seconds",
			Help:      "Run time elapsed when a node result was recorded.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"node_type"}),
	}

	for _, c := range []prometheus.Collector{m.NodeResults, m.Retries, m.Tokens, m.Frames, m.NodeElapsed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	frame := func(kind, event string) func(*domain.FrameEvent) {
		return func(*domain.FrameEvent) {
			m.Frames.WithLabelValues(kind, event).Inc()
		}
	}
	return domain.LifecycleHooks{
		OnNodeResult: func(e *domain.NodeResultEvent) {
			m.NodeResults.WithLabelValues(e.Node.Type, string(e.Status)).Inc()
			if e.RetryIndex > 0 {
				m.Retries.WithLabelValues(e.Node.Type).Inc()
			}
			m.NodeElapsed.WithLabelValues(e.Node.Type).Observe(e.Elapsed.Seconds())
		},
		OnIterationEnter: frame("iteration", "enter"),
		OnIterationExit:  frame("iteration", "exit"),
		OnLoopEnter:      frame("loop", "enter"),
		OnLoopExit:       frame("loop", "exit"),
		OnTokens: func(e *domain.TokenEvent) {
			m.Tokens.Add(float64(e.Delta))
		},
	}
}

