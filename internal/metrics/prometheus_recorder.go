package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	opDuration      *prom.HistogramVec
	opResults       *prom.CounterVec
	holderFailures  *prom.CounterVec
	habitsTotal     prom.Gauge
	habitsCompleted prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.opDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "habits",
			Name:      "operation_duration_seconds",
			Help:      "Duration of repository operations",
			Buckets:   prom.DefBuckets,
		}, []string{"op"})
		pr.opResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "habits",
			Name:      "operation_results_total",
			Help:      "Repository operation counts by outcome",
		}, []string{"op", "result"})
		pr.holderFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "habits",
			Name:      "holder_failures_total",
			Help:      "Queued mutations that failed in the view-state holder",
		}, []string{"op"})
		pr.habitsTotal = prom.NewGauge(prom.GaugeOpts{
			Namespace: "habits",
			Name:      "habits",
			Help:      "Number of habits in the latest snapshot",
		})
		pr.habitsCompleted = prom.NewGauge(prom.GaugeOpts{
			Namespace: "habits",
			Name:      "habits_completed",
			Help:      "Number of completed habits in the latest snapshot",
		})
		reg.MustRegister(pr.opDuration, pr.opResults, pr.holderFailures, pr.habitsTotal, pr.habitsCompleted)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveOperation(op string, d time.Duration, result ResultLabel) {
	if p == nil || p.opDuration == nil {
		return
	}
	p.opDuration.WithLabelValues(op).Observe(d.Seconds())
	p.opResults.WithLabelValues(op, string(result)).Inc()
}

func (p *PrometheusRecorder) IncHolderFailure(op string) {
	if p == nil || p.holderFailures == nil {
		return
	}
	p.holderFailures.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) SetHabitCounts(total, completed int) {
	if p == nil || p.habitsTotal == nil {
		return
	}
	p.habitsTotal.Set(float64(total))
	p.habitsCompleted.Set(float64(completed))
}
