package metrics

import (
	"time"

	"MacroSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline metrics to Prometheus.
type Recorder struct {
	fetchTotal     *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	indicatorValue *prometheus.GaugeVec
	indicatorStale *prometheus.GaugeVec
	criticalCount  prometheus.Gauge
	renderDuration prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrosentinel_fetch_total",
				Help: "Upstream calls by tag and outcome",
			},
			[]string{"tag", "outcome"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macrosentinel_fetch_duration_seconds",
				Help:    "Upstream call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tag"},
		),
		indicatorValue: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macrosentinel_indicator_value",
				Help: "Last resolved value per indicator",
			},
			[]string{"indicator"},
		),
		indicatorStale: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macrosentinel_indicator_stale",
				Help: "1 when the last render used the fallback value",
			},
			[]string{"indicator"},
		),
		criticalCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "macrosentinel_critical_count",
			Help: "Number of indicators at critical severity in the last render",
		}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "macrosentinel_render_duration_seconds",
			Help:    "Duration of a full dashboard render",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveFetch implements collector.FetchObserver.
func (r *Recorder) ObserveFetch(tag, outcome string, elapsed time.Duration) {
	r.fetchTotal.WithLabelValues(tag, outcome).Inc()
	r.fetchLatency.WithLabelValues(tag).Observe(elapsed.Seconds())
}

// ObserveRender records the outcome of one render.
func (r *Recorder) ObserveRender(state *model.DashboardState, elapsed time.Duration) {
	r.renderDuration.Observe(elapsed.Seconds())
	r.criticalCount.Set(float64(state.CriticalCount))
	for _, ind := range state.Indicators {
		r.indicatorValue.WithLabelValues(ind.Key).Set(ind.Value)
		stale := 0.0
		if ind.Stale {
			stale = 1
		}
		r.indicatorStale.WithLabelValues(ind.Key).Set(stale)
	}
}
