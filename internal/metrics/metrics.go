// Package metrics exposes Prometheus collectors for order batches and the
// displayed project collection.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/folio/internal/domain/project"
)

// Recorder registers its collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	batches  *prometheus.CounterVec
	writes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	projects prometheus.Gauge
	loading  prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_reorder_batches_total",
			Help: "Order write batches by kind and outcome",
		}, []string{"kind", "outcome"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_reorder_writes_total",
			Help: "Individual order writes issued by batches",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_reorder_batch_duration_seconds",
			Help:    "Time from optimistic update to settlement of every write",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		projects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_projects_displayed",
			Help: "Number of projects in the local store",
		}),
		loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_store_loading",
			Help: "1 while the store waits on the server",
		}),
	}
	r.registry.MustRegister(r.batches, r.writes, r.duration, r.projects, r.loading)
	return r
}

// ObserveBatch implements project.BatchObserver.
func (r *Recorder) ObserveBatch(kind, outcome string, writes int, elapsed time.Duration) {
	r.batches.WithLabelValues(kind, outcome).Inc()
	r.writes.WithLabelValues(kind, outcome).Add(float64(writes))
	r.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveStore is a project.Observer tracking the displayed collection.
func (r *Recorder) ObserveStore(st project.State) {
	r.projects.Set(float64(len(st.Items)))
	if st.IsLoading {
		r.loading.Set(1)
	} else {
		r.loading.Set(0)
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
