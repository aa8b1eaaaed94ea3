package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the stamping counters registered on a caller-supplied
// registry.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec
	PagesStamped       prometheus.Counter
	DocumentsPersisted prometheus.Counter
	BatchDuration      prometheus.Histogram
}

// New registers the stamping metrics with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		DocumentsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_processed_total",
				Help: "Total number of documents attempted, by outcome.",
			},
			[]string{"status"},
		),
		PagesStamped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pages_stamped_total",
			Help: "Total number of pages the overlay was applied to.",
		}),
		DocumentsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "documents_persisted_total",
			Help: "Total number of stamped documents written to a destination.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "batch_duration_seconds",
			Help:    "Wall time spent processing one batch.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.DocumentsProcessed, m.PagesStamped, m.DocumentsPersisted, m.BatchDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
