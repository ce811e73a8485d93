package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the fan-out pipeline counters.
type Metrics struct {
	EventsConsumed     prometheus.Counter
	EventsFailed       prometheus.Counter
	RecordsWritten     prometheus.Counter
	PushesSent         prometheus.Counter
	PipelineFailures   *prometheus.CounterVec
	FanoutDuration     prometheus.Histogram
	RecipientsPerEvent prometheus.Histogram
}

// New creates and registers all pipeline metrics on the default registry.
func New(namespace string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith registers the metrics on the given registerer; tests pass their own
// registry so repeated construction does not panic on double registration.
func NewWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_events_consumed_total",
			Help:      "Total transaction-created events consumed",
		}),
		EventsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_events_failed_total",
			Help:      "Total events whose recipient resolution failed",
		}),
		RecordsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_records_written_total",
			Help:      "Total notification records stored",
		}),
		PushesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_sent_total",
			Help:      "Total push messages accepted by the gateway",
		}),
		PipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipient_pipeline_failures_total",
			Help:      "Per-recipient pipeline failures by stage",
		}, []string{"stage"}),
		FanoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_duration_seconds",
			Help:      "Wall time to fully process one transaction event",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		RecipientsPerEvent: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recipients_per_event",
			Help:      "Recipients resolved per transaction event",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
}
