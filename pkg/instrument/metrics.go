package instrument

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "fluxion").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the dispatch duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "fluxion",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// promObserver implements fluxion.Observer backed by Prometheus collectors.
type promObserver struct {
	dispatchesTotal    *prometheus.CounterVec
	dispatchDuration   *prometheus.HistogramVec
	notificationsTotal prometheus.Counter
	listenersNotified  prometheus.Counter
	storesRegistered   prometheus.Gauge
}

// Prometheus creates an observer exporting dispatch and notification
// metrics. Collectors register against the configured registry immediately,
// so create at most one observer per registry.
func Prometheus(opts ...MetricsOption) fluxion.Observer {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &promObserver{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of actions dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "changed"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Reducer execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		notificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of notification delivery phases",
			ConstLabels: config.ConstLabels,
		}),

		listenersNotified: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_notified_total",
			Help:        "Total number of listener invocations across delivery phases",
			ConstLabels: config.ConstLabels,
		}),

		storesRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stores_registered",
			Help:        "Number of stores registered",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *promObserver) OnStoreRegistered(string) {
	m.storesRegistered.Inc()
}

func (m *promObserver) OnDispatch(store string, _ fluxion.Action, changed bool, _ time.Time, took time.Duration) {
	m.dispatchesTotal.WithLabelValues(store, strconv.FormatBool(changed)).Inc()
	m.dispatchDuration.WithLabelValues(store).Observe(took.Seconds())
}

func (m *promObserver) OnNotify(_ []string, listeners int) {
	m.notificationsTotal.Inc()
	m.listenersNotified.Add(float64(listeners))
}
