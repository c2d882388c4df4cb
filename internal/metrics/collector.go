// Package metrics exposes the fetch pipeline's Prometheus instrumentation:
// how many reads are in flight, how deep the page queue is running, and how
// many reads have failed, broken down by error kind.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls whether the collector is active and where it serves
// Prometheus scrapes from.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Collector holds the pipeline's Prometheus series. A nil-safe zero value
// (or one built with Enabled: false) is a no-op: every Record/Set method
// checks enabled before touching the registry.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	readsInflight prometheus.Gauge
	pagesQueued   prometheus.Gauge
	readErrors    *prometheus.CounterVec

	server *http.Server
}

// NewCollector builds a Collector. A nil config defaults to enabled, on
// :8080, serving /metrics.
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = &Config{Enabled: true, Port: 8080, Path: "/metrics", Namespace: "objectfs"}
	}
	if config.Path == "" {
		config.Path = "/metrics"
	}
	if config.Namespace == "" {
		config.Namespace = "objectfs"
	}

	c := &Collector{config: config}
	if !config.Enabled {
		return c, nil
	}

	c.registry = prometheus.NewRegistry()
	c.readsInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Subsystem: "pipeline",
		Name:      "reads_inflight",
		Help:      "Number of object reads currently running against a store adapter.",
	})
	c.pagesQueued = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Subsystem: "pipeline",
		Name:      "pages_queued",
		Help:      "Number of listing pages buffered ahead of the page processor.",
	})
	c.readErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: "store",
		Name:      "read_errors_total",
		Help:      "Count of object reads that failed, labeled by objerrors kind.",
	}, []string{"kind"})

	for _, collector := range []prometheus.Collector{c.readsInflight, c.pagesQueued, c.readErrors} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// Start serves the registry's /metrics endpoint until ctx is done or Stop is
// called. A disabled collector is a no-op.
func (c *Collector) Start(ctx context.Context) error {
	if c.config == nil || !c.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop shuts down the metrics HTTP server, if one was started.
func (c *Collector) Stop(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}

// ReadStarted increments the in-flight read gauge. Call ReadFinished when
// the read body returns, success or failure.
func (c *Collector) ReadStarted() {
	if c.enabled() {
		c.readsInflight.Inc()
	}
}

// ReadFinished decrements the in-flight read gauge.
func (c *Collector) ReadFinished() {
	if c.enabled() {
		c.readsInflight.Dec()
	}
}

// SetPagesQueued reports the current depth of the page queue.
func (c *Collector) SetPagesQueued(n int) {
	if c.enabled() {
		c.pagesQueued.Set(float64(n))
	}
}

// RecordReadError increments the read-error counter for the given
// objerrors.Kind (passed as a string so this package need not import
// pkg/objerrors).
func (c *Collector) RecordReadError(kind string) {
	if c.enabled() {
		c.readErrors.WithLabelValues(kind).Inc()
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config != nil && c.config.Enabled
}
