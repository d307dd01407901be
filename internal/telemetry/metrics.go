package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the job-level counters for one upload run. A one-shot tool
// has nothing to scrape, so metrics are pushed to a Pushgateway instead.
type Metrics struct {
	registry *prometheus.Registry

	PointsUploaded prometheus.Counter
	RunsSkipped    prometheus.Counter
	UploadDuration prometheus.Gauge
}

// NewMetrics creates and registers the upload job metrics on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.PointsUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "benchflux_points_uploaded_total",
		Help: "Number of measurement points written to the metrics database",
	})

	m.RunsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "benchflux_runs_skipped_total",
		Help: "Number of runs skipped because the report was already uploaded",
	})

	m.UploadDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "benchflux_upload_duration_seconds",
		Help: "Wall time of the last upload",
	})

	m.registry.MustRegister(m.PointsUploaded, m.RunsSkipped, m.UploadDuration)
	return m
}

// Gatherer exposes the private registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Push sends the collected metrics to a Prometheus Pushgateway under the
// given job name.
func (m *Metrics) Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
