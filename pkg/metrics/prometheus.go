// Package metrics provides Prometheus metrics for the OptionScope deploy tool.
package metrics

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Deployment durations range from a few seconds (render.yaml) to many minutes (git push).
var defaultDurationBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200}

// Manager owns the tool's Prometheus collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	deployments        *prometheus.CounterVec
	deploymentDuration *prometheus.HistogramVec
	commandRuns        *prometheus.CounterVec
	envVarsExported    *prometheus.CounterVec
	stripeObjects      *prometheus.CounterVec
	stripeErrors       prometheus.Counter
	historyErrors      prometheus.Counter
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide metrics manager

// NewManager creates a manager registered on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "optionscope",
		subsystem:        "deploy",
		histogramBuckets: defaultDurationBuckets,
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.deployments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "deployments_total",
		Help:        "Deployments attempted, by platform and final status",
		ConstLabels: m.constLabels,
	}, []string{"platform", "status"})

	m.deploymentDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "deployment_duration_seconds",
		Help:        "Wall time of a deployment driver run",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"platform"})

	m.commandRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "command_runs_total",
		Help:        "External commands executed, by binary and result",
		ConstLabels: m.constLabels,
	}, []string{"command", "result"})

	m.envVarsExported = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "env_vars_exported_total",
		Help:        "Environment variables pushed to a platform",
		ConstLabels: m.constLabels,
	}, []string{"platform"})

	m.stripeObjects = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stripe_objects_created_total",
		Help:        "Stripe catalog objects created, by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.stripeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stripe_errors_total",
		Help:        "Failed Stripe API calls",
		ConstLabels: m.constLabels,
	})

	m.historyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_errors_total",
		Help:        "Failures writing the local deployment history",
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordDeployment counts a finished deployment and observes its duration.
func (m *Manager) RecordDeployment(platform, status string, seconds float64) {
	m.deployments.WithLabelValues(platform, status).Inc()
	m.deploymentDuration.WithLabelValues(platform).Observe(seconds)
}

// RecordCommand counts one external command run; result is "ok", "failed" or "error".
func (m *Manager) RecordCommand(command, result string) {
	m.commandRuns.WithLabelValues(filepath.Base(command), result).Inc()
}

// AddEnvVarsExported adds n exported variables for platform.
func (m *Manager) AddEnvVarsExported(platform string, n int) {
	if n <= 0 {
		return
	}
	m.envVarsExported.WithLabelValues(platform).Add(float64(n))
}

// RecordStripeObject counts a created Stripe object ("product" or "price").
func (m *Manager) RecordStripeObject(kind string) { m.stripeObjects.WithLabelValues(kind).Inc() }

// RecordStripeError counts a failed Stripe call.
func (m *Manager) RecordStripeError() { m.stripeErrors.Inc() }

// RecordHistoryError counts a failed history write.
func (m *Manager) RecordHistoryError() { m.historyErrors.Inc() }

// WriteTextfile snapshots every metric in Prometheus text format at path.
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty textfile path", ErrWriteFailed)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// RecordDeployment records on the process-wide manager.
func RecordDeployment(platform, status string, seconds float64) {
	globalManager.RecordDeployment(platform, status, seconds)
}

// RecordCommand records on the process-wide manager.
func RecordCommand(command, result string) {
	globalManager.RecordCommand(command, result)
}

// AddEnvVarsExported records on the process-wide manager.
func AddEnvVarsExported(platform string, n int) {
	globalManager.AddEnvVarsExported(platform, n)
}

// RecordStripeObject records on the process-wide manager.
func RecordStripeObject(kind string) {
	globalManager.RecordStripeObject(kind)
}

// RecordStripeError records on the process-wide manager.
func RecordStripeError() {
	globalManager.RecordStripeError()
}

// RecordHistoryError records on the process-wide manager.
func RecordHistoryError() {
	globalManager.RecordHistoryError()
}

// WriteTextfile snapshots the process-wide manager.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
