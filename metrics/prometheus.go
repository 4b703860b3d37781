package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector Prometheus 指标收集器实现.
type PrometheusCollector struct {
	config *Config

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	unitsRan     *prometheus.HistogramVec
	proxiesTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus 创建 Prometheus 指标收集器.
func NewPrometheus(cfg *Config) (*PrometheusCollector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "pipeline"
	}
	unitBuckets := cfg.UnitBuckets
	if len(unitBuckets) == 0 {
		unitBuckets = prometheus.LinearBuckets(1, 2, 10)
	}

	// 独立注册表，避免与默认注册表冲突
	registry := prometheus.NewRegistry()

	c := &PrometheusCollector{
		config:   cfg,
		registry: registry,
	}

	c.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of middleware chain runs by outcome",
		},
		[]string{"pipeline", "outcome"},
	)

	c.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Middleware chain run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"pipeline"},
	)

	c.unitsRan = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "units_ran",
			Help:      "Number of function units run per chain run, nested chains included",
			Buckets:   unitBuckets,
		},
		[]string{"pipeline"},
	)

	c.proxiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxies_total",
			Help:      "Total number of nested chains run",
		},
		[]string{"pipeline"},
	)

	collectors := []prometheus.Collector{
		c.runsTotal,
		c.runDuration,
		c.unitsRan,
		c.proxiesTotal,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegisterMetric, err)
		}
	}

	return c, nil
}

// ObserveRun 记录一次链路运行.
func (c *PrometheusCollector) ObserveRun(run Run) {
	c.runsTotal.WithLabelValues(run.Pipeline, run.Outcome).Inc()
	c.runDuration.WithLabelValues(run.Pipeline).Observe(run.Duration.Seconds())
	c.unitsRan.WithLabelValues(run.Pipeline).Observe(float64(run.TotalRan))
	if run.Proxies > 0 {
		c.proxiesTotal.WithLabelValues(run.Pipeline).Add(float64(run.Proxies))
	}
}

// Registry 返回底层注册表.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 metrics 的 HTTP 处理器.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Path 返回 metrics 路径.
func (c *PrometheusCollector) Path() string {
	if c.config.Path == "" {
		return "/metrics"
	}
	return c.config.Path
}
