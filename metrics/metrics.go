// Package metrics 提供中间件链运行指标的 Prometheus 采集.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/ihack2712/middleware/pipeline"
)

// Run 单次链路运行的指标快照.
type Run struct {
	Pipeline string
	Outcome  string
	Ran      int
	TotalRan int
	Proxies  int
	Duration time.Duration
}

// Collector 指标收集器接口.
type Collector interface {
	ObserveRun(run Run)

	Handler() http.Handler
	Path() string
}

// NewMetrics 创建指标收集器.
func NewMetrics(cfg *Config) (*PrometheusCollector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	return NewPrometheus(cfg)
}

// MustNewMetrics 创建指标收集器，失败时 panic.
func MustNewMetrics(cfg *Config) *PrometheusCollector {
	c, err := NewMetrics(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// RunOf 从 Diagnostics 构造指标快照.
func RunOf[A any](name string, d *pipeline.Diagnostics[A]) Run {
	return Run{
		Pipeline: name,
		Outcome:  d.Outcome(),
		Ran:      d.Ran,
		TotalRan: d.TotalRan,
		Proxies:  d.Proxies,
		Duration: d.Duration,
	}
}

// Subscribe 订阅引擎的运行结束事件并记录指标，返回取消订阅函数.
//
// 使用示例:
//
//	collector := metrics.MustNewMetrics(metrics.DefaultConfig())
//	engine := pipeline.New[*Request](pipeline.WithName("auth"))
//	defer metrics.Subscribe(collector, engine)()
func Subscribe[A any](c Collector, e *pipeline.Engine[A]) (unsubscribe func()) {
	name := e.Name()
	return e.OnDiagnostics().Subscribe(func(_ context.Context, d *pipeline.Diagnostics[A]) error {
		c.ObserveRun(RunOf(name, d))
		return nil
	})
}
