// Package app 组装日志、指标、追踪与诊断投递，创建统一配置的中间件链引擎.
package app

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/multierr"

	"github.com/ihack2712/middleware/logger"
	"github.com/ihack2712/middleware/metrics"
	"github.com/ihack2712/middleware/pipeline"
	"github.com/ihack2712/middleware/sink"
	"github.com/ihack2712/middleware/tracing"
)

// 预定义错误.
var (
	// ErrNilConfig 应用配置为空.
	ErrNilConfig = errors.New("app: 配置为空")
	// ErrInvalidConfig 应用配置无效.
	ErrInvalidConfig = errors.New("app: 配置无效")
)

const tracerName = "github.com/ihack2712/middleware/app"

// Kit 引擎运行所需的基础设施.
type Kit struct {
	cfg            *Config
	logger         logger.Logger
	metrics        *metrics.PrometheusCollector
	tracerProvider *sdktrace.TracerProvider
	sink           *sink.RedisSink

	mu       sync.Mutex
	cleanups []Cleanup
	closed   bool
}

// New 根据配置创建 Kit.
func New(cfg *Config, opts ...Option) (*Kit, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	k := &Kit{cfg: cfg, cleanups: o.cleanups}

	k.logger = o.logger
	if k.logger == nil {
		l, err := logger.NewLogger(cfg.Logger)
		if err != nil {
			return nil, err
		}
		k.logger = l
	}
	k.addCleanup("logger", func(context.Context) error { return k.logger.Sync() }, 100)

	collector, err := metrics.NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	k.metrics = collector

	tp, err := tracing.NewTracer(cfg.Tracing, cfg.Name, cfg.Version)
	if err != nil {
		return nil, err
	}
	k.tracerProvider = tp
	k.addCleanup("tracing", tp.Shutdown, 10)

	if cfg.Sink.Enabled {
		publisher := o.publisher
		if publisher == nil {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Sink.Addr,
				Password: cfg.Sink.Password,
				DB:       cfg.Sink.DB,
			})
			publisher = client
			k.addCleanup("redis", func(context.Context) error { return client.Close() }, 20)
		}
		s, err := sink.NewRedisSink(publisher, sink.WithChannel(cfg.Sink.Channel))
		if err != nil {
			return nil, err
		}
		k.sink = s
	}

	k.logger.With(
		logger.String("name", cfg.Name),
		logger.String("version", cfg.Version),
		logger.Bool("tracing", cfg.Tracing.Enabled),
		logger.Bool("sink", k.sink != nil),
	).Info("[Kit] initialized")

	return k, nil
}

// NewEngine 创建接入日志、追踪、指标与诊断投递的引擎.
// opts 在默认配置之后应用，可以覆盖默认值.
func NewEngine[A any](k *Kit, name string, opts ...pipeline.Option) *pipeline.Engine[A] {
	base := []pipeline.Option{
		pipeline.WithName(name),
		pipeline.WithLogger(k.logger),
		pipeline.WithTracer(k.tracerProvider.Tracer(tracerName)),
	}
	e := pipeline.New[A](append(base, opts...)...)

	metrics.Subscribe(k.metrics, e)
	if k.sink != nil {
		sink.Subscribe(k.sink, e)
	}
	return e
}

// Name 返回应用名称.
func (k *Kit) Name() string { return k.cfg.Name }

// Logger 返回日志记录器.
func (k *Kit) Logger() logger.Logger { return k.logger }

// Metrics 返回指标收集器.
func (k *Kit) Metrics() *metrics.PrometheusCollector { return k.metrics }

// TracerProvider 返回 TracerProvider.
func (k *Kit) TracerProvider() *sdktrace.TracerProvider { return k.tracerProvider }

// Sink 返回诊断投递器，未启用时为 nil.
func (k *Kit) Sink() *sink.RedisSink { return k.sink }

// Mount 在 mux 上注册指标端点.
func (k *Kit) Mount(mux *http.ServeMux) {
	mux.Handle(k.metrics.Path(), k.metrics.Handler())
}

func (k *Kit) addCleanup(name string, fn CleanupFunc, priority int) {
	k.cleanups = append(k.cleanups, Cleanup{Name: name, Fn: fn, Priority: priority})
}

// Shutdown 按优先级执行清理任务，重复调用为空操作.
// ctx 没有截止时间时使用 Config.ShutdownTimeout.
func (k *Kit) Shutdown(ctx context.Context) error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	cleanups := make([]Cleanup, len(k.cleanups))
	copy(cleanups, k.cleanups)
	k.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.cfg.ShutdownTimeout)
		defer cancel()
	}

	sort.SliceStable(cleanups, func(i, j int) bool {
		return cleanups[i].Priority < cleanups[j].Priority
	})

	var errs error
	for _, c := range cleanups {
		if err := c.Fn(ctx); err != nil {
			// logger 自身的 Sync 失败不再记录.
			if c.Name != "logger" {
				k.logger.With(
					logger.String("cleanup", c.Name),
					logger.Err(err),
				).Error("[Kit] cleanup failed")
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
