package pipeline

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ihack2712/middleware/logger"
)

// tracerName 链路追踪的 instrumentation scope.
const tracerName = "github.com/ihack2712/middleware/pipeline"

// options 引擎配置.
type options struct {
	name      string
	logger    logger.Logger
	tracer    trace.Tracer
	stackSize int
}

// Option 引擎配置函数.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		name:      "pipeline",
		logger:    logger.NewNop(),
		stackSize: 64 << 10,
	}
}

// WithName 设置引擎名称，用于日志、指标和追踪.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志记录器.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer 设置链路追踪器，默认使用全局 TracerProvider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithStackSize 设置 panic 堆栈捕获大小，默认 64KB.
func WithStackSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.stackSize = size
		}
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}
