package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// NewTracer 创建 TracerProvider.
//
// 未启用时返回不导出任何数据的 TracerProvider.
// 调用方负责在退出时调用 Shutdown 刷新缓冲.
func NewTracer(cfg *Config, serviceName, serviceVersion string) (*sdktrace.TracerProvider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if !cfg.Enabled {
		return sdktrace.NewTracerProvider(), nil
	}

	if serviceName == "" {
		return nil, ErrEmptyServiceName
	}

	if cfg.OTLP == nil || cfg.OTLP.Endpoint == "" {
		return nil, ErrEmptyEndpoint
	}

	exp, err := otlptracehttp.New(context.Background(), exporterOptions(cfg.OTLP)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateExporter, err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateResource, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate(cfg.SamplingRate)))),
	)

	if cfg.Global {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	return tp, nil
}

// MustNewTracer 创建 TracerProvider，失败时 panic.
func MustNewTracer(cfg *Config, serviceName, serviceVersion string) *sdktrace.TracerProvider {
	tp, err := NewTracer(cfg, serviceName, serviceVersion)
	if err != nil {
		panic(err)
	}
	return tp
}

// exporterOptions 根据端点协议前缀决定是否使用 TLS.
func exporterOptions(cfg *OTLPConfig) []otlptracehttp.Option {
	endpoint := cfg.Endpoint
	insecure := true
	if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = after
		insecure = false
	} else if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = after
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return opts
}

func samplingRate(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return 1.0
	}
	return rate
}
