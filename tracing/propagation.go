package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/metadata"
)

// MetadataCarrier 将 gRPC metadata 适配为 propagation.TextMapCarrier.
type MetadataCarrier metadata.MD

// Get 返回键对应的第一个值.
func (mc MetadataCarrier) Get(key string) string {
	vals := metadata.MD(mc).Get(key)
	if len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Set 设置键值.
func (mc MetadataCarrier) Set(key, value string) {
	metadata.MD(mc).Set(key, value)
}

// Keys 返回所有键.
func (mc MetadataCarrier) Keys() []string {
	keys := make([]string, 0, len(mc))
	for k := range mc {
		keys = append(keys, k)
	}
	return keys
}

// ExtractIncoming 从 gRPC 入站 metadata 提取上游追踪上下文.
func ExtractIncoming(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, MetadataCarrier(md))
}
