package adapter

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ihack2712/middleware/pipeline"
	"github.com/ihack2712/middleware/tracing"
)

// GRPCCall gRPC 一元调用在链中传递的参数.
type GRPCCall struct {
	Request  any
	Info     *grpc.UnaryServerInfo
	Response any
	Err      error
}

// UnaryServerInterceptor 将引擎转换为 gRPC 一元服务端拦截器.
//
// 上游追踪上下文会从 metadata 中提取，链路的 span 作为其子 span，
// 下游 handler 在链路 span 的上下文中执行.
// 失败映射为 codes.Internal（错误本身携带状态时保持原状态），
// 链路被中断且没有单元给出结果时映射为 codes.Aborted.
//
// 使用示例:
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(adapter.UnaryServerInterceptor(engine)),
//	)
func UnaryServerInterceptor(e *pipeline.Engine[*GRPCCall]) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx = tracing.ExtractIncoming(ctx)

		call := &GRPCCall{Request: req, Info: info}
		invoke := func(ctx context.Context) {
			call.Response, call.Err = handler(ctx, call.Request)
		}
		d := e.RunWithTerminal(ctx, call, func(runCtx context.Context, discontinue ...bool) error {
			if !isDiscontinue(discontinue) {
				invoke(runCtx)
			}
			return nil
		})

		if !d.Success {
			return nil, toStatus(d.Err)
		}
		if bypassed(d) {
			invoke(ctx)
		}
		if shortCircuited(d, call.Response, call.Err) {
			return nil, status.Error(codes.Aborted, d.Result().Error())
		}
		return call.Response, call.Err
	}
}

func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	var pe *pipeline.PanicError
	if errors.As(err, &pe) {
		return status.Error(codes.Internal, "pipeline: 内部错误")
	}
	return status.Error(codes.Internal, err.Error())
}
