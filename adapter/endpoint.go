package adapter

import (
	"context"

	"github.com/ihack2712/middleware/endpoint"
	"github.com/ihack2712/middleware/pipeline"
)

// EndpointCall endpoint 调用在链中传递的参数.
//
// 单元可以修改 Request，或者设置 Response/Err 后不调用 next 以短路调用.
type EndpointCall struct {
	Request  any
	Response any
	Err      error
}

// EndpointMiddleware 将引擎转换为 endpoint 中间件.
//
// 链路失败时返回记录的错误；链路被中断且没有单元给出结果时返回 pipeline.ErrDiscontinued
// 或 pipeline.ErrStalled.
//
// 使用示例:
//
//	engine := pipeline.New[*adapter.EndpointCall]()
//	engine.Use(authUnit, validateUnit)
//	ep = endpoint.Chain(adapter.EndpointMiddleware(engine))(ep)
func EndpointMiddleware(e *pipeline.Engine[*EndpointCall]) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			call := &EndpointCall{Request: request}
			invoke := func(ctx context.Context) {
				call.Response, call.Err = next(ctx, call.Request)
			}
			d := e.RunWithTerminal(ctx, call, func(runCtx context.Context, discontinue ...bool) error {
				if !isDiscontinue(discontinue) {
					invoke(runCtx)
				}
				return nil
			})

			if !d.Success {
				return nil, d.Err
			}
			if bypassed(d) {
				invoke(ctx)
			}
			if shortCircuited(d, call.Response, call.Err) {
				return nil, d.Result()
			}
			return call.Response, call.Err
		}
	}
}

// EndpointUnit 将现有的 endpoint 中间件包装为链中的单元.
//
// 中间件调用下游 endpoint 时推进链路；不调用下游时其返回值作为调用结果.
// 下游链路记录的失败原样向上传递.
func EndpointUnit(m endpoint.Middleware) pipeline.Unit[*EndpointCall] {
	return pipeline.Func(func(ctx context.Context, call *EndpointCall, next pipeline.Next) error {
		var nextErr error
		ep := m(func(_ context.Context, request any) (any, error) {
			call.Request = request
			nextErr = next()
			return call.Response, call.Err
		})

		resp, err := ep(ctx, call.Request)
		if nextErr != nil {
			return nextErr
		}
		call.Response, call.Err = resp, err
		return nil
	})
}
