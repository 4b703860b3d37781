// Package endpoint 提供端点抽象和端点中间件.
package endpoint

import "context"

// Endpoint 表示单个 RPC 方法.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware 是 Endpoint 中间件.
type Middleware func(Endpoint) Endpoint

// Chain 将多个中间件按顺序组合，第一个中间件位于最外层.
// 没有中间件时返回 NopMiddleware.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				next = mws[i](next)
			}
		}
		return next
	}
}

// Nop 是一个空的 Endpoint.
func Nop(context.Context, any) (any, error) { return struct{}{}, nil }

// NopMiddleware 是一个空的中间件.
func NopMiddleware(next Endpoint) Endpoint { return next }
