// Package adapter 将中间件链引擎接入 endpoint、HTTP 与 gRPC 服务.
//
// 被包装的下游处理器作为链的终端续延：只有当链路越过最后一个单元时才会被调用.
// 中间件单元可以通过不调用 next 来接管响应.
package adapter

import "github.com/ihack2712/middleware/pipeline"

func isDiscontinue(flags []bool) bool {
	return len(flags) > 0 && flags[0]
}

// bypassed 链中没有单元，终端续延未被调用，下游需由适配器直接调用.
func bypassed[A any](d *pipeline.Diagnostics[A]) bool {
	return d.ReachedLast && !d.LastNextCalled
}

// shortCircuited 链路未到达终点且单元未给出任何结果.
func shortCircuited[A any](d *pipeline.Diagnostics[A], response any, err error) bool {
	return !d.ReachedLast && response == nil && err == nil
}
