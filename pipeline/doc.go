// Package pipeline 提供可嵌套的中间件链执行引擎.
//
// Engine 按注册顺序串行执行中间件单元，每个单元通过 next 决定继续、
// 中断（next(true)）或直接返回（短路）。单元有两种形态:
//
//   - 函数形态: Func(handler)，handler 返回错误或 panic 视为失败
//   - 对象形态: Object(runner)，runner 的 Run 返回嵌套的 Diagnostics；
//     *Engine 自身即为对象形态单元，可直接注册到另一个 Engine
//
// 每次运行返回一份 Diagnostics，汇总本链及所有嵌套链的执行情况，
// 运行本身从不向调用方返回错误，调用方需检查 Success / Err.
//
// 示例:
//
//	auth := pipeline.New[*Request](pipeline.WithName("auth"))
//	auth.Use(pipeline.Func(func(ctx context.Context, r *Request, next pipeline.Next) error {
//	    if r.Token == "" {
//	        return next(true)
//	    }
//	    return next()
//	}))
//
//	root := pipeline.New[*Request]()
//	root.Use(auth, pipeline.Func(handle))
//	d := root.Run(ctx, req, nil)
//	if !d.Success {
//	    log.Error("pipeline failed", logger.Err(d.Err))
//	}
package pipeline
