package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ihack2712/middleware/collections/linkedset"
	"github.com/ihack2712/middleware/event"
	"github.com/ihack2712/middleware/logger"
)

// Engine 中间件链执行引擎.
//
// 注册与运行可以并发进行：每次运行开始时对已注册单元做快照，
// 运行过程中的 Use/Unuse 只影响之后的运行.
type Engine[A any] struct {
	opts          *options
	mu            sync.RWMutex
	units         *linkedset.LinkedSet[any, Unit[A]]
	onDiagnostics *event.Event[*Diagnostics[A]]
}

// New 创建引擎.
func New[A any](opts ...Option) *Engine[A] {
	return &Engine[A]{
		opts:          applyOptions(opts),
		units:         linkedset.New[any, Unit[A]](),
		onDiagnostics: event.New[*Diagnostics[A]](),
	}
}

func (e *Engine[A]) identity() any { return e }

// Name 返回引擎名称.
func (e *Engine[A]) Name() string {
	return e.opts.name
}

// Use 注册中间件单元.
// 不可执行的单元被忽略，重复注册同一单元不改变其位置.
func (e *Engine[A]) Use(units ...Unit[A]) *Engine[A] {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range units {
		if IsUnit[A](u) {
			e.units.Add(u.identity(), u)
		}
	}
	return e
}

// Unuse 移除中间件单元，未注册的单元被忽略.
func (e *Engine[A]) Unuse(units ...Unit[A]) *Engine[A] {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range units {
		if IsUnit[A](u) {
			e.units.Remove(u.identity())
		}
	}
	return e
}

// Len 返回已注册单元数量.
func (e *Engine[A]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.units.Len()
}

// Units 按注册顺序返回单元快照.
func (e *Engine[A]) Units() []Unit[A] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.units.Values()
}

// OnDiagnostics 返回运行结束事件.
// 订阅者的错误和 panic 只会被记录，不影响运行结果.
func (e *Engine[A]) OnDiagnostics() *event.Event[*Diagnostics[A]] {
	return e.onDiagnostics
}

// Run 执行中间件链.
// next 不为 nil 时作为终端续延，在链路越过最后一个单元时调用.
// 作为嵌套单元运行时，next 即外层链的续延句柄.
func (e *Engine[A]) Run(ctx context.Context, args A, next Next) *Diagnostics[A] {
	return e.RunAndThen(ctx, next, args)
}

// RunAndThen 执行中间件链，链路结束后调用 last.
func (e *Engine[A]) RunAndThen(ctx context.Context, last Next, args A) *Diagnostics[A] {
	return e.run(ctx, args, func(context.Context) Next { return last })
}

// Terminal 接收运行上下文的终端续延.
type Terminal func(ctx context.Context, discontinue ...bool) error

// RunWithTerminal 执行中间件链，终端续延收到的 ctx 携带本次运行的 span 与运行 ID.
func (e *Engine[A]) RunWithTerminal(ctx context.Context, args A, last Terminal) *Diagnostics[A] {
	return e.run(ctx, args, func(runCtx context.Context) Next {
		if last == nil {
			return nil
		}
		return func(discontinue ...bool) error {
			return last(runCtx, discontinue...)
		}
	})
}

func (e *Engine[A]) run(ctx context.Context, args A, bind func(context.Context) Next) *Diagnostics[A] {
	if ctx == nil {
		ctx = context.Background()
	}

	units := e.Units()
	diag := &Diagnostics[A]{
		RunID:   uuid.NewString(),
		Success: true,
		Total:   len(units),
	}
	ctx = logger.ContextWithRunID(ctx, diag.RunID)

	ctx, span := e.opts.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.name", e.opts.name),
			attribute.String("pipeline.run_id", diag.RunID),
			attribute.Int("pipeline.units", len(units)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	start := time.Now()
	if len(units) == 0 {
		diag.ReachedLast = true
	} else {
		c := &chain[A]{
			ctx:       ctx,
			args:      args,
			units:     units,
			last:      bind(ctx),
			diag:      diag,
			stackSize: e.opts.stackSize,
		}
		// 失败已记录在 diag 中.
		_ = c.handle(0)()
	}
	diag.Duration = time.Since(start)

	e.finishSpan(span, diag)
	e.logRun(ctx, diag)
	if err := e.onDiagnostics.Dispatch(ctx, diag.clone()); err != nil {
		e.opts.logger.WithContext(ctx).Warn("diagnostics subscriber failed",
			logger.String("pipeline", e.opts.name),
			logger.Err(err),
		)
	}
	return diag.clone()
}

func (e *Engine[A]) finishSpan(span trace.Span, d *Diagnostics[A]) {
	span.SetAttributes(
		attribute.String("pipeline.outcome", d.Outcome()),
		attribute.Int("pipeline.ran", d.Ran),
		attribute.Int("pipeline.total_ran", d.TotalRan),
		attribute.Int("pipeline.proxies", d.Proxies),
		attribute.Int("pipeline.total", d.Total),
		attribute.Bool("pipeline.discontinued", d.Discontinued),
		attribute.Bool("pipeline.reached_last", d.ReachedLast),
	)
	if !d.Success {
		span.RecordError(d.Err)
		span.SetStatus(codes.Error, d.Err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (e *Engine[A]) logRun(ctx context.Context, d *Diagnostics[A]) {
	fields := []any{
		logger.String("pipeline", e.opts.name),
		logger.String("outcome", d.Outcome()),
		logger.Int("ran", d.Ran),
		logger.Int("total_ran", d.TotalRan),
		logger.Int("proxies", d.Proxies),
		logger.Int("total", d.Total),
		logger.Bool("discontinued", d.Discontinued),
		logger.Bool("reached_last", d.ReachedLast),
		logger.Duration("duration", d.Duration),
	}

	log := e.opts.logger.WithContext(ctx)
	if !d.Success {
		log.Warn(append([]any{"pipeline run failed", logger.Err(d.Err)}, fields...)...)
		return
	}
	log.Debug(append([]any{"pipeline run finished"}, fields...)...)
}
