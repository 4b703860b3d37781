// Package event 提供类型化的事件分发.
package event

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Handler 事件处理器.
type Handler[T any] func(ctx context.Context, payload T) error

// Event 单一类型事件，按订阅顺序通知所有处理器.
//
// 某个处理器失败不会中断后续处理器，所有错误（包括 panic）被合并后由 Dispatch 返回.
//
// 示例:
//
//	var e event.Event[int]
//	unsubscribe := e.Subscribe(func(ctx context.Context, n int) error {
//	    fmt.Println(n)
//	    return nil
//	})
//	defer unsubscribe()
//	_ = e.Dispatch(ctx, 42)
type Event[T any] struct {
	mu       sync.RWMutex
	seq      uint64
	handlers []subscription[T]
}

type subscription[T any] struct {
	id      uint64
	handler Handler[T]
}

// New 创建事件.
func New[T any]() *Event[T] {
	return &Event[T]{}
}

// Subscribe 订阅事件，返回取消订阅函数.
// nil 处理器被忽略.
func (e *Event[T]) Subscribe(handler Handler[T]) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}

	e.mu.Lock()
	e.seq++
	id := e.seq
	e.handlers = append(e.handlers, subscription[T]{id: id, handler: handler})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

// Len 返回订阅者数量.
func (e *Event[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Dispatch 分发事件.
func (e *Event[T]) Dispatch(ctx context.Context, payload T) error {
	e.mu.RLock()
	handlers := make([]subscription[T], len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var err error
	for _, s := range handlers {
		err = multierr.Append(err, invoke(ctx, s.handler, payload))
	}
	return err
}

func (e *Event[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.handlers {
		if s.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// invoke 调用处理器并将 panic 转换为错误.
func invoke[T any](ctx context.Context, h Handler[T], payload T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, p)
		}
	}()
	return h(ctx, payload)
}
