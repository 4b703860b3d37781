package pipeline

import (
	"context"
	"reflect"
)

// Next 续延句柄，调用后执行链中的下一个单元.
//
// 传入 true 表示主动中断链路：标记 Discontinued 并直接返回.
// 同一句柄只会真正推进一次，重复调用为空操作.
// 返回值为下游单元首次记录的失败；已在更早位置记录过的失败不再向上传递.
type Next func(discontinue ...bool) error

// Handler 函数形态的中间件.
type Handler[A any] func(ctx context.Context, args A, next Next) error

// Runner 对象形态的中间件.
//
// Run 返回嵌套链的 Diagnostics，返回 nil 表示结果不可识别，
// 此时该单元按普通函数计数且不会自动推进外层链路.
type Runner[A any] interface {
	Run(ctx context.Context, args A, next Next) *Diagnostics[A]
}

// Unit 中间件单元，只能通过 Func、Object 或 *Engine 构造.
type Unit[A any] interface {
	identity() any
}

type funcUnit[A any] struct {
	handler Handler[A]
}

// Func 将函数包装为中间件单元.
// 每次调用返回新的单元，需保留返回值以便 Unuse 或重复注册去重.
func Func[A any](h Handler[A]) Unit[A] {
	return &funcUnit[A]{handler: h}
}

func (u *funcUnit[A]) identity() any { return u }

type objectUnit[A any] struct {
	runner Runner[A]
}

// Object 将 Runner 包装为中间件单元.
// 指针类型的 Runner 以其自身作为身份，多次包装同一 Runner 视为同一单元.
func Object[A any](r Runner[A]) Unit[A] {
	if u, ok := r.(Unit[A]); ok {
		return u
	}
	return &objectUnit[A]{runner: r}
}

func (u *objectUnit[A]) identity() any {
	if u.runner != nil && reflect.TypeOf(u.runner).Kind() == reflect.Pointer {
		return u.runner
	}
	return u
}

// IsUnit 判断单元是否可执行.
func IsUnit[A any](u Unit[A]) bool {
	switch v := u.(type) {
	case *funcUnit[A]:
		return v != nil && v.handler != nil
	case *objectUnit[A]:
		return v != nil && !isNil(v.runner)
	case *Engine[A]:
		return v != nil
	default:
		return false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func discontinued(flags []bool) bool {
	return len(flags) > 0 && flags[0]
}
