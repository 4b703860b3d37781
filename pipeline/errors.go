package pipeline

import (
	"errors"
	"fmt"
	"runtime"
)

// 预定义错误.
var (
	// ErrDiscontinued 链路被主动中断.
	ErrDiscontinued = errors.New("pipeline: 链路被中断")

	// ErrStalled 链路未到达终点且未被主动中断.
	ErrStalled = errors.New("pipeline: 链路未到达终点")

	// ErrNestedFailure 嵌套链报告失败但未携带错误.
	ErrNestedFailure = errors.New("pipeline: 嵌套链路失败")
)

// PanicError 表示中间件单元发生的 panic.
type PanicError struct {
	// Value 是 panic 的值.
	Value any
	// Stack 是堆栈信息.
	Stack []byte
}

// Error 实现 error 接口.
func (e *PanicError) Error() string {
	return fmt.Sprintf("pipeline: panic: %v", e.Value)
}

// Unwrap 返回原始错误（如果 panic 值是 error）.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(p any, stackSize int) *PanicError {
	stack := make([]byte, stackSize)
	n := runtime.Stack(stack, false)
	return &PanicError{Value: p, Stack: stack[:n]}
}
