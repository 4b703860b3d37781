package event

import "errors"

// ErrHandlerPanic 事件处理器发生 panic.
var ErrHandlerPanic = errors.New("event: 处理器发生 panic")
