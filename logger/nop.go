package logger

import "context"

type nopLogger struct{}

// NewNop 返回丢弃所有输出的 logger.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(...any) {}

func (nopLogger) Debugf(string, ...any) {}

func (nopLogger) Info(...any) {}

func (nopLogger) Infof(string, ...any) {}

func (nopLogger) Warn(...any) {}

func (nopLogger) Warnf(string, ...any) {}

func (nopLogger) Error(...any) {}

func (nopLogger) Errorf(string, ...any) {}

func (n nopLogger) With(...Field) Logger { return n }

func (n nopLogger) WithContext(context.Context) Logger { return n }

func (nopLogger) Sync() error { return nil }
