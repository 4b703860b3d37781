package app

import (
	"context"

	"github.com/ihack2712/middleware/logger"
	"github.com/ihack2712/middleware/sink"
)

// CleanupFunc 清理函数.
type CleanupFunc func(ctx context.Context) error

// Cleanup 清理任务.
type Cleanup struct {
	Name     string
	Fn       CleanupFunc
	Priority int // 数字越小越先执行
}

// options 内部配置.
type options struct {
	logger    logger.Logger
	publisher sink.Publisher
	cleanups  []Cleanup
}

// Option 配置选项.
type Option func(*options)

// WithLogger 使用外部日志记录器，忽略 Config.Logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithPublisher 使用外部 Redis 发布者，忽略 Config.Sink 中的连接参数.
func WithPublisher(p sink.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithCleanup 注册清理任务.
func WithCleanup(name string, fn CleanupFunc, priority int) Option {
	return func(o *options) {
		o.cleanups = append(o.cleanups, Cleanup{
			Name:     name,
			Fn:       fn,
			Priority: priority,
		})
	}
}

// WithCloser 注册 io.Closer 作为清理任务.
func WithCloser(name string, closer interface{ Close() error }, priority int) Option {
	return WithCleanup(name, func(context.Context) error {
		return closer.Close()
	}, priority)
}
