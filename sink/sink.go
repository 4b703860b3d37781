// Package sink 提供运行诊断信息的外部投递.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ihack2712/middleware/pipeline"
)

// 预定义错误.
var (
	// ErrNilPublisher 发布者为空.
	ErrNilPublisher = errors.New("sink: 发布者为空")
	// ErrPublish 发布失败.
	ErrPublish = errors.New("sink: 发布诊断信息失败")
)

// Record 投递的诊断记录.
type Record struct {
	RunID          string    `json:"run_id"`
	Pipeline       string    `json:"pipeline"`
	Outcome        string    `json:"outcome"`
	Success        bool      `json:"success"`
	Ran            int       `json:"ran"`
	TotalRan       int       `json:"total_ran"`
	Proxies        int       `json:"proxies"`
	Total          int       `json:"total"`
	Discontinued   bool      `json:"discontinued"`
	ReachedLast    bool      `json:"reached_last"`
	LastNextCalled bool      `json:"last_next_called"`
	Error          string    `json:"error,omitempty"`
	DurationMs     float64   `json:"duration_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewRecord 从 Diagnostics 构造记录.
func NewRecord[A any](name string, d *pipeline.Diagnostics[A]) Record {
	r := Record{
		RunID:          d.RunID,
		Pipeline:       name,
		Outcome:        d.Outcome(),
		Success:        d.Success,
		Ran:            d.Ran,
		TotalRan:       d.TotalRan,
		Proxies:        d.Proxies,
		Total:          d.Total,
		Discontinued:   d.Discontinued,
		ReachedLast:    d.ReachedLast,
		LastNextCalled: d.LastNextCalled,
		DurationMs:     float64(d.Duration) / float64(time.Millisecond),
	}
	if d.Err != nil {
		r.Error = d.Err.Error()
	}
	return r
}

// Publisher Redis 发布接口，*redis.Client 与 *redis.ClusterClient 均满足.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink 通过 Redis Pub/Sub 投递诊断记录.
type RedisSink struct {
	publisher Publisher
	channel   string
	now       func() time.Time
}

// Option RedisSink 配置选项.
type Option func(*RedisSink)

// WithChannel 设置发布频道.
//
// 默认 "pipeline:diagnostics".
func WithChannel(channel string) Option {
	return func(s *RedisSink) {
		if channel != "" {
			s.channel = channel
		}
	}
}

// NewRedisSink 创建 RedisSink.
func NewRedisSink(p Publisher, opts ...Option) (*RedisSink, error) {
	if p == nil {
		return nil, ErrNilPublisher
	}

	s := &RedisSink{
		publisher: p,
		channel:   "pipeline:diagnostics",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Channel 返回发布频道.
func (s *RedisSink) Channel() string {
	return s.channel
}

// Publish 发布一条记录.
func (s *RedisSink) Publish(ctx context.Context, r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	if err := s.publisher.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

// Handler 返回可订阅到 Engine.OnDiagnostics 的处理器.
func Handler[A any](s *RedisSink, name string) func(context.Context, *pipeline.Diagnostics[A]) error {
	return func(ctx context.Context, d *pipeline.Diagnostics[A]) error {
		return s.Publish(ctx, NewRecord(name, d))
	}
}

// Subscribe 将 RedisSink 订阅到引擎，返回取消订阅函数.
func Subscribe[A any](s *RedisSink, e *pipeline.Engine[A]) (unsubscribe func()) {
	return e.OnDiagnostics().Subscribe(Handler[A](s, e.Name()))
}
