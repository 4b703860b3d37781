package pipeline

import "time"

// 运行结果分类.
const (
	OutcomeCompleted    = "completed"
	OutcomeDiscontinued = "discontinued"
	OutcomeStalled      = "stalled"
	OutcomeFailed       = "failed"
)

// Diagnostics 单次运行的汇总信息.
//
// 计数规则:
//   - Ran: 本链中实际执行的函数单元数（不进入嵌套链）
//   - TotalRan: 包含所有嵌套链在内的函数单元执行数
//   - Proxies: 执行过的对象单元数（含嵌套）
//   - Total: 可达单元总数，嵌套链展开后按其自身 Total 调整
type Diagnostics[A any] struct {
	RunID string

	Success      bool
	Ran          int
	TotalRan     int
	Proxies      int
	Total        int
	Discontinued bool

	// ReachedLast 链路越过最后一个单元.
	ReachedLast bool
	// LastNextCalled 终端续延被调用（包括以中断方式调用）.
	LastNextCalled bool

	// 以下字段仅在失败时设置.
	Err        error
	Middleware Unit[A]
	Proxy      Unit[A]

	Duration time.Duration
}

// Outcome 返回运行结果分类.
func (d *Diagnostics[A]) Outcome() string {
	switch {
	case !d.Success:
		return OutcomeFailed
	case d.ReachedLast:
		return OutcomeCompleted
	case d.Discontinued:
		return OutcomeDiscontinued
	default:
		return OutcomeStalled
	}
}

// Result 将运行结果转换为错误.
// 完整执行返回 nil，失败返回记录的错误，否则返回 ErrDiscontinued 或 ErrStalled.
func (d *Diagnostics[A]) Result() error {
	switch d.Outcome() {
	case OutcomeFailed:
		return d.Err
	case OutcomeDiscontinued:
		return ErrDiscontinued
	case OutcomeStalled:
		return ErrStalled
	default:
		return nil
	}
}

func (d *Diagnostics[A]) clone() *Diagnostics[A] {
	c := *d
	return &c
}
