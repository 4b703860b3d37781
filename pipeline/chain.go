package pipeline

import "context"

// chain 单次运行的执行状态，仅由本次运行的续延句柄修改.
type chain[A any] struct {
	ctx       context.Context
	args      A
	units     []Unit[A]
	last      Next
	diag      *Diagnostics[A]
	stackSize int
	terminal  Next
}

// handle 构造位置 pos 的续延句柄.
// 句柄在被调用时才构造下一位置的句柄，未被推进的位置不会被构造或执行.
func (c *chain[A]) handle(pos int) Next {
	if pos >= len(c.units) {
		return c.end()
	}

	unit := c.units[pos]
	switch u := unit.(type) {
	case *funcUnit[A]:
		return c.step(func() error {
			c.diag.Ran++
			c.diag.TotalRan++
			err := c.invoke(func() error {
				return u.handler(c.ctx, c.args, c.handle(pos+1))
			})
			return c.fail(unit, err)
		})
	case *objectUnit[A]:
		return c.step(func() error { return c.proxy(pos, unit, u.runner) })
	case *Engine[A]:
		return c.step(func() error { return c.proxy(pos, unit, u) })
	default:
		c.diag.ReachedLast = true
		return c.end()
	}
}

// step 为单元执行函数加上一次性与中断语义.
func (c *chain[A]) step(run func() error) Next {
	var called bool
	return func(discontinue ...bool) error {
		if called {
			return nil
		}
		if discontinued(discontinue) {
			c.diag.Discontinued = true
			return nil
		}
		if c.diag.Discontinued {
			return nil
		}
		called = true
		return run()
	}
}

// proxy 执行对象单元并合并其嵌套结果.
func (c *chain[A]) proxy(pos int, unit Unit[A], r Runner[A]) error {
	next := c.handle(pos + 1)

	var nested *Diagnostics[A]
	err := c.invoke(func() error {
		nested = r.Run(c.ctx, c.args, next)
		return nil
	})
	if err != nil {
		return c.fail(unit, err)
	}

	// 非 Diagnostics 结果视为普通单元完成，推进由单元自行负责.
	if nested == nil {
		c.diag.Ran++
		return nil
	}

	c.merge(unit, nested)
	if c.diag.Discontinued || !c.diag.Success {
		return nil
	}
	return c.fail(unit, next())
}

func (c *chain[A]) merge(unit Unit[A], nested *Diagnostics[A]) {
	d := c.diag
	d.Proxies += 1 + nested.Proxies
	d.Total += nested.Total - 1
	d.TotalRan += nested.TotalRan

	// 嵌套链未走到终点即视为外层链被中断.
	if nested.Discontinued || !nested.ReachedLast {
		d.Discontinued = true
	}

	if nested.Success || !d.Success {
		return
	}
	d.Success = false
	d.Err = nested.Err
	if d.Err == nil {
		d.Err = ErrNestedFailure
	}
	d.Middleware = nested.Middleware
	d.Proxy = nested.Proxy
	if d.Proxy == nil {
		d.Proxy = unit
	}
}

// fail 记录首个失败并向上传递，已有失败时吞掉错误.
func (c *chain[A]) fail(unit Unit[A], err error) error {
	if err == nil || !c.diag.Success {
		return nil
	}
	c.diag.Success = false
	c.diag.Err = err
	c.diag.Middleware = unit
	return err
}

// end 返回终端续延，整个运行共享同一个实例.
func (c *chain[A]) end() Next {
	if c.terminal != nil {
		return c.terminal
	}

	var called bool
	c.terminal = func(discontinue ...bool) error {
		if called {
			return nil
		}
		c.diag.LastNextCalled = true
		if discontinued(discontinue) {
			c.diag.Discontinued = true
			if c.last != nil {
				return c.last(true)
			}
			return nil
		}
		if c.diag.Discontinued {
			return nil
		}
		called = true
		c.diag.ReachedLast = true
		if c.last != nil {
			return c.last()
		}
		return nil
	}
	return c.terminal
}

// invoke 调用单元并将 panic 转换为 *PanicError.
func (c *chain[A]) invoke(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = newPanicError(p, c.stackSize)
		}
	}()
	return fn()
}
