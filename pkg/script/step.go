package script

import (
	"fmt"
	"log"
)

// ContinuationKind 步骤结束后的去向
type ContinuationKind int

const (
	ContinueNext ContinuationKind = iota // 继续下一步
	GotoStep                             // 跳转到指定步骤
	StopList                             // 结束当前线程
)

// Continuation 步骤结束后的去向
type Continuation struct {
	Kind  ContinuationKind
	Index int // 仅 GotoStep 使用
}

// Next / Stop / Goto 构造常用的去向
var (
	Next = Continuation{Kind: ContinueNext}
	Stop = Continuation{Kind: StopList}
)

func Goto(index int) Continuation {
	return Continuation{Kind: GotoStep, Index: index}
}

// resolve 返回去向对应的步骤索引，-1 表示线程结束
func (c Continuation) resolve(current, count int) int {
	switch c.Kind {
	case GotoStep:
		return c.Index
	case StopList:
		return -1
	default:
		if current+1 >= count {
			return -1
		}
		return current + 1
	}
}

func (c Continuation) String() string {
	switch c.Kind {
	case GotoStep:
		return fmt.Sprintf("goto %d", c.Index)
	case StopList:
		return "stop"
	default:
		return "next"
	}
}

// Result 步骤执行结果
type Result struct {
	Wait   float64        // 执行去向前等待的秒数
	Next   Continuation   // 去向
	Repeat bool           // 步骤尚未完成，下一帧（或等待结束后）再次执行
	Fork   []Continuation // 并行步骤：当前线程走第一个，其余各开一个新线程
	Pause  bool           // 执行去向后暂停整个列表，等待恢复
}

// Step 动作列表中的单个步骤
type Step interface {
	// Run 正常执行，可以要求等待或在下一帧重复执行
	Run(ctx *Context) Result
	// Skip 跳过过场时同步执行，不等待
	Skip(ctx *Context) Result
}

// Context 步骤执行上下文
type Context struct {
	Script *Script
	Env    *Env
	Index  int // 正在执行的步骤索引
}

// redirected 包装指令，执行完成后走配置的去向而不是下一步
type redirected struct {
	Step
	next Continuation
}

func (r *redirected) Run(ctx *Context) Result {
	return r.redirect(r.Step.Run(ctx))
}

func (r *redirected) Skip(ctx *Context) Result {
	return r.redirect(r.Step.Skip(ctx))
}

func (r *redirected) redirect(res Result) Result {
	if !res.Repeat && res.Next.Kind == ContinueNext {
		res.Next = r.next
	}
	return res
}

// Conditional 根据变量比较结果选择两个去向之一
type Conditional struct {
	Variable string
	Compare  string
	Value    int
	Then     Continuation
	Else     Continuation
}

func (c *Conditional) evaluate(ctx *Context) bool {
	value := 0
	if ctx.Env != nil && ctx.Env.Variables != nil {
		value = ctx.Env.Variables.Variable(c.Variable)
	}
	switch c.Compare {
	case "!=":
		return value != c.Value
	case "<":
		return value < c.Value
	case "<=":
		return value <= c.Value
	case ">":
		return value > c.Value
	case ">=":
		return value >= c.Value
	default:
		return value == c.Value
	}
}

func (c *Conditional) Run(ctx *Context) Result {
	if c.evaluate(ctx) {
		return Result{Next: c.Then}
	}
	return Result{Next: c.Else}
}

func (c *Conditional) Skip(ctx *Context) Result {
	return c.Run(ctx)
}

// MultiBranch 以变量值为索引选择去向，越界时走默认去向
type MultiBranch struct {
	Variable string
	Cases    []Continuation
	Default  Continuation
}

func (m *MultiBranch) Run(ctx *Context) Result {
	value := -1
	if ctx.Env != nil && ctx.Env.Variables != nil {
		value = ctx.Env.Variables.Variable(m.Variable)
	}
	if value >= 0 && value < len(m.Cases) {
		return Result{Next: m.Cases[value]}
	}
	return Result{Next: m.Default}
}

func (m *MultiBranch) Skip(ctx *Context) Result {
	return m.Run(ctx)
}

// Parallel 同时进入多个分支
type Parallel struct {
	Branches []Continuation
}

func (p *Parallel) Run(ctx *Context) Result {
	if len(p.Branches) == 0 {
		log.Printf("[Script] Warning: parallel step %d has no branches", ctx.Index)
		return Result{Next: Next}
	}
	return Result{Fork: p.Branches}
}

func (p *Parallel) Skip(ctx *Context) Result {
	return p.Run(ctx)
}
