package script

import (
	"log"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/types"
)

// skipBudget 跳过时最多执行的步骤数，防止配置中的循环导致死循环
const skipBudget = 10000

// thread 列表中的一个执行线程（并行步骤会产生多个线程）
type thread struct {
	index   int
	wait    float64
	pending *Result // 等待结束后执行的结果
}

// Script 动作列表的运行时实例，实现 actionlist.Sequence
//
// 场景列表由场景持有，ID 为配置中的名称；资源列表由 Definition.Spawn 生成。
// 每次 Start/Skip/Kill 都会使 generation 加一，正在执行的 Tick 发现代数变化后立即退出，
// 这样步骤在执行过程中结束或重启自己所在的列表是安全的。
type Script struct {
	id        string
	sceneName string
	def       *Definition
	host      actionlist.Host
	env       *Env

	threads        []*thread
	running        bool
	destroyed      bool
	generation     int
	pauseRequested bool
}

// NewScript 创建实例（尚未开始运行）
func NewScript(id, sceneName string, def *Definition, host actionlist.Host) *Script {
	return &Script{
		id:        id,
		sceneName: sceneName,
		def:       def,
		host:      host,
		env:       def.env,
	}
}

// SetHost 设置生命周期回调的接收方
func (s *Script) SetHost(host actionlist.Host) {
	s.host = host
}

// Definition 返回实例所属的定义
func (s *Script) Definition() *Definition {
	return s.def
}

func (s *Script) ID() string               { return s.id }
func (s *Script) SceneName() string        { return s.sceneName }
func (s *Script) ListType() types.ListType { return s.def.opts.ListType }
func (s *Script) IsRunning() bool          { return s.running }
func (s *Script) IsSkippable() bool        { return s.def.opts.Skippable }
func (s *Script) AutosaveAfter() bool      { return s.def.opts.AutosaveAfter }
func (s *Script) UnfreezePauseMenus() bool { return s.def.opts.UnfreezePauseMenus }
func (s *Script) IsDestroyed() bool        { return s.destroyed }

// Destroy 停止并标记实例已销毁（资源列表记录在恢复时会重新生成实例）
func (s *Script) Destroy() {
	s.Kill()
	s.destroyed = true
}

// Start 从给定步骤开始运行，空切片表示从第一步开始
//
// 参数：
//   - indices: 每个索引对应一个线程
//   - addToSkipQueue: 是否请求加入跳过队列
func (s *Script) Start(indices []int, addToSkipQueue bool) {
	if s.destroyed {
		log.Printf("[Script] Warning: cannot start destroyed list %s", s.id)
		return
	}
	if len(indices) == 0 {
		indices = []int{0}
	}

	s.generation++
	s.pauseRequested = false
	s.threads = nil
	for _, i := range indices {
		if i >= 0 && i < len(s.def.steps) {
			s.threads = append(s.threads, &thread{index: i})
		} else {
			log.Printf("[Script] Warning: %s start index %d out of range", s.id, i)
		}
	}
	s.running = true

	if s.env != nil && s.env.Runner != nil {
		s.env.Runner.add(s)
	}
	if s.host != nil {
		s.host.AddToList(s, addToSkipQueue, indices[0])
	}
	if s.running && len(s.threads) == 0 {
		s.finish()
	}
}

// Tick 推进一帧：每个线程最多执行一个步骤
func (s *Script) Tick(dt float64) {
	if !s.running {
		return
	}
	gen := s.generation

	current := s.threads
	kept := make([]*thread, 0, len(current))
	var forked []*thread
	for _, th := range current {
		alive := s.advance(th, dt, &forked)
		if s.generation != gen || !s.running {
			return
		}
		if alive {
			kept = append(kept, th)
		}
	}
	s.threads = append(kept, forked...)

	if len(s.threads) == 0 {
		s.finish()
		return
	}
	if s.pauseRequested {
		s.pauseRequested = false
		s.pause()
	}
}

// advance 推进一个线程，返回线程是否仍然存活
func (s *Script) advance(th *thread, dt float64, forked *[]*thread) bool {
	if th.wait > 0 {
		th.wait -= dt
		if th.wait > 0 {
			return true
		}
		th.wait = 0
	}
	if th.pending != nil {
		res := *th.pending
		th.pending = nil
		return s.apply(th, res, forked)
	}

	ctx := &Context{Script: s, Env: s.env, Index: th.index}
	res := s.def.steps[th.index].Run(ctx)
	if res.Wait > 0 {
		th.wait = res.Wait
		res.Wait = 0
		th.pending = &res
		return true
	}
	return s.apply(th, res, forked)
}

// apply 执行步骤结果的去向
func (s *Script) apply(th *thread, res Result, forked *[]*thread) bool {
	if res.Repeat {
		return true
	}
	if res.Pause {
		s.pauseRequested = true
	}

	count := len(s.def.steps)
	if len(res.Fork) > 0 {
		for _, c := range res.Fork[1:] {
			if i := c.resolve(th.index, count); i >= 0 && i < count {
				*forked = append(*forked, &thread{index: i})
			}
		}
		return s.moveTo(th, res.Fork[0].resolve(th.index, count))
	}
	return s.moveTo(th, res.Next.resolve(th.index, count))
}

func (s *Script) moveTo(th *thread, index int) bool {
	if index < 0 || index >= len(s.def.steps) {
		return false
	}
	th.index = index
	return true
}

// pause 记录恢复点后暂停，由管理器决定何时恢复
func (s *Script) pause() {
	indices := s.ResumeIndices()
	log.Printf("[Script] %s paused at %v", s.id, indices)
	if s.host == nil {
		s.Kill()
		return
	}
	s.host.Pause(s, indices)
}

// finish 所有线程结束
func (s *Script) finish() {
	s.running = false
	s.threads = nil
	if s.host != nil {
		s.host.EndList(s)
	}
}

// Skip 从给定步骤同步快进到结束，然后报告列表结束
// 跳过时忽略等待、重复执行和暂停
//
// 正在运行的列表从各线程当前所在的步骤快进：线程在等待中时，
// 该步骤已经执行过，直接沿用它的结果，不再重复执行。
func (s *Script) Skip(indices []int) {
	if s.destroyed {
		return
	}
	if len(indices) == 0 {
		indices = []int{0}
	}

	pending := make(map[int]Result)
	if s.running {
		for _, th := range s.threads {
			if th.pending != nil {
				pending[th.index] = *th.pending
			}
		}
	}

	s.generation++
	gen := s.generation
	s.threads = nil

	count := len(s.def.steps)
	queue := append([]int(nil), indices...)
	follow := func(i int, res Result) int {
		if len(res.Fork) > 0 {
			for _, c := range res.Fork[1:] {
				queue = append(queue, c.resolve(i, count))
			}
			return res.Fork[0].resolve(i, count)
		}
		return res.Next.resolve(i, count)
	}

	budget := skipBudget
	for len(queue) > 0 && budget > 0 {
		i := queue[0]
		queue = queue[1:]
		if res, ok := pending[i]; ok {
			delete(pending, i)
			i = follow(i, res)
		}
		for i >= 0 && i < count {
			if budget--; budget <= 0 {
				log.Printf("[Script] Warning: %s exceeded skip budget, stopping", s.id)
				break
			}
			ctx := &Context{Script: s, Env: s.env, Index: i}
			res := s.def.steps[i].Skip(ctx)
			if s.generation != gen {
				// 步骤在跳过过程中重启或终止了本列表
				return
			}
			i = follow(i, res)
		}
	}

	s.finish()
}

// Kill 立即停止，不回调 Host
func (s *Script) Kill() {
	s.generation++
	s.threads = nil
	s.running = false
	s.pauseRequested = false
}

// ResumeIndices 返回每个线程当前所在的步骤索引
func (s *Script) ResumeIndices() []int {
	indices := make([]int, 0, len(s.threads))
	for _, th := range s.threads {
		indices = append(indices, th.index)
	}
	return indices
}

// IndexOfStep 返回步骤在列表中的索引，不存在时返回 -1
func (s *Script) IndexOfStep(step any) int {
	for i, st := range s.def.steps {
		if any(st) == step {
			return i
		}
	}
	return -1
}

// ConversationStepAt 返回指定索引处的对话步骤
func (s *Script) ConversationStepAt(index int) (actionlist.ConversationStep, bool) {
	if index < 0 || index >= len(s.def.steps) {
		return nil, false
	}
	cs, ok := s.def.steps[index].(actionlist.ConversationStep)
	return cs, ok
}
