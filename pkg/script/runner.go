package script

// Runner 每帧推进所有正在运行的 Script
// 帧内新开始的列表从下一帧开始推进
type Runner struct {
	scripts []*Script
}

// NewRunner 创建运行器
func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) add(s *Script) {
	for _, existing := range r.scripts {
		if existing == s {
			return
		}
	}
	r.scripts = append(r.scripts, s)
}

// Tick 推进一帧，然后移除已停止的列表
func (r *Runner) Tick(dt float64) {
	snapshot := append([]*Script(nil), r.scripts...)
	for _, s := range snapshot {
		s.Tick(dt)
	}

	kept := r.scripts[:0]
	for _, s := range r.scripts {
		if s.IsRunning() {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(r.scripts); i++ {
		r.scripts[i] = nil
	}
	r.scripts = kept
}

// Len 返回正在跟踪的列表数量
func (r *Runner) Len() int {
	return len(r.scripts)
}
