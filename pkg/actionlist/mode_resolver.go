package actionlist

import (
	"log"

	"github.com/decker502/actionlist/pkg/types"
)

// ModeInputs 推导全局模式所需的全部输入
type ModeInputs struct {
	Blocking       bool // 两个集合中是否有阻塞玩家操作的列表正在运行
	PauseMenuOpen  bool
	DialogueChoice bool
}

// DeriveMode 根据输入推导全局模式，是纯函数
//
// 优先级：过场 > 暂停菜单 > 对话选项 > 自由操作
func DeriveMode(in ModeInputs) types.GameMode {
	switch {
	case in.Blocking:
		return types.GameModeCutscene
	case in.PauseMenuOpen:
		return types.GameModePaused
	case in.DialogueChoice:
		return types.GameModeDialogueChoice
	default:
		return types.GameModeFree
	}
}

// ModeListener 模式变化回调
type ModeListener func(old, new types.GameMode)

// ModeResolver 持有当前全局模式，模式变化时通知监听者
type ModeResolver struct {
	current   types.GameMode
	listeners []ModeListener
}

// NewModeResolver 创建模式解析器，初始模式为 Free
func NewModeResolver() *ModeResolver {
	return &ModeResolver{current: types.GameModeFree}
}

// Mode 返回当前模式
func (r *ModeResolver) Mode() types.GameMode {
	return r.current
}

// OnModeChanged 注册模式变化回调
func (r *ModeResolver) OnModeChanged(fn ModeListener) {
	if fn != nil {
		r.listeners = append(r.listeners, fn)
	}
}

// set 设置新模式，变化时通知监听者
func (r *ModeResolver) set(mode types.GameMode) {
	if mode == r.current {
		return
	}
	old := r.current
	r.current = mode
	log.Printf("[ModeResolver] Mode: %v → %v", old, mode)
	for _, fn := range r.listeners {
		fn(old, mode)
	}
}
