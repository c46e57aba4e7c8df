// Package actionlist 跟踪所有正在运行、暂停中的动作列表，并据此推导全局交互模式
//
// 职责：
//   - 维护场景动作列表与资源动作列表两个记录集合（SceneLists / AssetLists）
//   - 在注册、结束、暂停、恢复时重新计算全局模式（Free / Cutscene / Paused / DialogueChoice）
//   - 实现"跳过过场"、对话重定向、存档序列化等跨列表操作
//
// 架构说明：
//   - 单线程、按帧驱动：所有方法都在主循环中同步调用，不会阻塞
//   - 具体的步骤指令（移动角色、播放动画等）不在本包范围内，由 Sequence 实现方负责
//   - 本包不持有全局变量，模式由 Manager 持有并通过回调通知外部
package actionlist

import "github.com/decker502/actionlist/pkg/types"

// Sequence 是一个正在运行（或可以运行）的动作列表实例
//
// 场景中的列表由场景持有；资源定义的列表由 Definition.Spawn 生成。
// 实现方在开始运行时调用 Host.AddToList，运行结束时调用 Host.EndList。
type Sequence interface {
	// ID 返回实例标识（场景内唯一，资源实例为运行时生成的ID）
	ID() string
	// SceneName 返回实例所属场景名称
	SceneName() string
	// ListType 返回列表类型（是否阻塞玩家操作）
	ListType() types.ListType

	IsRunning() bool
	IsSkippable() bool
	// AutosaveAfter 列表结束后是否触发自动存档
	AutosaveAfter() bool
	// UnfreezePauseMenus 运行期间是否允许暂停菜单保持可交互
	UnfreezePauseMenus() bool

	// Start 从给定步骤索引开始运行（空切片表示从头开始），可同时进入多个并行分支
	Start(indices []int, addToSkipQueue bool)
	// Skip 同步快进到结束状态
	Skip(indices []int)
	// Kill 立即停止，不回调 Host
	Kill()
	// ResumeIndices 返回当前正在执行的步骤索引
	ResumeIndices() []int

	// IndexOfStep 返回步骤在列表中的索引，不存在时返回 -1
	IndexOfStep(step any) int
	// ConversationStepAt 返回指定索引处的对话步骤
	ConversationStepAt(index int) (ConversationStep, bool)
}

// Definition 是可共享的资源动作列表定义
type Definition interface {
	Name() string
	// Spawn 生成一个新的运行时实例（尚未开始运行）
	Spawn(host Host) Sequence
	// AllowsMultipleInstances 为 true 时，多个实例可以同时运行，注册时按实例去重而非按定义去重
	AllowsMultipleInstances() bool
}

// ConversationStep 是对话选项步骤
type ConversationStep interface {
	// OpenChoices 打开该步骤的对话选项，等待玩家选择
	OpenChoices()
	// SetOverrideOption 设置重新进入该步骤时直接使用的选项
	SetOverrideOption(optionIndex int)
}

// Host 是 Sequence 向管理器报告生命周期的入口
type Host interface {
	AddToList(seq Sequence, addToSkipQueue bool, startIndex int)
	EndList(seq Sequence)
	Pause(seq Sequence, indices []int)
}

// destroyable 是可选接口，实例被销毁后应返回 true
type destroyable interface {
	IsDestroyed() bool
}

// SceneResolver 根据存档中的场景名和ID找回场景中的实例
type SceneResolver interface {
	LookupSequence(sceneName, id string) Sequence
}

// DefinitionLibrary 根据存档中的名称找回资源定义
type DefinitionLibrary interface {
	LookupDefinition(name string) Definition
}

// MenuState 提供菜单与对话状态查询
type MenuState interface {
	IsPauseMenuOpen() bool
	IsDialogueChoiceActive() bool
}

// Autosaver 触发自动存档
type Autosaver interface {
	Autosave() error
}

// VariableStore 在过场开始/结束时备份变量
type VariableStore interface {
	BackupVariables()
}

// PlayerControl 读取和切换当前控制的角色
type PlayerControl interface {
	ActivePlayerID() int
	SetActivePlayer(id int)
}

// SoundStopper 停止所有非循环、非音乐的声音
type SoundStopper interface {
	StopNonMusicSounds()
}

// ScreenFader 强制黑屏若干帧
type ScreenFader interface {
	ForceBlackout()
}

// TimeScaler 设置游戏时间缩放（0 表示冻结）
type TimeScaler interface {
	SetTimeScale(scale float64)
}

// SkipSettings 跳过过场相关设置
type SkipSettings interface {
	BlackOutWhenSkipping() bool
}

// Environment 管理器依赖的外部系统集合
// 所有字段都可以为 nil（降级模式），对应的功能会被跳过
type Environment struct {
	Menus     MenuState
	Saver     Autosaver
	Variables VariableStore
	Players   PlayerControl
	Sounds    SoundStopper
	Screen    ScreenFader
	Clock     TimeScaler
	Settings  SkipSettings
}
