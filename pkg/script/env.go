// Package script 实现按帧推进的动作列表运行时
//
// 职责：
//   - 从 YAML 配置构建步骤（指令、条件、多路分支、并行、对话选项）
//   - Script 实现 actionlist.Sequence：每帧每个线程最多执行一个步骤，等待时间按帧递减
//   - Definition 实现 actionlist.Definition：资源动作列表每次运行生成新的 Script
//
// 架构说明：
//   - 步骤只通过 Env 访问外部系统，Env 的字段都可以为 nil
//   - Script 的生命周期通过 actionlist.Host 报告给管理器
package script

import "github.com/decker502/actionlist/pkg/actionlist"

// Variables 全局变量读写
type Variables interface {
	Variable(name string) int
	SetVariable(name string, value int)
}

// Sounds 音效播放
type Sounds interface {
	PlaySound(name string, loop, music bool) error
	StopNonMusicSounds()
}

// Dialogue 对话选项界面
//
// owner 是发起选项的步骤；redirect 为 true 时玩家的选择通过
// actionlist.Manager.OverrideConversation 交回给挂起的列表。
type Dialogue interface {
	ShowChoices(owner any, options []string, redirect bool)
	Selection(owner any) (int, bool)
	CloseChoices(owner any)
}

// Env 步骤可以使用的外部系统
type Env struct {
	Lists     *actionlist.Manager
	Variables Variables
	Sounds    Sounds
	Players   actionlist.PlayerControl
	Dialogue  Dialogue
	Scenes    actionlist.SceneResolver
	Library   actionlist.DefinitionLibrary
	Runner    *Runner
}
