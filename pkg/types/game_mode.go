// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// GameMode 定义全局交互模式
// 由动作列表管理器根据运行中的列表、暂停菜单和对话选项推导得出
type GameMode int

const (
	// GameModeFree 自由操作（没有阻塞的过场）
	GameModeFree GameMode = iota
	// GameModeCutscene 过场动画（阻塞玩家操作）
	GameModeCutscene
	// GameModePaused 暂停菜单打开，游戏时间冻结
	GameModePaused
	// GameModeDialogueChoice 对话选项等待玩家选择
	GameModeDialogueChoice
)

// String 返回模式的字符串表示
func (m GameMode) String() string {
	switch m {
	case GameModeFree:
		return "Free"
	case GameModeCutscene:
		return "Cutscene"
	case GameModePaused:
		return "Paused"
	case GameModeDialogueChoice:
		return "DialogueChoice"
	default:
		return "Unknown"
	}
}

// NoPlayer 表示当前没有可控制的角色
const NoPlayer = -1
