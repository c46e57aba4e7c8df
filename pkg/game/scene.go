package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 由 SceneManager 驱动的场景
type Scene interface {
	// Update 推进场景逻辑，deltaTime 单位为秒（已按时间缩放）
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
}

// NamedScene 拥有场景列表的场景
// 被替换时 SceneManager 按名称终止该场景的全部场景列表并清除变量监听
type NamedScene interface {
	SceneName() string
}

// Unloadable 场景被替换前调用 Unload 释放列表实例等资源
type Unloadable interface {
	Unload()
}

// Saveable 窗口关闭时调用 SaveOnExit
// 返回 false 表示保存失败，程序仍然退出
type Saveable interface {
	SaveOnExit() bool
}
