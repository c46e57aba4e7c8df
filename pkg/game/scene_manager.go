package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定名称的场景，避免循环依赖
//
// 参数：
//   - name: 场景名称
//   - restoring: 为 true 时场景由读档创建，不运行 onStart 列表
type SceneFactory func(name string, restoring bool) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
//
// 切换场景时，旧场景的场景列表以隔离方式终止，变量监听随之清除。
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
	state        *GameState   // 可为 nil（测试或无动作列表的场景）
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or LoadScene to set the initial scene.
func NewSceneManager(state *GameState) *SceneManager {
	return &SceneManager{state: state}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// 旧场景先被卸载。
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		sm.unload(sm.currentScene)
	}
	sm.currentScene = scene
	if named, ok := scene.(NamedScene); ok && sm.state != nil {
		sm.state.SceneName = named.SceneName()
	}
}

// unload 终止旧场景拥有的列表并释放场景资源
func (sm *SceneManager) unload(scene Scene) {
	if named, ok := scene.(NamedScene); ok && sm.state != nil {
		sm.state.Lists().Scene.KillAllFromScene(named.SceneName())
		sm.state.ClearVariableListeners()
		log.Printf("[SceneManager] Unloaded scene: %s", named.SceneName())
	}
	if u, ok := scene.(Unloadable); ok {
		u.Unload()
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadScene 加载指定名称的场景并运行它的 onStart 列表
func (sm *SceneManager) LoadScene(name string) error {
	return sm.load(name, false)
}

// RestoreScene 为读档加载场景，不运行 onStart 列表
// 签名与 GameState.Restore 的 loadScene 参数一致
func (sm *SceneManager) RestoreScene(name string) error {
	return sm.load(name, true)
}

func (sm *SceneManager) load(name string, restoring bool) error {
	log.Printf("[SceneManager] 加载场景: %s (restoring=%v)", name, restoring)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	// 先卸载旧场景，新场景初始化时才能注册自己的变量监听
	if sm.currentScene != nil {
		sm.unload(sm.currentScene)
		sm.currentScene = nil
	}

	newScene, err := sm.sceneFactory(name, restoring)
	if err != nil {
		return fmt.Errorf("failed to create scene %s: %w", name, err)
	}
	if newScene == nil {
		return fmt.Errorf("factory returned no scene for %s", name)
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到场景: %s", name)
	return nil
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
