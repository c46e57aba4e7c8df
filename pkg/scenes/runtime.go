package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/decker502/actionlist/pkg/game"
	"github.com/decker502/actionlist/pkg/script"
)

// ScenePathFormat 场景配置文件路径，%s 为场景名称
const ScenePathFormat = "data/scenes/%s.yaml"

// Runtime 连接脚本运行时与全局状态
//
// 职责：
//   - 持有指令注册表、脚本调度器和资源动作列表定义库
//   - 组装步骤使用的 script.Env
//   - 作为 actionlist.SceneResolver，读档时在当前场景中查找列表实例
type Runtime struct {
	State    *game.GameState
	Registry *script.Registry
	Runner   *script.Runner
	Library  *script.Library
	Env      *script.Env

	current *ScriptedScene
}

// NewRuntime 创建运行时并把定义库、场景解析器接入动作列表管理器
func NewRuntime(gs *game.GameState) *Runtime {
	rt := &Runtime{
		State:    gs,
		Registry: script.NewRegistry(),
		Runner:   script.NewRunner(),
		Library:  script.NewLibrary(),
	}
	rt.Env = &script.Env{
		Lists:     gs.Lists(),
		Variables: gs,
		Players:   gs,
		Dialogue:  gs,
		Scenes:    rt,
		Library:   rt.Library,
		Runner:    rt.Runner,
	}
	rt.AttachAudio()

	gs.Lists().Scene.SetResolver(rt)
	gs.Lists().Assets.SetLibrary(rt.Library)
	return rt
}

// AttachAudio 音频管理器初始化之后调用，让 playSound 等步骤可以发声
func (rt *Runtime) AttachAudio() {
	if am := rt.State.GetAudioManager(); am != nil {
		rt.Env.Sounds = am
	}
}

// LookupSequence 实现 actionlist.SceneResolver
func (rt *Runtime) LookupSequence(sceneName, id string) actionlist.Sequence {
	if rt.current == nil || rt.current.SceneName() != sceneName {
		return nil
	}
	s, ok := rt.current.scripts[id]
	if !ok {
		return nil
	}
	return s
}

// CurrentScene 返回当前加载的脚本场景（可能为 nil）
func (rt *Runtime) CurrentScene() *ScriptedScene {
	return rt.current
}

// Factory 返回从嵌入资源加载场景的工厂函数
func (rt *Runtime) Factory() game.SceneFactory {
	return func(name string, restoring bool) (game.Scene, error) {
		path := fmt.Sprintf(ScenePathFormat, name)
		if !embedded.Exists(path) {
			return nil, fmt.Errorf("unknown scene %q", name)
		}
		scene, err := rt.LoadScene(path, restoring)
		if err != nil {
			return nil, err
		}
		return scene, nil
	}
}

// LoadScene 从嵌入资源加载场景配置并创建场景
func (rt *Runtime) LoadScene(path string, restoring bool) (*ScriptedScene, error) {
	cfg, err := config.LoadSceneConfig(path)
	if err != nil {
		return nil, err
	}
	log.Printf("[Runtime] Loaded scene config %s (%d lists)", path, len(cfg.Sequences))
	return NewScriptedScene(rt, cfg, restoring)
}

// Update 推进所有脚本一帧，并处理管理器的延迟条件
// dt 已经按 GameState.TimeScale 缩放
func (rt *Runtime) Update(dt float64) {
	rt.Runner.Tick(dt)
	rt.State.Lists().Update()
}
