package scenes

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/script"
	"github.com/decker502/actionlist/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hotspot 按键触发的场景列表
type hotspot struct {
	key  ebiten.Key
	name string
	list string
}

// ScriptedScene 由 YAML 配置驱动的场景
//
// 职责：
//   - 为配置中的每个动作列表创建场景实例（ID 为列表名称）
//   - 进入场景时运行 onStart 列表，读档创建时跳过
//   - 变量满足触发条件时，把列表交给管理器排队运行
//   - 自由操作模式下响应热键
type ScriptedScene struct {
	rt       *Runtime
	cfg      *config.SceneConfig
	scripts  map[string]*script.Script
	hotspots []hotspot
}

// NewScriptedScene 根据配置创建场景
//
// 参数：
//   - rt: 运行时
//   - cfg: 已通过验证的场景配置
//   - restoring: 为 true 时由读档创建，不运行 onStart，也不切换角色
//
// 返回：
//   - *ScriptedScene: 新场景，已成为 rt 的当前场景
//   - error: 资源列表文件或动作列表无法构建
func NewScriptedScene(rt *Runtime, cfg *config.SceneConfig, restoring bool) (*ScriptedScene, error) {
	if len(cfg.AssetFiles) > 0 {
		if err := rt.Library.LoadFiles(cfg.AssetFiles, rt.Registry, rt.Env); err != nil {
			return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
		}
	}

	s := &ScriptedScene{
		rt:      rt,
		cfg:     cfg,
		scripts: make(map[string]*script.Script, len(cfg.Sequences)),
	}

	host := rt.State.Lists().Scene
	for i := range cfg.Sequences {
		seqCfg := &cfg.Sequences[i]
		def, err := script.BuildDefinition(seqCfg, rt.Registry, rt.Env)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", cfg.Name, err)
		}
		s.scripts[seqCfg.Name] = def.NewSceneScript(seqCfg.Name, cfg.Name, host)
	}

	if err := s.parseHotspots(); err != nil {
		return nil, err
	}

	if rt.current != nil && rt.current != s {
		rt.current.Unload()
	}
	rt.current = s

	gs := rt.State
	for name, value := range cfg.Variables {
		gs.InitVariable(name, value)
	}
	gs.OnVariableChanged(s.onVariableChanged)

	if !restoring {
		if cfg.Player != types.NoPlayer {
			gs.SetActivePlayer(cfg.Player)
		}
		for _, start := range cfg.OnStart {
			log.Printf("[ScriptedScene] %s: running onStart list %s", cfg.Name, start.List)
			s.scripts[start.List].Start(nil, start.SkipQueue)
		}
	}

	log.Printf("[ScriptedScene] Scene %s ready (%d lists, restoring=%v)", cfg.Name, len(s.scripts), restoring)
	return s, nil
}

// parseHotspots 把配置中的按键名称解析为 ebiten.Key
func (s *ScriptedScene) parseHotspots() error {
	names := make([]string, 0, len(s.cfg.Hotspots))
	for name := range s.cfg.Hotspots {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(name)); err != nil {
			return fmt.Errorf("scene %s: invalid hotspot key %q: %w", s.cfg.Name, name, err)
		}
		s.hotspots = append(s.hotspots, hotspot{key: key, name: name, list: s.cfg.Hotspots[name]})
	}
	return nil
}

// onVariableChanged 变量变化时检查触发条件
func (s *ScriptedScene) onVariableChanged(name string, old, new int) {
	for _, trigger := range s.cfg.Triggers {
		if trigger.Variable != name || trigger.Value != new {
			continue
		}
		seq, ok := s.scripts[trigger.List]
		if !ok {
			continue
		}
		log.Printf("[ScriptedScene] %s: %s=%d queues list %s", s.cfg.Name, name, new, trigger.List)
		s.rt.State.Lists().QueueVariableTrigger(seq)
	}
}

// SceneName 实现 game.NamedScene
func (s *ScriptedScene) SceneName() string {
	return s.cfg.Name
}

// Title 返回显示名称
func (s *ScriptedScene) Title() string {
	return s.cfg.Title
}

// Script 按名称返回场景中的列表实例
func (s *ScriptedScene) Script(name string) (*script.Script, bool) {
	seq, ok := s.scripts[name]
	return seq, ok
}

// Activate 运行热键对应的列表，只在自由操作模式下有效
//
// 返回：
//   - bool: 列表是否开始运行
func (s *ScriptedScene) Activate(key string) bool {
	list, ok := s.cfg.Hotspots[key]
	if !ok {
		return false
	}
	if s.rt.State.Lists().Mode() != types.GameModeFree {
		return false
	}
	seq := s.scripts[list]
	if seq.IsRunning() {
		return false
	}
	log.Printf("[ScriptedScene] %s: hotspot %s runs list %s", s.cfg.Name, key, list)
	seq.Start(nil, false)
	return true
}

// Update 处理热键输入
func (s *ScriptedScene) Update(deltaTime float64) {
	for _, h := range s.hotspots {
		if inpututil.IsKeyJustPressed(h.key) {
			s.Activate(h.name)
		}
	}
}

// Draw 绘制场景状态（调试风格的文字界面）
func (s *ScriptedScene) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.statusText(), 8, 8)
}

// statusText 生成当前场景的状态文字
func (s *ScriptedScene) statusText() string {
	gs := s.rt.State
	var b strings.Builder

	fmt.Fprintf(&b, "%s  [%v]  player=%d\n", s.cfg.Title, gs.Lists().Mode(), gs.ActivePlayerID())

	b.WriteString("\nVariables:\n")
	for _, name := range gs.VariableNames() {
		fmt.Fprintf(&b, "  %s = %d\n", name, gs.Variable(name))
	}

	b.WriteString("\nLists:\n")
	for _, rec := range gs.Lists().Scene.Records() {
		state := "ended"
		switch {
		case rec.IsRunning():
			state = "running"
		case rec.IsPaused():
			state = fmt.Sprintf("paused at %v", rec.ResumeIndices())
		case rec.HasConversationOverride():
			state = "waiting for choice"
		}
		id := ""
		if rec.Subject() != nil {
			id = rec.Subject().ID()
		}
		fmt.Fprintf(&b, "  %s: %s\n", id, state)
	}

	if len(s.hotspots) > 0 {
		b.WriteString("\nHotspots:\n")
		for _, h := range s.hotspots {
			fmt.Fprintf(&b, "  [%s] %s\n", h.name, h.list)
		}
	}
	return b.String()
}

// SaveOnExit 实现 game.Saveable：窗口关闭时写入自动存档
func (s *ScriptedScene) SaveOnExit() bool {
	if err := s.rt.State.Autosave(); err != nil {
		log.Printf("[ScriptedScene] Warning: failed to save on exit: %v", err)
		return false
	}
	return true
}

// Unload 实现 game.Unloadable：销毁场景中的所有列表实例
func (s *ScriptedScene) Unload() {
	for _, seq := range s.scripts {
		seq.Destroy()
	}
	if s.rt.current == s {
		s.rt.current = nil
	}
}
