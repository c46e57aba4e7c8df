package script

import (
	"testing"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/config"
)

type fakeVariables map[string]int

func (v fakeVariables) Variable(name string) int         { return v[name] }
func (v fakeVariables) SetVariable(name string, val int) { v[name] = val }

type fakeSounds struct {
	played  []string
	stopped int
}

func (s *fakeSounds) PlaySound(name string, loop, music bool) error {
	s.played = append(s.played, name)
	return nil
}

func (s *fakeSounds) StopNonMusicSounds() { s.stopped++ }

// fakeDialogue 记录显示的选项，selection >= 0 时下一次查询返回该选项
type fakeDialogue struct {
	shown     [][]string
	redirects []bool
	closed    int
	selection int
}

func (d *fakeDialogue) ShowChoices(owner any, options []string, redirect bool) {
	d.shown = append(d.shown, options)
	d.redirects = append(d.redirects, redirect)
}

func (d *fakeDialogue) Selection(owner any) (int, bool) {
	if d.selection < 0 {
		return 0, false
	}
	return d.selection, true
}

func (d *fakeDialogue) CloseChoices(owner any) { d.closed++ }

type fakePlayers struct{ active int }

func (p *fakePlayers) ActivePlayerID() int    { return p.active }
func (p *fakePlayers) SetActivePlayer(id int) { p.active = id }

type fakeMenus struct{ choice bool }

func (m *fakeMenus) IsPauseMenuOpen() bool        { return false }
func (m *fakeMenus) IsDialogueChoiceActive() bool { return m.choice }

// fakeHost 记录生命周期回调
type fakeHost struct {
	added  []int
	ended  int
	paused [][]int
}

func (h *fakeHost) AddToList(seq actionlist.Sequence, addToSkipQueue bool, startIndex int) {
	h.added = append(h.added, startIndex)
}

func (h *fakeHost) EndList(seq actionlist.Sequence) { h.ended++ }

func (h *fakeHost) Pause(seq actionlist.Sequence, indices []int) {
	h.paused = append(h.paused, indices)
	seq.Kill()
}

// sceneResolver 按 "场景/ID" 查找脚本
type sceneResolver map[string]*Script

func (r sceneResolver) LookupSequence(sceneName, id string) actionlist.Sequence {
	s, ok := r[sceneName+"/"+id]
	if !ok {
		return nil
	}
	return s
}

// testEnv 组合真实的管理器与假外部系统
type testEnv struct {
	env      *Env
	manager  *actionlist.Manager
	vars     fakeVariables
	sounds   *fakeSounds
	dialogue *fakeDialogue
	players  *fakePlayers
	scenes   sceneResolver
	library  *Library
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		vars:     fakeVariables{},
		sounds:   &fakeSounds{},
		dialogue: &fakeDialogue{selection: -1},
		players:  &fakePlayers{active: 0},
		scenes:   sceneResolver{},
		library:  NewLibrary(),
	}
	te.manager = actionlist.NewManager(actionlist.Environment{
		Menus:   &fakeMenus{},
		Players: te.players,
		Sounds:  te.sounds,
	})
	te.manager.Scene.SetResolver(te.scenes)
	te.manager.Assets.SetLibrary(te.library)
	te.env = &Env{
		Lists:     te.manager,
		Variables: te.vars,
		Sounds:    te.sounds,
		Players:   te.players,
		Dialogue:  te.dialogue,
		Scenes:    te.scenes,
		Library:   te.library,
		Runner:    NewRunner(),
	}
	return te
}

// build 解析 YAML 并构建定义
func (te *testEnv) build(t *testing.T, yamlText string) *Definition {
	t.Helper()
	cfg, err := config.ParseSequenceConfig([]byte(yamlText))
	if err != nil {
		t.Fatalf("ParseSequenceConfig failed: %v", err)
	}
	def, err := BuildDefinition(cfg, NewRegistry(), te.env)
	if err != nil {
		t.Fatalf("BuildDefinition failed: %v", err)
	}
	return def
}

// sceneScript 构建场景列表并注册到解析器
func (te *testEnv) sceneScript(t *testing.T, scene, yamlText string) *Script {
	t.Helper()
	def := te.build(t, yamlText)
	s := def.NewSceneScript(def.Name(), scene, te.manager.Scene)
	te.scenes[scene+"/"+def.Name()] = s
	return s
}

// tickN 推进 n 帧
func (te *testEnv) tickN(n int, dt float64) {
	for i := 0; i < n; i++ {
		te.env.Runner.Tick(dt)
		te.manager.Update()
	}
}
