package actionlist

import (
	"fmt"
	"testing"

	"github.com/decker502/actionlist/pkg/types"
)

// fakeConversationStep 记录对话步骤收到的调用
type fakeConversationStep struct {
	opened   int
	override int
}

func newFakeConversationStep() *fakeConversationStep {
	return &fakeConversationStep{override: NoOverrideOption}
}

func (c *fakeConversationStep) OpenChoices()                { c.opened++ }
func (c *fakeConversationStep) SetOverrideOption(index int) { c.override = index }

// fakeSequence 是只记录调用的 Sequence 实现
// Start 会向 host 注册，Skip 和 finish 会向 host 报告结束，Kill 不回调
type fakeSequence struct {
	id        string
	scene     string
	listType  types.ListType
	skippable bool
	autosave  bool
	unfreeze  bool

	host      Host
	running   bool
	destroyed bool
	current   []int
	steps     []any

	startCalls [][]int
	skipCalls  [][]int
	kills      int
}

func newFakeSequence(id, scene string, listType types.ListType, host Host) *fakeSequence {
	return &fakeSequence{
		id:        id,
		scene:     scene,
		listType:  listType,
		skippable: true,
		host:      host,
		steps:     []any{"step0", "step1", "step2", "step3", "step4"},
	}
}

func (s *fakeSequence) ID() string               { return s.id }
func (s *fakeSequence) SceneName() string        { return s.scene }
func (s *fakeSequence) ListType() types.ListType { return s.listType }
func (s *fakeSequence) IsRunning() bool          { return s.running }
func (s *fakeSequence) IsSkippable() bool        { return s.skippable }
func (s *fakeSequence) AutosaveAfter() bool      { return s.autosave }
func (s *fakeSequence) UnfreezePauseMenus() bool { return s.unfreeze }
func (s *fakeSequence) IsDestroyed() bool        { return s.destroyed }

func (s *fakeSequence) Start(indices []int, addToSkipQueue bool) {
	s.startCalls = append(s.startCalls, append([]int(nil), indices...))
	s.running = true
	s.current = append([]int(nil), indices...)
	start := 0
	if len(indices) > 0 {
		start = indices[0]
	}
	if len(s.current) == 0 {
		s.current = []int{0}
	}
	if s.host != nil {
		s.host.AddToList(s, addToSkipQueue, start)
	}
}

func (s *fakeSequence) Skip(indices []int) {
	s.skipCalls = append(s.skipCalls, append([]int(nil), indices...))
	s.running = false
	if s.host != nil {
		s.host.EndList(s)
	}
}

func (s *fakeSequence) Kill() {
	s.kills++
	s.running = false
}

func (s *fakeSequence) ResumeIndices() []int {
	return append([]int(nil), s.current...)
}

func (s *fakeSequence) IndexOfStep(step any) int {
	for i, st := range s.steps {
		if st == step {
			return i
		}
	}
	return -1
}

func (s *fakeSequence) ConversationStepAt(index int) (ConversationStep, bool) {
	if index < 0 || index >= len(s.steps) {
		return nil, false
	}
	step, ok := s.steps[index].(ConversationStep)
	return step, ok
}

// advance 模拟运行到指定步骤
func (s *fakeSequence) advance(indices ...int) {
	s.current = indices
}

// finish 模拟自然结束
func (s *fakeSequence) finish() {
	s.running = false
	if s.host != nil {
		s.host.EndList(s)
	}
}

// fakeDefinition 资源定义，Spawn 生成的实例全部保留以便断言
type fakeDefinition struct {
	name      string
	multi     bool
	listType  types.ListType
	skippable bool
	autosave  bool
	spawned   []*fakeSequence
}

func (d *fakeDefinition) Name() string                  { return d.name }
func (d *fakeDefinition) AllowsMultipleInstances() bool { return d.multi }

func (d *fakeDefinition) Spawn(host Host) Sequence {
	seq := newFakeSequence(fmt.Sprintf("%s#%d", d.name, len(d.spawned)+1), "", d.listType, host)
	seq.skippable = d.skippable
	seq.autosave = d.autosave
	d.spawned = append(d.spawned, seq)
	return seq
}

func (d *fakeDefinition) last() *fakeSequence {
	if len(d.spawned) == 0 {
		return nil
	}
	return d.spawned[len(d.spawned)-1]
}

// fakeResolver 按 场景/ID 找回场景实例
type fakeResolver map[string]Sequence

func (r fakeResolver) add(seq Sequence) {
	r[seq.SceneName()+"/"+seq.ID()] = seq
}

func (r fakeResolver) LookupSequence(sceneName, id string) Sequence {
	return r[sceneName+"/"+id]
}

// fakeLibrary 按名称找回资源定义
type fakeLibrary map[string]Definition

func (l fakeLibrary) LookupDefinition(name string) Definition {
	return l[name]
}

type fakeMenus struct {
	pauseOpen bool
	dialogue  bool
}

func (f *fakeMenus) IsPauseMenuOpen() bool        { return f.pauseOpen }
func (f *fakeMenus) IsDialogueChoiceActive() bool { return f.dialogue }

type fakeSaver struct {
	count int
	err   error
}

func (f *fakeSaver) Autosave() error {
	f.count++
	return f.err
}

type fakeVariables struct{ backups int }

func (f *fakeVariables) BackupVariables() { f.backups++ }

type fakePlayers struct {
	active int
	sets   []int
}

func (f *fakePlayers) ActivePlayerID() int { return f.active }
func (f *fakePlayers) SetActivePlayer(id int) {
	f.sets = append(f.sets, id)
	f.active = id
}

type fakeSounds struct{ stops int }

func (f *fakeSounds) StopNonMusicSounds() { f.stops++ }

type fakeScreen struct{ blackouts int }

func (f *fakeScreen) ForceBlackout() { f.blackouts++ }

type fakeClock struct{ scales []float64 }

func (f *fakeClock) SetTimeScale(scale float64) { f.scales = append(f.scales, scale) }

type fakeSettings struct{ blackout bool }

func (f *fakeSettings) BlackOutWhenSkipping() bool { return f.blackout }

// testEnv 持有一组完整的外部系统假实现
type testEnv struct {
	menus    *fakeMenus
	saver    *fakeSaver
	vars     *fakeVariables
	players  *fakePlayers
	sounds   *fakeSounds
	screen   *fakeScreen
	clock    *fakeClock
	settings *fakeSettings
}

func (e *testEnv) environment() Environment {
	return Environment{
		Menus:     e.menus,
		Saver:     e.saver,
		Variables: e.vars,
		Players:   e.players,
		Sounds:    e.sounds,
		Screen:    e.screen,
		Clock:     e.clock,
		Settings:  e.settings,
	}
}

func newTestManager(t *testing.T) (*Manager, *testEnv) {
	t.Helper()
	env := &testEnv{
		menus:    &fakeMenus{},
		saver:    &fakeSaver{},
		vars:     &fakeVariables{},
		players:  &fakePlayers{active: types.NoPlayer},
		sounds:   &fakeSounds{},
		screen:   &fakeScreen{},
		clock:    &fakeClock{},
		settings: &fakeSettings{},
	}
	return NewManager(env.environment()), env
}

// expectMode 断言当前模式
func expectMode(t *testing.T, m *Manager, want types.GameMode) {
	t.Helper()
	if got := m.Mode(); got != want {
		t.Errorf("Expected mode %v, got %v", want, got)
	}
}
