package game

import (
	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/types"
)

// fakeSequence 最小的 actionlist.Sequence 实现
type fakeSequence struct {
	id       string
	scene    string
	listType types.ListType
	host     actionlist.Host
	running  bool
	indices  []int
	kills    int
}

func newFakeSequence(id, scene string, host actionlist.Host) *fakeSequence {
	return &fakeSequence{id: id, scene: scene, host: host, listType: types.ListTypePauseGameplay}
}

func (f *fakeSequence) ID() string               { return f.id }
func (f *fakeSequence) SceneName() string        { return f.scene }
func (f *fakeSequence) ListType() types.ListType { return f.listType }
func (f *fakeSequence) IsRunning() bool          { return f.running }
func (f *fakeSequence) IsSkippable() bool        { return true }
func (f *fakeSequence) AutosaveAfter() bool      { return false }
func (f *fakeSequence) UnfreezePauseMenus() bool { return false }
func (f *fakeSequence) ResumeIndices() []int     { return append([]int(nil), f.indices...) }
func (f *fakeSequence) IndexOfStep(step any) int { return -1 }
func (f *fakeSequence) Kill()                    { f.running = false; f.kills++ }
func (f *fakeSequence) ConversationStepAt(int) (actionlist.ConversationStep, bool) {
	return nil, false
}

func (f *fakeSequence) Start(indices []int, addToSkipQueue bool) {
	if len(indices) == 0 {
		indices = []int{0}
	}
	f.indices = append([]int(nil), indices...)
	f.running = true
	f.host.AddToList(f, addToSkipQueue, indices[0])
}

func (f *fakeSequence) Skip(indices []int) {
	f.finish()
}

// finish 模拟列表自然结束
func (f *fakeSequence) finish() {
	f.running = false
	f.host.EndList(f)
}

// sceneResolver 按 "场景/ID" 查找实例
type sceneResolver map[string]actionlist.Sequence

func (r sceneResolver) LookupSequence(sceneName, id string) actionlist.Sequence {
	seq, ok := r[sceneName+"/"+id]
	if !ok {
		return nil
	}
	return seq
}

// fakeSoundPlayer 记录调用的播放器
type fakeSoundPlayer struct {
	playing bool
	volume  float64
	rewinds int
}

func (p *fakeSoundPlayer) Play()               { p.playing = true }
func (p *fakeSoundPlayer) Pause()              { p.playing = false }
func (p *fakeSoundPlayer) IsPlaying() bool     { return p.playing }
func (p *fakeSoundPlayer) SetVolume(v float64) { p.volume = v }
func (p *fakeSoundPlayer) Rewind() error       { p.rewinds++; return nil }

// fakeLoader 为每个名称创建新的 fakeSoundPlayer，并记录加载次数
type fakeLoader struct {
	players map[string][]*fakeSoundPlayer
	loads   int
	err     error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{players: make(map[string][]*fakeSoundPlayer)}
}

func (l *fakeLoader) load(name string, loop bool) (soundPlayer, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.loads++
	p := &fakeSoundPlayer{}
	l.players[name] = append(l.players[name], p)
	return p, nil
}

// last 返回名称对应的最近一个播放器
func (l *fakeLoader) last(name string) *fakeSoundPlayer {
	ps := l.players[name]
	if len(ps) == 0 {
		return nil
	}
	return ps[len(ps)-1]
}
