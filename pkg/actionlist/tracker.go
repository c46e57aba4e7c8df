package actionlist

import (
	"log"

	"github.com/decker502/actionlist/pkg/types"
)

// lifetimePolicy 决定一个记录集合如何去重、如何在读档时找回实例
type lifetimePolicy interface {
	// name 用于日志
	name() string
	// evicts 注册 seq/def 时，rec 是否应被移除
	evicts(rec *ActiveList, seq Sequence, def Definition) bool
	// bind 根据存档数据找回实例或定义
	bind(data RecordData) (Sequence, Definition, bool)
}

// scenePolicy 场景列表：按实例去重，读档时从当前场景中查找实例
type scenePolicy struct {
	resolver SceneResolver
}

func (p *scenePolicy) name() string { return "SceneLists" }

func (p *scenePolicy) evicts(rec *ActiveList, seq Sequence, _ Definition) bool {
	return rec.IsFor(seq)
}

func (p *scenePolicy) bind(data RecordData) (Sequence, Definition, bool) {
	if p.resolver == nil || data.ID == "" {
		return nil, nil, false
	}
	seq := p.resolver.LookupSequence(data.Scene, data.ID)
	if seq == nil {
		return nil, nil, false
	}
	return seq, nil, true
}

// assetPolicy 资源列表：按定义去重（允许多实例的定义按实例去重），读档时只找回定义
type assetPolicy struct {
	library DefinitionLibrary
}

func (p *assetPolicy) name() string { return "AssetLists" }

func (p *assetPolicy) evicts(rec *ActiveList, seq Sequence, def Definition) bool {
	if def != nil && !def.AllowsMultipleInstances() {
		return rec.IsFor(def)
	}
	return rec.IsFor(seq)
}

func (p *assetPolicy) bind(data RecordData) (Sequence, Definition, bool) {
	if p.library == nil || data.Definition == "" {
		return nil, nil, false
	}
	def := p.library.LookupDefinition(data.Definition)
	if def == nil {
		return nil, nil, false
	}
	return nil, def, true
}

// tracker 是按插入顺序排列的 ActiveList 集合
// 场景列表与资源列表共用这一实现，只有 lifetimePolicy 不同
type tracker struct {
	policy  lifetimePolicy
	records []*ActiveList
	manager *Manager
	hostFor func(def Definition) Host
}

func newTracker(m *Manager, policy lifetimePolicy) *tracker {
	return &tracker{
		policy:  policy,
		records: make([]*ActiveList, 0),
		manager: m,
	}
}

// snapshot 返回记录切片的副本，遍历期间可以安全地增删记录
func (t *tracker) snapshot() []*ActiveList {
	return append([]*ActiveList(nil), t.records...)
}

// Len 返回记录数量
func (t *tracker) Len() int {
	return len(t.records)
}

// Records 返回所有记录（副本）
func (t *tracker) Records() []*ActiveList {
	return t.snapshot()
}

// find 查找实例对应的记录
func (t *tracker) find(seq Sequence) *ActiveList {
	if seq == nil {
		return nil
	}
	for _, rec := range t.records {
		if rec.IsFor(seq) {
			return rec
		}
	}
	return nil
}

// findDefinition 查找定义对应的第一条记录
func (t *tracker) findDefinition(def Definition) *ActiveList {
	if def == nil {
		return nil
	}
	for _, rec := range t.records {
		if rec.IsFor(def) {
			return rec
		}
	}
	return nil
}

// remove 从集合中移除记录
func (t *tracker) remove(rec *ActiveList) {
	for i, r := range t.records {
		if r == rec {
			t.records = append(t.records[:i], t.records[i+1:]...)
			return
		}
	}
}

// evict 移除与 seq/def 冲突的旧记录
// 旧记录对应的是另一个仍在运行的实例时，以隔离方式终止它
func (t *tracker) evict(seq Sequence, def Definition) {
	kept := t.records[:0]
	for _, rec := range t.records {
		if !t.policy.evicts(rec, seq, def) {
			kept = append(kept, rec)
			continue
		}
		if rec.subject != nil && rec.subject != seq {
			rec.Cancel()
		}
	}
	for i := len(kept); i < len(t.records); i++ {
		t.records[i] = nil
	}
	t.records = kept
}

// register 先去重再插入新记录，然后根据需要重新计算模式
func (t *tracker) register(seq Sequence, def Definition, addToSkipQueue bool, startIndex int) *ActiveList {
	m := t.manager
	t.evict(seq, def)

	inQueue := m.CanAddToSkipQueue(seq, addToSkipQueue)
	rec := newActiveList(seq, def, inQueue, m.skipQueuePlayerID, startIndex)
	rec.owner = t
	t.records = append(t.records, rec)

	if m.keepsPauseMenusFrozen(seq) {
		log.Printf("[%s] %s started while pause menu is open, keeping mode %v", t.policy.name(), seq.ID(), m.Mode())
		return rec
	}
	m.ResolveMode()
	return rec
}

// endList 实现 listOwner：标记记录结束并处理结束后的副作用
func (t *tracker) endList(rec *ActiveList) {
	m := t.manager
	seq := rec.subject
	rec.stop()

	switch {
	case rec.HasConversationOverride():
		// 把控制权交给挂起的对话选项，而不是恢复普通模式
		rec.conversation.step.OpenChoices()
		m.ResolveMode()
	case seq != nil && m.keepsPauseMenusFrozen(seq):
		if m.Mode() != types.GameModeCutscene {
			m.ResolveMode()
		}
	default:
		m.ResolveMode()
	}

	if !rec.IsNecessary() {
		t.remove(rec)
	}

	if seq != nil && seq.AutosaveAfter() {
		m.requestAutosave()
	}
}

// end 处理实例自然结束
func (t *tracker) end(seq Sequence) {
	rec := t.find(seq)
	if rec == nil {
		t.manager.ResolveMode()
		return
	}
	t.endList(rec)
}

// pause 记录恢复点并暂停
func (t *tracker) pause(rec *ActiveList, indices []int) {
	rec.SetResumeIndices(indices)
	rec.Pause()
	t.manager.ResolveMode()
}

// resume 恢复记录，必要时从定义重新生成实例
func (t *tracker) resume(rec *ActiveList) bool {
	var fresh Sequence
	if rec.needsRespawn() {
		if rec.definition == nil || t.hostFor == nil {
			log.Printf("[%s] Warning: cannot resume %q, instance is gone", t.policy.name(), rec.sceneName)
			return false
		}
		fresh = rec.definition.Spawn(t.hostFor(rec.definition))
		log.Printf("[%s] Respawned %s for resume", t.policy.name(), rec.definition.Name())
	}
	return rec.Resume(fresh)
}

// cancelWhere 以隔离方式终止并移除满足条件的记录
func (t *tracker) cancelWhere(match func(rec *ActiveList) bool) int {
	count := 0
	for _, rec := range t.snapshot() {
		if match(rec) {
			rec.Cancel()
			t.remove(rec)
			count++
		}
	}
	return count
}

// purge 移除所有不必要的记录，返回移除数量
func (t *tracker) purge() int {
	kept := t.records[:0]
	removed := 0
	for _, rec := range t.records {
		if rec.IsNecessary() {
			kept = append(kept, rec)
		} else {
			removed++
		}
	}
	for i := len(kept); i < len(t.records); i++ {
		t.records[i] = nil
	}
	t.records = kept
	return removed
}

// Clear 以隔离方式终止所有记录
func (t *tracker) Clear() {
	t.cancelWhere(func(*ActiveList) bool { return true })
}
