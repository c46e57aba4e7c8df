package actionlist

import (
	"fmt"

	"github.com/decker502/actionlist/pkg/types"
)

// NoOverrideOption 表示重新进入对话步骤时不指定选项
const NoOverrideOption = -1

// overrideToken 同一次对话重定向广播共享的消费标记
// 保证一次广播只会被一条记录消费
type overrideToken struct {
	consumed bool
}

// pendingConversation 记录上挂起的对话重定向
type pendingConversation struct {
	step      ConversationStep
	stepIndex int
	token     *overrideToken
}

// listOwner 是记录所属的集合，Complete 通过它走正常的结束流程
type listOwner interface {
	endList(rec *ActiveList)
}

// ActiveList 是一个动作列表实例的运行时记录
//
// 一个实例同一时间最多只有一条记录；重复注册会先移除旧记录。
// resumeIndices 只在 paused 为 true 时有意义。
type ActiveList struct {
	subject    Sequence   // 被跟踪的实例（资源记录读档后可能为 nil，恢复时重新生成）
	definition Definition // 资源定义，场景列表为 nil
	sceneName  string     // 所属场景

	running       bool
	paused        bool
	inSkipQueue   bool
	startIndex    int
	resumeIndices []int

	conversation     *pendingConversation
	startingPlayerID int // 加入跳过队列时控制的角色，types.NoPlayer 表示无

	owner listOwner
}

// newActiveList 为刚开始运行的实例创建记录
func newActiveList(seq Sequence, def Definition, inSkipQueue bool, startingPlayerID, startIndex int) *ActiveList {
	rec := &ActiveList{
		subject:          seq,
		definition:       def,
		running:          true,
		inSkipQueue:      inSkipQueue,
		startIndex:       startIndex,
		startingPlayerID: types.NoPlayer,
	}
	if seq != nil {
		rec.sceneName = seq.SceneName()
	}
	if inSkipQueue {
		rec.startingPlayerID = startingPlayerID
	}
	return rec
}

// Subject 返回被跟踪的实例
func (a *ActiveList) Subject() Sequence {
	return a.subject
}

// Definition 返回资源定义（场景列表为 nil）
func (a *ActiveList) Definition() Definition {
	return a.definition
}

// SceneName 返回记录所属场景
func (a *ActiveList) SceneName() string {
	return a.sceneName
}

// IsFor 判断记录是否对应给定的实例或资源定义
//
// 参数：
//   - target: Sequence 按实例比较；Definition 按定义名称比较
func (a *ActiveList) IsFor(target any) bool {
	switch v := target.(type) {
	case Sequence:
		return a.subject != nil && a.subject == v
	case Definition:
		return a.definition != nil && a.definition.Name() == v.Name()
	default:
		return false
	}
}

// IsRunning 只有在记录处于运行状态且实例自身报告正在推进时才返回 true
func (a *ActiveList) IsRunning() bool {
	return a.running && a.subject != nil && a.subject.IsRunning()
}

// IsPaused 返回记录是否处于暂停状态
func (a *ActiveList) IsPaused() bool {
	return a.paused
}

// InSkipQueue 返回记录是否参与"跳过过场"
func (a *ActiveList) InSkipQueue() bool {
	return a.inSkipQueue
}

// StartingPlayerID 返回加入跳过队列时控制的角色
func (a *ActiveList) StartingPlayerID() int {
	return a.startingPlayerID
}

// ResumeIndices 返回恢复点（副本）
func (a *ActiveList) ResumeIndices() []int {
	return append([]int(nil), a.resumeIndices...)
}

// blocksGameplay 记录正在运行且会阻塞玩家操作
func (a *ActiveList) blocksGameplay() bool {
	return a.IsRunning() && a.subject.ListType().BlocksGameplay()
}

// isSkippable 实例本身是否允许跳过
func (a *ActiveList) isSkippable() bool {
	return a.subject != nil && a.subject.IsSkippable()
}

// needsRespawn 实例不存在或已被销毁
func (a *ActiveList) needsRespawn() bool {
	if a.subject == nil {
		return true
	}
	if d, ok := a.subject.(destroyable); ok {
		return d.IsDestroyed()
	}
	return false
}

// stop 清除运行状态（不调用实例）
func (a *ActiveList) stop() {
	a.running = false
	a.paused = false
	a.resumeIndices = nil
}

// Cancel 强制终止实例，不触发结束流程（不重新计算模式、不自动存档、不处理对话重定向）
// 批量操作使用它，之后由调用方统一计算一次模式
func (a *ActiveList) Cancel() {
	if a.subject != nil {
		a.subject.Kill()
	}
	a.stop()
	a.inSkipQueue = false
	a.conversation = nil
}

// Complete 强制终止实例，并走正常的结束流程（与实例自然结束相同）
func (a *ActiveList) Complete() {
	if a.subject != nil {
		a.subject.Kill()
	}
	if a.owner != nil {
		a.owner.endList(a)
		return
	}
	a.stop()
}

// Skip 让跳过队列中的实例同步快进到结束
// 暂停中的记录从恢复点开始快进，运行中的记录从实例当前所在的步骤开始，
// 两者都没有时从注册时的起始步骤开始，已经执行过的步骤不会再执行一遍。
// 不在跳过队列中、或既不在运行也不在暂停的记录不受影响
func (a *ActiveList) Skip() {
	if !a.inSkipQueue || a.subject == nil {
		return
	}
	if !a.IsRunning() && !a.paused {
		return
	}
	a.subject.Skip(a.skipIndices())
}

// skipIndices 快进的起点
func (a *ActiveList) skipIndices() []int {
	if a.paused && len(a.resumeIndices) > 0 {
		return a.ResumeIndices()
	}
	if a.IsRunning() {
		if current := a.subject.ResumeIndices(); len(current) > 0 {
			return append([]int(nil), current...)
		}
	}
	return []int{a.startIndex}
}

// SetResumeIndices 记录恢复点
func (a *ActiveList) SetResumeIndices(indices []int) {
	a.resumeIndices = append([]int(nil), indices...)
}

// Pause 暂停实例，保留恢复点
func (a *ActiveList) Pause() {
	if a.subject != nil {
		a.subject.Kill()
	}
	a.running = false
	a.paused = true
}

// Resume 从恢复点重新运行
//
// 参数：
//   - newSubject: 非 nil 时先重新绑定到新实例（资源实例在存档与读档之间被销毁的情况）
//
// 返回：
//   - bool: 是否真正恢复了运行；实例已在运行时为 false
func (a *ActiveList) Resume(newSubject Sequence) bool {
	if newSubject != nil {
		a.subject = newSubject
		a.sceneName = newSubject.SceneName()
	}
	if a.subject == nil || a.subject.IsRunning() {
		return false
	}
	indices := a.ResumeIndices()
	a.paused = false
	a.subject.Start(indices, a.inSkipQueue)
	return true
}

// SetConversationOverride 挂起一个对话重定向
// 只有实例包含该步骤时才接受
func (a *ActiveList) SetConversationOverride(step ConversationStep) bool {
	return a.setConversationOverride(step, &overrideToken{})
}

func (a *ActiveList) setConversationOverride(step ConversationStep, token *overrideToken) bool {
	if a.subject == nil || step == nil {
		return false
	}
	index := a.subject.IndexOfStep(step)
	if index < 0 {
		return false
	}
	a.conversation = &pendingConversation{step: step, stepIndex: index, token: token}
	return true
}

// HasConversationOverride 是否有尚未被消费的对话重定向
func (a *ActiveList) HasConversationOverride() bool {
	return a.conversation != nil && !a.conversation.token.consumed
}

// ResumeConversationOverride 消费对话重定向，从对话步骤处以指定选项重新运行
// 同一次广播只有第一个调用者返回 true
func (a *ActiveList) ResumeConversationOverride(optionIndex int) bool {
	pending := a.conversation
	if pending == nil {
		return false
	}
	a.conversation = nil
	if pending.token.consumed {
		return false
	}
	pending.token.consumed = true

	pending.step.SetOverrideOption(optionIndex)
	if a.subject != nil {
		a.paused = false
		a.subject.Start([]int{pending.stepIndex}, a.inSkipQueue)
	}
	return true
}

// IsNecessary 不在运行、不在暂停、且没有挂起的对话重定向时返回 false，此类记录在存档前被清除
func (a *ActiveList) IsNecessary() bool {
	return a.IsRunning() || a.paused || a.HasConversationOverride()
}

// GetSaveData 序列化记录
//
// 参数：
//   - scope: 非空时只序列化属于该场景的记录
//
// 返回：
//   - RecordData: 记录数据
//   - bool: 记录是否在 scope 范围内
func (a *ActiveList) GetSaveData(scope string) (RecordData, bool) {
	if scope != "" && a.sceneName != scope {
		return RecordData{}, false
	}

	data := RecordData{
		Scene:            a.sceneName,
		Running:          a.IsRunning(),
		Paused:           a.paused,
		InSkipQueue:      a.inSkipQueue,
		StartIndex:       a.startIndex,
		StartingPlayerID: a.startingPlayerID,
		ConversationStep: -1,
	}
	if a.subject != nil {
		data.ID = a.subject.ID()
	}
	if a.definition != nil {
		data.Definition = a.definition.Name()
	}

	switch {
	case a.paused:
		data.ResumeIndices = a.ResumeIndices()
	case data.Running:
		data.ResumeIndices = append([]int(nil), a.subject.ResumeIndices()...)
	}

	if a.HasConversationOverride() {
		data.ConversationStep = a.conversation.stepIndex
	}
	return data, true
}

// LoadData 从存档数据恢复记录状态（实例由集合的生命周期策略另行绑定）
//
// 返回：
//   - error: 数据不完整或不属于 scope 时返回错误，调用方跳过该记录
func (a *ActiveList) LoadData(data RecordData, scope string) error {
	if data.ID == "" && data.Definition == "" {
		return fmt.Errorf("record has neither id nor definition")
	}
	if scope != "" && data.Scene != scope {
		return fmt.Errorf("record scene %q outside scope %q", data.Scene, scope)
	}
	if data.StartIndex < 0 {
		return fmt.Errorf("negative start index %d", data.StartIndex)
	}
	for _, i := range data.ResumeIndices {
		if i < 0 {
			return fmt.Errorf("negative resume index %d", i)
		}
	}
	if data.Running && data.Paused {
		return fmt.Errorf("record cannot be both running and paused")
	}

	a.sceneName = data.Scene
	a.running = false
	a.paused = data.Paused
	a.inSkipQueue = data.InSkipQueue
	a.startIndex = data.StartIndex
	a.resumeIndices = append([]int(nil), data.ResumeIndices...)
	a.startingPlayerID = data.StartingPlayerID
	a.conversation = nil
	return nil
}
