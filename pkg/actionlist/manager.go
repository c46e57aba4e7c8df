package actionlist

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/actionlist/pkg/types"
)

// Manager 动作列表管理器
//
// 职责：
//   - 组合场景列表（SceneLists）与资源列表（AssetLists），对外提供统一查询
//   - 在列表状态变化后推导全局模式
//   - 管理跳过队列、延迟自动存档和变量触发的过场
//
// 所有方法都应在主循环中调用，不支持并发访问。
type Manager struct {
	Scene  *SceneLists
	Assets *AssetLists

	env   Environment
	modes *ModeResolver

	// 跳过队列（两个集合共享，保证同一时间只有一次"开始跳过队列"）
	skipQueueOpen      bool
	skipQueuePlayerID  int
	skipQueueRestoring bool // 读档恢复运行期间，开启队列时保留已恢复的角色

	pendingAutosave bool
	pendingTrigger  Sequence

	batchDepth int
	timeScale  float64
}

// NewManager 创建管理器
//
// 参数：
//   - env: 外部系统集合，可以只填写部分字段
func NewManager(env Environment) *Manager {
	m := &Manager{
		env:               env,
		modes:             NewModeResolver(),
		skipQueuePlayerID: types.NoPlayer,
		timeScale:         -1,
	}
	m.Scene = newSceneLists(m)
	m.Assets = newAssetLists(m)
	return m
}

// SetEnvironment 替换外部系统集合（场景初始化完成后调用）
func (m *Manager) SetEnvironment(env Environment) {
	m.env = env
}

// Mode 返回当前全局模式
func (m *Manager) Mode() types.GameMode {
	return m.modes.Mode()
}

// OnModeChanged 注册模式变化回调
func (m *Manager) OnModeChanged(fn ModeListener) {
	m.modes.OnModeChanged(fn)
}

// trackers 按固定顺序返回两个集合：先场景，后资源
func (m *Manager) trackers() []*tracker {
	return []*tracker{m.Scene.tracker, m.Assets.tracker}
}

// IsGameplayBlocked 是否有阻塞玩家操作的列表正在运行
//
// 参数：
//   - exclude: 非 nil 时忽略包含该步骤的列表（步骤可以询问"除了我之外是否还有阻塞"）
func (m *Manager) IsGameplayBlocked(exclude any) bool {
	for _, t := range m.trackers() {
		for _, rec := range t.records {
			if !rec.blocksGameplay() {
				continue
			}
			if exclude != nil && rec.subject.IndexOfStep(exclude) >= 0 {
				continue
			}
			return true
		}
	}
	return false
}

// IsGameplayBlockedAndUnfrozen 是否有阻塞列表允许暂停菜单保持可交互
func (m *Manager) IsGameplayBlockedAndUnfrozen() bool {
	for _, t := range m.trackers() {
		for _, rec := range t.records {
			if rec.blocksGameplay() && rec.subject.UnfreezePauseMenus() {
				return true
			}
		}
	}
	return false
}

// IsInSkippableCutscene 是否有跳过队列中的列表正在运行
func (m *Manager) IsInSkippableCutscene() bool {
	for _, t := range m.trackers() {
		for _, rec := range t.records {
			if rec.IsRunning() && rec.inSkipQueue {
				return true
			}
		}
	}
	return false
}

// IsListRunning 实例是否正在运行（任一集合）
func (m *Manager) IsListRunning(seq Sequence) bool {
	if m.Scene.IsListRunning(seq) {
		return true
	}
	rec := m.Assets.find(seq)
	return rec != nil && rec.IsRunning()
}

// isPauseMenuOpen 外部菜单状态，未初始化时视为关闭
func (m *Manager) isPauseMenuOpen() bool {
	return m.env.Menus != nil && m.env.Menus.IsPauseMenuOpen()
}

// keepsPauseMenusFrozen 阻塞列表要求在暂停菜单打开时保持冻结
func (m *Manager) keepsPauseMenusFrozen(seq Sequence) bool {
	return seq.ListType().BlocksGameplay() && !seq.UnfreezePauseMenus() && m.isPauseMenuOpen()
}

// beginBatch / endBatch 包围批量操作，期间推迟模式计算，结束时统一计算一次
func (m *Manager) beginBatch() {
	m.batchDepth++
}

func (m *Manager) endBatch() {
	m.batchDepth--
	if m.batchDepth <= 0 {
		m.batchDepth = 0
		m.ResolveMode()
	}
}

// ResolveMode 根据两个集合、暂停菜单与对话状态重新推导全局模式
//
// 菜单状态尚未接入时（启动顺序导致）只记录警告，保持当前模式。
func (m *Manager) ResolveMode() {
	if m.batchDepth > 0 {
		return
	}
	if m.env.Menus == nil {
		log.Printf("[ActionListManager] Warning: menu state not attached, keeping mode %v", m.Mode())
		return
	}

	in := ModeInputs{
		Blocking:       m.IsGameplayBlocked(nil),
		PauseMenuOpen:  m.env.Menus.IsPauseMenuOpen(),
		DialogueChoice: m.env.Menus.IsDialogueChoiceActive(),
	}
	next := DeriveMode(in)
	prev := m.Mode()

	if (prev == types.GameModeCutscene) != (next == types.GameModeCutscene) {
		m.resetSkipState()
	}

	m.modes.set(next)
	m.applyTimeScale(next)
}

// applyTimeScale 暂停时冻结游戏时间，其它模式（包括允许暂停菜单交互的过场）恢复正常
func (m *Manager) applyTimeScale(mode types.GameMode) {
	scale := 1.0
	if mode == types.GameModePaused {
		scale = 0
	}
	if m.env.Clock == nil || scale == m.timeScale {
		return
	}
	m.timeScale = scale
	m.env.Clock.SetTimeScale(scale)
}

// resetSkipState 进入或离开过场时调用：重置跳过队列状态并备份变量
// 跳过队列中仍有运行中的列表时保留队列状态
func (m *Manager) resetSkipState() {
	if !m.skipQueueHasMembers() {
		m.skipQueueOpen = false
		m.skipQueuePlayerID = types.NoPlayer
	}
	if m.env.Variables != nil {
		m.env.Variables.BackupVariables()
	}
}

// requestAutosave 没有阻塞时立即自动存档，否则等到不再阻塞的那一帧
func (m *Manager) requestAutosave() {
	if m.IsGameplayBlocked(nil) {
		m.pendingAutosave = true
		return
	}
	m.autosave()
}

func (m *Manager) autosave() {
	if m.env.Saver == nil {
		log.Printf("[ActionListManager] Warning: autosave requested but no saver attached")
		return
	}
	if err := m.env.Saver.Autosave(); err != nil {
		log.Printf("[ActionListManager] Warning: autosave failed: %v", err)
	}
}

// HasPendingAutosave 是否有被推迟的自动存档
func (m *Manager) HasPendingAutosave() bool {
	return m.pendingAutosave
}

// QueueVariableTrigger 变量变化触发的列表，等到回到自由操作或对话选项模式时再运行
func (m *Manager) QueueVariableTrigger(seq Sequence) {
	m.pendingTrigger = seq
}

// Update 每帧调用一次，处理两个延迟条件：
//   - 阻塞解除后执行被推迟的自动存档
//   - 回到 Free / DialogueChoice 后运行变量触发的列表
func (m *Manager) Update() {
	if m.pendingAutosave && !m.IsGameplayBlocked(nil) {
		m.pendingAutosave = false
		m.autosave()
	}

	if m.pendingTrigger != nil {
		mode := m.Mode()
		if mode == types.GameModeFree || mode == types.GameModeDialogueChoice {
			seq := m.pendingTrigger
			m.pendingTrigger = nil
			log.Printf("[ActionListManager] Running variable-triggered list %s", seq.ID())
			seq.Start(nil, true)
		}
	}
}

// KillAllLists 以隔离方式终止两个集合中的所有列表（会话结束时调用）
func (m *Manager) KillAllLists() {
	m.beginBatch()
	defer m.endBatch()

	for _, t := range m.trackers() {
		t.Clear()
	}
	m.pendingTrigger = nil
	log.Printf("[ActionListManager] Killed all lists")
}

// PurgeLists 清除两个集合中所有不必要的记录
func (m *Manager) PurgeLists() int {
	removed := 0
	for _, t := range m.trackers() {
		removed += t.purge()
	}
	return removed
}

// GetSaveData 序列化两个集合
// 场景列表按场景分别序列化，读档时各场景可以独立恢复
func (m *Manager) GetSaveData() (SaveData, error) {
	m.PurgeLists()

	data := SaveData{SceneLists: make(map[string]string)}
	for _, rec := range m.Scene.records {
		if _, done := data.SceneLists[rec.sceneName]; done {
			continue
		}
		sceneName := rec.sceneName
		chunk, err := m.Scene.encodeMatching(func(r *ActiveList) bool { return r.sceneName == sceneName })
		if err != nil {
			return SaveData{}, err
		}
		data.SceneLists[sceneName] = chunk
	}

	assets, err := m.Assets.GetSaveData()
	if err != nil {
		return SaveData{}, err
	}
	data.AssetLists = assets
	return data, nil
}

// LoadData 从存档恢复两个集合，现有记录全部被替换
func (m *Manager) LoadData(data SaveData) error {
	m.beginBatch()
	defer m.endBatch()

	m.Scene.Clear()
	sceneNames := make([]string, 0, len(data.SceneLists))
	for sceneName := range data.SceneLists {
		sceneNames = append(sceneNames, sceneName)
	}
	sort.Strings(sceneNames)
	for _, sceneName := range sceneNames {
		chunk := data.SceneLists[sceneName]
		if err := m.Scene.LoadData(chunk, sceneName); err != nil {
			return fmt.Errorf("failed to load lists of scene %s: %w", sceneName, err)
		}
	}
	if err := m.Assets.LoadData(data.AssetLists); err != nil {
		return fmt.Errorf("failed to load asset lists: %w", err)
	}
	return nil
}
