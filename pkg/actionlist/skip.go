package actionlist

import (
	"log"

	"github.com/decker502/actionlist/pkg/types"
)

// CanAddToSkipQueue 判断列表能否加入跳过队列
//
// 只有本身可跳过的列表才能加入。当前没有进行中的跳过队列时，
// 由本次调用开启队列并记录当前控制的角色；已处于可跳过过场中时直接通过。
func (m *Manager) CanAddToSkipQueue(seq Sequence, requested bool) bool {
	if !requested || seq == nil || !seq.IsSkippable() {
		return false
	}
	if !m.IsInSkippableCutscene() {
		m.beginSkipQueue()
	}
	return true
}

// beginSkipQueue 开启跳过队列
// 两个集合共用同一个入口，队列中还有成员时后续调用不会覆盖已记录的角色
func (m *Manager) beginSkipQueue() {
	if m.skipQueueOpen && (m.skipQueueHasMembers() || m.skipQueueRestoring) {
		return
	}
	m.skipQueueOpen = true
	m.skipQueuePlayerID = types.NoPlayer
	if m.env.Players != nil {
		m.skipQueuePlayerID = m.env.Players.ActivePlayerID()
	}
	log.Printf("[ActionListManager] Skip queue started (player=%d)", m.skipQueuePlayerID)
}

// restoreSkipQueue 读档时用第一条将要恢复运行的队列记录中保存的角色重新开启跳过队列
// 已有进行中的跳过队列时不做任何事
//
// 返回：
//   - bool: 是否恢复了跳过队列
func (m *Manager) restoreSkipQueue(records []*ActiveList) bool {
	if m.skipQueueOpen && m.skipQueueHasMembers() {
		return false
	}
	for _, rec := range records {
		if !rec.inSkipQueue {
			continue
		}
		m.skipQueueOpen = true
		m.skipQueuePlayerID = rec.startingPlayerID
		log.Printf("[ActionListManager] Skip queue restored (player=%d)", m.skipQueuePlayerID)
		return true
	}
	return false
}

// skipQueueHasMembers 是否有已注册且未结束的记录在跳过队列中
// 只看记录自身状态，同一帧内实例尚未报告运行的记录也算在内
func (m *Manager) skipQueueHasMembers() bool {
	for _, t := range m.trackers() {
		for _, rec := range t.records {
			if rec.inSkipQueue && rec.running {
				return true
			}
		}
	}
	return false
}

// SkipQueuePlayerID 返回跳过队列开启时控制的角色，types.NoPlayer 表示无
func (m *Manager) SkipQueuePlayerID() int {
	return m.skipQueuePlayerID
}

// EndCutscene 跳过当前过场
//
// 处理顺序：
//  1. 按设置强制黑屏，停止所有非音乐音效
//  2. 恢复跳过队列开启时控制的角色
//  3. 不在跳过队列中、但本身可跳过的列表以隔离方式终止
//  4. 其它记录调用 Skip（只有跳过队列中的记录会真正快进）
//
// 整个过程只在结束时计算一次模式。
func (m *Manager) EndCutscene() {
	if !m.IsInSkippableCutscene() && !m.IsGameplayBlocked(nil) {
		return
	}

	if m.env.Settings != nil && m.env.Settings.BlackOutWhenSkipping() && m.env.Screen != nil {
		m.env.Screen.ForceBlackout()
	}
	if m.env.Sounds != nil {
		m.env.Sounds.StopNonMusicSounds()
	}

	playerID := m.skipQueuePlayerID
	if playerID != types.NoPlayer && m.env.Players != nil && m.env.Players.ActivePlayerID() != playerID {
		m.env.Players.SetActivePlayer(playerID)
	}

	m.beginBatch()
	defer m.endBatch()

	skipped, cancelled := 0, 0
	for _, t := range m.trackers() {
		for _, rec := range t.snapshot() {
			if !rec.inSkipQueue && rec.isSkippable() {
				rec.Cancel()
				t.remove(rec)
				cancelled++
				continue
			}
			if rec.inSkipQueue {
				skipped++
			}
			rec.Skip()
		}
	}
	log.Printf("[ActionListManager] Cutscene skipped: %d fast-forwarded, %d cancelled", skipped, cancelled)
}
