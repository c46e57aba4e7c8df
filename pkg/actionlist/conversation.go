package actionlist

import "log"

// SetConversationPoint 向两个集合中包含该步骤的所有记录挂起对话重定向
//
// 所有接受者共享同一个消费标记，之后只有一条记录能真正消费它。
//
// 返回：
//   - int: 接受了重定向的记录数量
func (m *Manager) SetConversationPoint(step ConversationStep) int {
	if step == nil {
		return 0
	}
	token := &overrideToken{}
	accepted := 0
	for _, t := range m.trackers() {
		for _, rec := range t.snapshot() {
			if rec.setConversationOverride(step, token) {
				accepted++
			}
		}
	}
	if accepted == 0 {
		log.Printf("[ActionListManager] Warning: no running list owns the conversation step")
	}
	return accepted
}

// OverrideConversation 以指定选项消费挂起的对话重定向
//
// 先场景后资源，第一条成功消费的记录获胜，之后立即停止遍历。
//
// 返回：
//   - bool: 是否有记录消费了重定向；为 false 时调用方应回退到对话的默认选项
func (m *Manager) OverrideConversation(optionIndex int) bool {
	for _, t := range m.trackers() {
		for _, rec := range t.snapshot() {
			if rec.ResumeConversationOverride(optionIndex) {
				return true
			}
		}
	}
	return false
}
