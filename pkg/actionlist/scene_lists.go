package actionlist

import "log"

// SceneLists 跟踪当前场景中的动作列表
// 场景卸载时通过 KillAllFromScene 清除对应记录
type SceneLists struct {
	*tracker
	policy *scenePolicy
}

func newSceneLists(m *Manager) *SceneLists {
	policy := &scenePolicy{}
	s := &SceneLists{
		tracker: newTracker(m, policy),
		policy:  policy,
	}
	s.tracker.hostFor = func(Definition) Host { return s }
	return s
}

// SetResolver 设置读档时用于找回场景实例的解析器
func (s *SceneLists) SetResolver(resolver SceneResolver) {
	s.policy.resolver = resolver
}

// AddToList 注册一个刚开始运行的列表
// 同一实例的旧记录会先被移除（重复启动视为重新开始）
//
// 参数：
//   - seq: 列表实例
//   - addToSkipQueue: 是否请求加入跳过队列（仍需通过 CanAddToSkipQueue）
//   - startIndex: 开始运行的步骤索引
func (s *SceneLists) AddToList(seq Sequence, addToSkipQueue bool, startIndex int) {
	if seq == nil {
		return
	}
	s.register(seq, nil, addToSkipQueue, startIndex)
}

// EndList 列表运行结束
func (s *SceneLists) EndList(seq Sequence) {
	s.end(seq)
}

// KillList 强制结束列表，并走正常的结束流程
func (s *SceneLists) KillList(seq Sequence) {
	if rec := s.find(seq); rec != nil {
		rec.Complete()
	}
}

// Pause 暂停列表并记录恢复点
func (s *SceneLists) Pause(seq Sequence, indices []int) {
	rec := s.find(seq)
	if rec == nil {
		log.Printf("[SceneLists] Warning: pause requested for unregistered list %s", seq.ID())
		return
	}
	s.pause(rec, indices)
}

// IsListRunning 返回列表是否正在运行
func (s *SceneLists) IsListRunning(seq Sequence) bool {
	rec := s.find(seq)
	return rec != nil && rec.IsRunning()
}

// Find 返回实例对应的记录，不存在时返回 nil
func (s *SceneLists) Find(seq Sequence) *ActiveList {
	return s.find(seq)
}

// AssignResumeIndices 为列表记录恢复点
func (s *SceneLists) AssignResumeIndices(seq Sequence, indices []int) {
	if rec := s.find(seq); rec != nil {
		rec.SetResumeIndices(indices)
	}
}

// Resume 从恢复点重新运行暂停中的列表
// 列表已在运行或没有记录时不做任何事
func (s *SceneLists) Resume(seq Sequence) bool {
	rec := s.find(seq)
	if rec == nil || rec.IsRunning() {
		return false
	}
	return s.resume(rec)
}

// KillAllFromScene 以隔离方式终止属于指定场景、且不是由资源生成的所有列表
// 用于卸载场景时，不影响其它地方运行的资源列表
func (s *SceneLists) KillAllFromScene(sceneName string) {
	m := s.manager
	m.beginBatch()
	defer m.endBatch()

	count := s.cancelWhere(func(rec *ActiveList) bool {
		return rec.sceneName == sceneName && rec.definition == nil
	})
	if count > 0 {
		log.Printf("[SceneLists] Killed %d lists from scene %s", count, sceneName)
	}
}

// GetSaveData 序列化场景列表
//
// 参数：
//   - sceneName: 非空时只序列化该场景的记录
func (s *SceneLists) GetSaveData(sceneName string) (string, error) {
	return s.encode(sceneName)
}

// LoadData 从存档恢复场景列表
//
// 参数：
//   - data: GetSaveData 生成的字符串，空字符串表示没有记录
//   - sceneName: 非空时保留其它场景的记录，只替换该场景的记录
func (s *SceneLists) LoadData(data, sceneName string) error {
	return s.decode(data, sceneName)
}
