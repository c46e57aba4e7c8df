package actionlist

import "log"

// AssetLists 跟踪由资源定义生成的动作列表
// 与 SceneLists 不同，记录在场景切换时保留，只在会话重置时清除
type AssetLists struct {
	*tracker
	policy *assetPolicy
}

func newAssetLists(m *Manager) *AssetLists {
	policy := &assetPolicy{}
	a := &AssetLists{
		tracker: newTracker(m, policy),
		policy:  policy,
	}
	a.tracker.hostFor = a.HostFor
	return a
}

// SetLibrary 设置读档时用于找回资源定义的库
func (a *AssetLists) SetLibrary(library DefinitionLibrary) {
	a.policy.library = library
}

// assetHost 把资源实例的生命周期回调转发到 AssetLists，并带上所属定义
type assetHost struct {
	lists *AssetLists
	def   Definition
}

func (h *assetHost) AddToList(seq Sequence, addToSkipQueue bool, startIndex int) {
	h.lists.AddToList(seq, h.def, addToSkipQueue, startIndex)
}

func (h *assetHost) EndList(seq Sequence) {
	h.lists.EndList(seq)
}

func (h *assetHost) Pause(seq Sequence, indices []int) {
	h.lists.Pause(seq, indices)
}

// HostFor 返回资源实例使用的 Host
func (a *AssetLists) HostFor(def Definition) Host {
	return &assetHost{lists: a, def: def}
}

// Run 从定义生成新实例并开始运行
func (a *AssetLists) Run(def Definition, addToSkipQueue bool) Sequence {
	if def == nil {
		return nil
	}
	seq := def.Spawn(a.HostFor(def))
	seq.Start(nil, addToSkipQueue)
	return seq
}

// AddToList 注册一个刚开始运行的资源列表
// 定义不允许多实例时，同一定义的旧记录会被移除，旧实例以隔离方式终止
func (a *AssetLists) AddToList(seq Sequence, def Definition, addToSkipQueue bool, startIndex int) {
	if seq == nil {
		return
	}
	a.register(seq, def, addToSkipQueue, startIndex)
}

// EndList 资源列表运行结束
func (a *AssetLists) EndList(seq Sequence) {
	a.end(seq)
}

// KillList 强制结束资源实例，并走正常的结束流程
func (a *AssetLists) KillList(seq Sequence) {
	if rec := a.find(seq); rec != nil {
		rec.Complete()
	}
}

// Pause 暂停资源列表并记录恢复点
func (a *AssetLists) Pause(seq Sequence, indices []int) {
	rec := a.find(seq)
	if rec == nil {
		log.Printf("[AssetLists] Warning: pause requested for unregistered list %s", seq.ID())
		return
	}
	a.pause(rec, indices)
}

// IsListRunning 返回该定义是否有实例正在运行
func (a *AssetLists) IsListRunning(def Definition) bool {
	for _, rec := range a.records {
		if rec.IsFor(def) && rec.IsRunning() {
			return true
		}
	}
	return false
}

// Find 返回定义对应的第一条记录，不存在时返回 nil
func (a *AssetLists) Find(def Definition) *ActiveList {
	return a.findDefinition(def)
}

// AssignResumeIndices 为定义对应的记录设置恢复点
func (a *AssetLists) AssignResumeIndices(def Definition, indices []int) {
	if rec := a.findDefinition(def); rec != nil {
		rec.SetResumeIndices(indices)
	}
}

// Resume 恢复定义对应的暂停列表
// 原实例已不存在时从定义重新生成实例，再从恢复点运行
func (a *AssetLists) Resume(def Definition) bool {
	rec := a.findDefinition(def)
	if rec == nil || rec.IsRunning() {
		return false
	}
	return a.resume(rec)
}

// DestroyAssetList 以隔离方式终止该定义的所有记录（资源被卸载或替换时调用）
func (a *AssetLists) DestroyAssetList(def Definition) {
	m := a.manager
	m.beginBatch()
	defer m.endBatch()

	count := a.cancelWhere(func(rec *ActiveList) bool {
		return rec.IsFor(def)
	})
	if count > 0 {
		log.Printf("[AssetLists] Destroyed %d lists of %s", count, def.Name())
	}
}

// GetSaveData 序列化资源列表
func (a *AssetLists) GetSaveData() (string, error) {
	return a.encode("")
}

// LoadData 从存档恢复资源列表，现有记录全部被替换
func (a *AssetLists) LoadData(data string) error {
	return a.decode(data, "")
}
