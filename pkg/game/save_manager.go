package game

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SaveVersion 当前存档格式版本
const SaveVersion = 1

// AutosaveSlot 自动存档使用的槽位
const AutosaveSlot = "autosave"

// SaveData 一个存档槽位的内容
//
// 保存内容：
//   - 当前场景、控制的角色和全局变量
//   - 动作列表管理器的两个记录集合（场景列表按场景分块）
type SaveData struct {
	Version   int                 `yaml:"version"`
	SavedAt   time.Time           `yaml:"savedAt"`
	Scene     string              `yaml:"scene"`
	Player    int                 `yaml:"player"`
	Variables map[string]int      `yaml:"variables"`
	Lists     actionlist.SaveData `yaml:"lists"`
}

// SlotInfo 存档槽位摘要
type SlotInfo struct {
	Slot    string    `yaml:"slot"`
	Scene   string    `yaml:"scene"`
	SavedAt time.Time `yaml:"savedAt"`
}

// 存储路径常量
const (
	savesObject        = "saves"
	savesIndexProp     = "index"
	saveSlotPropPrefix = "slot_"
)

// SaveManager 存档管理器
//
// 职责：
//   - 按槽位读写存档（YAML 格式，与项目其他配置文件保持一致）
//   - 维护槽位索引，支持列出和删除
//   - 实现 actionlist.Autosaver
//
// 架构说明：
//   - 数据持久化到 gdata，gdataManager 为 nil 时退化为内存存储（降级模式）
//   - 自动存档的内容由 snapshot 回调提供，通常是 GameState.Snapshot
type SaveManager struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte // 降级模式下的存储：属性名 -> 数据
	snapshot     func() (*SaveData, error)
}

// NewSaveManager 创建存档管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存存档）
//
// 返回：
//   - *SaveManager: 新创建的存档管理器实例
//   - error: 索引损坏时返回错误
func NewSaveManager(gdataManager *gdata.Manager) (*SaveManager, error) {
	sm := &SaveManager{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
	if _, err := sm.readIndex(); err != nil {
		return nil, fmt.Errorf("failed to read save index: %w", err)
	}
	return sm, nil
}

// SetSnapshotSource 设置自动存档时获取存档内容的回调
func (sm *SaveManager) SetSnapshotSource(fn func() (*SaveData, error)) {
	sm.snapshot = fn
}

// ValidateSlot 验证槽位名称
//
// 规则：
//   - 不能为空
//   - 只能包含字母、数字、下划线和连字符
//   - 长度限制 1-32 字符
func ValidateSlot(slot string) error {
	if slot == "" {
		return fmt.Errorf("slot name is required")
	}
	if len(slot) > 32 {
		return fmt.Errorf("slot name cannot exceed 32 characters")
	}
	matched, err := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, slot)
	if err != nil {
		return fmt.Errorf("failed to validate slot name: %w", err)
	}
	if !matched {
		return fmt.Errorf("slot name %q may only contain letters, digits, '_' and '-'", slot)
	}
	return nil
}

// load / store / exists 封装 gdata 与内存两种存储
func (sm *SaveManager) load(prop string) ([]byte, bool, error) {
	if sm.gdataManager == nil {
		data, ok := sm.memory[prop]
		return data, ok && len(data) > 0, nil
	}
	if !sm.gdataManager.ObjectPropExists(savesObject, prop) {
		return nil, false, nil
	}
	data, err := sm.gdataManager.LoadObjectProp(savesObject, prop)
	if err != nil {
		return nil, false, err
	}
	return data, len(data) > 0, nil
}

func (sm *SaveManager) store(prop string, data []byte) error {
	if sm.gdataManager == nil {
		sm.memory[prop] = data
		return nil
	}
	return sm.gdataManager.SaveObjectProp(savesObject, prop, data)
}

func (sm *SaveManager) readIndex() ([]SlotInfo, error) {
	data, ok, err := sm.load(savesIndexProp)
	if err != nil || !ok {
		return nil, err
	}
	var index []SlotInfo
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse save index: %w", err)
	}
	return index, nil
}

func (sm *SaveManager) writeIndex(index []SlotInfo) error {
	sort.Slice(index, func(i, j int) bool { return index[i].Slot < index[j].Slot })
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal save index: %w", err)
	}
	return sm.store(savesIndexProp, data)
}

// Save 写入存档
//
// 参数：
//   - slot: 槽位名称
//   - data: 存档内容，Version 与 SavedAt 由本方法填写
func (sm *SaveManager) Save(slot string, data *SaveData) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("save data is nil")
	}
	data.Version = SaveVersion
	if data.SavedAt.IsZero() {
		data.SavedAt = time.Now()
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}
	if err := sm.store(saveSlotPropPrefix+slot, out); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}

	index, err := sm.readIndex()
	if err != nil {
		return err
	}
	info := SlotInfo{Slot: slot, Scene: data.Scene, SavedAt: data.SavedAt}
	replaced := false
	for i := range index {
		if index[i].Slot == slot {
			index[i] = info
			replaced = true
		}
	}
	if !replaced {
		index = append(index, info)
	}
	if err := sm.writeIndex(index); err != nil {
		return err
	}

	log.Printf("[SaveManager] Saved slot %s (scene %s)", slot, data.Scene)
	return nil
}

// Load 读取存档
//
// 返回：
//   - *SaveData: 存档内容
//   - error: 槽位不存在、数据损坏或版本不兼容时返回错误
func (sm *SaveManager) Load(slot string) (*SaveData, error) {
	raw, err := sm.Export(slot)
	if err != nil {
		return nil, err
	}
	return ParseSaveData(raw)
}

// ParseSaveData 解析存档 YAML（命令行工具也使用它）
func ParseSaveData(raw []byte) (*SaveData, error) {
	var data SaveData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse save data: %w", err)
	}
	if data.Version != SaveVersion {
		return nil, fmt.Errorf("unsupported save version %d (expected %d)", data.Version, SaveVersion)
	}
	if data.Variables == nil {
		data.Variables = make(map[string]int)
	}
	return &data, nil
}

// Export 返回槽位的原始 YAML 数据
func (sm *SaveManager) Export(slot string) ([]byte, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	raw, ok, err := sm.load(saveSlotPropPrefix + slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	if !ok {
		return nil, fmt.Errorf("slot %s not found", slot)
	}
	return raw, nil
}

// HasSlot 槽位是否存在
func (sm *SaveManager) HasSlot(slot string) bool {
	if ValidateSlot(slot) != nil {
		return false
	}
	_, ok, err := sm.load(saveSlotPropPrefix + slot)
	return err == nil && ok
}

// ListSlots 返回所有槽位（按名称排序）
func (sm *SaveManager) ListSlots() ([]SlotInfo, error) {
	return sm.readIndex()
}

// DeleteSlot 删除槽位
// 槽位数据被清空，并从索引中移除
func (sm *SaveManager) DeleteSlot(slot string) error {
	if !sm.HasSlot(slot) {
		return fmt.Errorf("slot %s not found", slot)
	}
	if err := sm.store(saveSlotPropPrefix+slot, nil); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}

	index, err := sm.readIndex()
	if err != nil {
		return err
	}
	kept := index[:0]
	for _, info := range index {
		if info.Slot != slot {
			kept = append(kept, info)
		}
	}
	if err := sm.writeIndex(kept); err != nil {
		return err
	}
	log.Printf("[SaveManager] Deleted slot %s", slot)
	return nil
}

// Autosave 实现 actionlist.Autosaver，写入自动存档槽位
func (sm *SaveManager) Autosave() error {
	if sm.snapshot == nil {
		return fmt.Errorf("no snapshot source attached")
	}
	data, err := sm.snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot game state: %w", err)
	}
	return sm.Save(AutosaveSlot, data)
}
