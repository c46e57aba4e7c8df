package actionlist

import (
	"fmt"
	"log"
	"strings"

	"github.com/decker502/actionlist/pkg/types"
	"gopkg.in/yaml.v3"
)

// RecordData 单条 ActiveList 的存档数据
//
// 每个集合序列化为一个 YAML 序列，每个元素是一条记录。
// 读档时逐条解码，单条记录损坏（字段类型错误、实例已被删除等）只跳过该条。
type RecordData struct {
	ID               string `yaml:"id,omitempty"`         // 实例ID（场景列表）
	Scene            string `yaml:"scene,omitempty"`      // 所属场景
	Definition       string `yaml:"definition,omitempty"` // 资源定义名称（资源列表）
	Running          bool   `yaml:"running,omitempty"`
	Paused           bool   `yaml:"paused,omitempty"`
	InSkipQueue      bool   `yaml:"inSkipQueue,omitempty"`
	StartIndex       int    `yaml:"startIndex,omitempty"`
	ResumeIndices    []int  `yaml:"resumeIndices,flow,omitempty"`
	StartingPlayerID int    `yaml:"startingPlayer"`   // -1 表示无
	ConversationStep int    `yaml:"conversationStep"` // -1 表示没有挂起的对话重定向
}

// SaveData 两个集合的存档数据
type SaveData struct {
	SceneLists map[string]string `yaml:"sceneLists,omitempty"` // 场景名 -> 该场景的记录
	AssetLists string            `yaml:"assetLists,omitempty"`
}

// encode 清除不必要的记录后，序列化 scope 范围内的记录（scope 为空表示全部）
func (t *tracker) encode(scope string) (string, error) {
	return t.encodeMatching(func(rec *ActiveList) bool {
		return scope == "" || rec.sceneName == scope
	})
}

// encodeMatching 清除不必要的记录后，序列化满足条件的记录
func (t *tracker) encodeMatching(match func(rec *ActiveList) bool) (string, error) {
	if removed := t.purge(); removed > 0 {
		log.Printf("[%s] Purged %d finished lists before saving", t.policy.name(), removed)
	}

	records := make([]RecordData, 0, len(t.records))
	for _, rec := range t.records {
		if !match(rec) {
			continue
		}
		if data, ok := rec.GetSaveData(""); ok {
			records = append(records, data)
		}
	}
	if len(records) == 0 {
		return "", nil
	}

	out, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", t.policy.name(), err)
	}
	return string(out), nil
}

// decode 从存档恢复记录
//
// scope 为空时替换全部记录；否则只替换属于该场景的记录，其它场景的记录保留。
// 文档本身无法解析时返回错误；单条记录无法恢复时记录警告并跳过。
func (t *tracker) decode(data, scope string) error {
	m := t.manager
	m.beginBatch()
	defer m.endBatch()

	if scope == "" {
		t.Clear()
	} else {
		t.cancelWhere(func(rec *ActiveList) bool { return rec.sceneName == scope })
	}

	if strings.TrimSpace(data) == "" {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", t.policy.name(), err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return fmt.Errorf("failed to parse %s data: expected a sequence of records", t.policy.name())
	}

	var toResume, toReopen []*ActiveList
	for i, node := range root.Content {
		rec, wasRunning, err := t.decodeRecord(node, scope)
		if err != nil {
			log.Printf("[%s] Warning: skipping record %d: %v", t.policy.name(), i, err)
			continue
		}
		t.evict(rec.subject, rec.definition)
		t.records = append(t.records, rec)
		switch {
		case wasRunning:
			toResume = append(toResume, rec)
		case rec.HasConversationOverride():
			toReopen = append(toReopen, rec)
		}
	}

	// 跳过队列沿用存档时记录的角色，恢复运行时不重新记录
	if m.restoreSkipQueue(toResume) {
		m.skipQueueRestoring = true
		defer func() { m.skipQueueRestoring = false }()
	}

	// 存档时仍在运行的列表，从保存时的步骤继续运行
	for _, rec := range toResume {
		t.resume(rec)
	}

	// 存档时正在显示的重定向选项重新打开
	for _, rec := range toReopen {
		if rec.HasConversationOverride() {
			rec.conversation.step.OpenChoices()
		}
	}
	return nil
}

// decodeRecord 解码单条记录并绑定实例
func (t *tracker) decodeRecord(node *yaml.Node, scope string) (*ActiveList, bool, error) {
	data := RecordData{
		StartingPlayerID: types.NoPlayer,
		ConversationStep: -1,
	}
	if err := node.Decode(&data); err != nil {
		return nil, false, fmt.Errorf("malformed record: %w", err)
	}

	rec := &ActiveList{owner: t}
	if err := rec.LoadData(data, scope); err != nil {
		return nil, false, err
	}

	seq, def, ok := t.policy.bind(data)
	if !ok {
		return nil, false, fmt.Errorf("cannot resolve list id=%q definition=%q in scene %q", data.ID, data.Definition, data.Scene)
	}
	rec.subject = seq
	rec.definition = def

	if data.ConversationStep >= 0 {
		if rec.subject == nil && def != nil && t.hostFor != nil {
			rec.subject = def.Spawn(t.hostFor(def))
		}
		if rec.subject != nil {
			if step, ok := rec.subject.ConversationStepAt(data.ConversationStep); ok {
				rec.conversation = &pendingConversation{
					step:      step,
					stepIndex: data.ConversationStep,
					token:     &overrideToken{},
				}
			}
		}
	}

	return rec, data.Running, nil
}
