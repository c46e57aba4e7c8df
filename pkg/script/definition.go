package script

import (
	"sort"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/types"
	"github.com/google/uuid"
)

// Options 列表的运行选项
type Options struct {
	ListType           types.ListType
	Skippable          bool
	AutosaveAfter      bool
	UnfreezePauseMenus bool
	MultipleInstances  bool
}

// Definition 构建好的动作列表定义，实现 actionlist.Definition
//
// 场景列表与资源列表都由定义生成实例；步骤对象在同一定义的所有实例之间共享。
type Definition struct {
	name   string
	steps  []Step
	opts   Options
	env    *Env
	labels map[string]int
}

// NewDefinition 创建定义
func NewDefinition(name string, steps []Step, opts Options, env *Env) *Definition {
	return &Definition{name: name, steps: steps, opts: opts, env: env}
}

// StepIndex 把步骤标签或数字索引解析为步骤索引
func (d *Definition) StepIndex(target string) (int, bool) {
	index, err := config.ResolveTarget(target, d.labels, len(d.steps))
	if err != nil || index < 0 || index >= len(d.steps) {
		return 0, false
	}
	return index, true
}

func (d *Definition) Name() string                  { return d.name }
func (d *Definition) Steps() []Step                 { return d.steps }
func (d *Definition) Options() Options              { return d.opts }
func (d *Definition) AllowsMultipleInstances() bool { return d.opts.MultipleInstances }

// Spawn 生成资源列表实例，ID 为随机 UUID，不属于任何场景
func (d *Definition) Spawn(host actionlist.Host) actionlist.Sequence {
	return NewScript(uuid.NewString(), "", d, host)
}

// NewSceneScript 生成场景列表实例
func (d *Definition) NewSceneScript(id, sceneName string, host actionlist.Host) *Script {
	return NewScript(id, sceneName, d, host)
}

// Library 资源动作列表定义库，实现 actionlist.DefinitionLibrary
type Library struct {
	defs  map[string]*Definition
	files map[string]bool // 已加载的文件，再次加载时跳过
}

// NewLibrary 创建空的定义库
func NewLibrary() *Library {
	return &Library{
		defs:  make(map[string]*Definition),
		files: make(map[string]bool),
	}
}

// Add 添加定义，同名定义会被替换
// 被替换的定义仍有资源列表在运行或暂停时，这些列表以隔离方式终止
func (l *Library) Add(def *Definition) {
	if old, ok := l.defs[def.Name()]; ok && old != def && old.env != nil && old.env.Lists != nil {
		old.env.Lists.Assets.DestroyAssetList(old)
	}
	l.defs[def.Name()] = def
}

// Get 按名称查找定义
func (l *Library) Get(name string) (*Definition, bool) {
	def, ok := l.defs[name]
	return def, ok
}

// Names 返回所有定义名称（排序后）
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDefinition 实现 actionlist.DefinitionLibrary
// 不存在时必须返回 nil 接口，而不是包着 nil 指针的接口
func (l *Library) LookupDefinition(name string) actionlist.Definition {
	def, ok := l.defs[name]
	if !ok {
		return nil
	}
	return def
}
