package script

import (
	"fmt"
	"log"
	"strings"

	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/decker502/actionlist/pkg/types"
)

// BuildDefinition 从配置构建定义
//
// 参数：
//   - cfg: 已通过验证的动作列表配置
//   - reg: 指令注册表
//   - env: 步骤使用的外部系统，可以为 nil
//
// 返回：
//   - *Definition: 构建好的定义
//   - error: 指令未注册、参数错误或跳转目标无效
func BuildDefinition(cfg *config.SequenceConfig, reg *Registry, env *Env) (*Definition, error) {
	listType, err := types.ParseListType(cfg.ListType)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: %w", cfg.Name, err)
	}

	b := &stepBuilder{
		labels: cfg.Labels(),
		count:  len(cfg.Steps),
		reg:    reg,
		env:    env,
	}
	steps := make([]Step, 0, len(cfg.Steps))
	for i, sc := range cfg.Steps {
		step, err := b.build(sc)
		if err != nil {
			return nil, fmt.Errorf("sequence %s step %d: %w", cfg.Name, i, err)
		}
		steps = append(steps, step)
	}

	opts := Options{
		ListType:           listType,
		Skippable:          cfg.IsSkippable(),
		AutosaveAfter:      cfg.AutosaveAfter,
		UnfreezePauseMenus: cfg.UnfreezePauseMenus,
		MultipleInstances:  cfg.MultipleInstances,
	}
	def := NewDefinition(cfg.Name, steps, opts, env)
	def.labels = b.labels
	return def, nil
}

type stepBuilder struct {
	labels map[string]int
	count  int
	reg    *Registry
	env    *Env
}

// target 把配置中的跳转目标转换为去向
func (b *stepBuilder) target(s string) (Continuation, error) {
	index, err := config.ResolveTarget(s, b.labels, b.count)
	if err != nil {
		return Continuation{}, err
	}
	switch index {
	case config.TargetNext:
		return Next, nil
	case config.TargetStop:
		return Stop, nil
	default:
		return Goto(index), nil
	}
}

func (b *stepBuilder) targets(list []string) ([]Continuation, error) {
	out := make([]Continuation, 0, len(list))
	for _, s := range list {
		c, err := b.target(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (b *stepBuilder) build(sc config.StepConfig) (Step, error) {
	switch sc.Type {
	case config.StepInstruction, "":
		inst, err := b.reg.Build(sc.Action, Params(sc.Params))
		if err != nil {
			return nil, err
		}
		next, err := b.target(sc.Next)
		if err != nil {
			return nil, err
		}
		if next.Kind == ContinueNext {
			return inst, nil
		}
		return &redirected{Step: inst, next: next}, nil

	case config.StepIf:
		then, err := b.target(sc.Then)
		if err != nil {
			return nil, err
		}
		els, err := b.target(sc.Else)
		if err != nil {
			return nil, err
		}
		return &Conditional{Variable: sc.Variable, Compare: sc.Compare, Value: sc.Value, Then: then, Else: els}, nil

	case config.StepSwitch:
		cases, err := b.targets(sc.Cases)
		if err != nil {
			return nil, err
		}
		def, err := b.target(sc.Default)
		if err != nil {
			return nil, err
		}
		return &MultiBranch{Variable: sc.Variable, Cases: cases, Default: def}, nil

	case config.StepParallel:
		branches, err := b.targets(sc.Branches)
		if err != nil {
			return nil, err
		}
		return &Parallel{Branches: branches}, nil

	case config.StepChoice:
		options := make([]ChoiceOption, 0, len(sc.Options))
		for _, opt := range sc.Options {
			next, err := b.target(opt.Next)
			if err != nil {
				return nil, err
			}
			options = append(options, ChoiceOption{Text: opt.Text, Next: next})
		}
		return NewChoice(options, sc.DefaultOption, sc.Override, b.env), nil

	default:
		return nil, fmt.Errorf("unknown step type %q", sc.Type)
	}
}

// LoadLibrary 从嵌入资源加载资源动作列表文件
// 单个文件失败时返回错误，已加载的定义不会加入库
func LoadLibrary(paths []string, reg *Registry, env *Env) (*Library, error) {
	lib := NewLibrary()
	if err := lib.LoadFiles(paths, reg, env); err != nil {
		return nil, err
	}
	return lib, nil
}

// LoadFiles 把嵌入资源中的动作列表文件加入库
// 路径可以是通配符（data/assets/*.yaml），没有匹配时返回错误。
// 已经加载过的文件会被跳过，切换场景时正在运行的资源列表不受影响
func (l *Library) LoadFiles(paths []string, reg *Registry, env *Env) error {
	files, err := expandPaths(paths)
	if err != nil {
		return err
	}
	defs := make([]*Definition, 0, len(files))
	loaded := make([]string, 0, len(files))
	for _, path := range files {
		if l.files[path] {
			continue
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read asset list %s: %w", path, err)
		}
		cfg, err := config.ParseSequenceConfig(data)
		if err != nil {
			return fmt.Errorf("invalid asset list %s: %w", path, err)
		}
		def, err := BuildDefinition(cfg, reg, env)
		if err != nil {
			return fmt.Errorf("failed to build asset list %s: %w", path, err)
		}
		defs = append(defs, def)
		loaded = append(loaded, path)
	}
	for _, path := range loaded {
		l.files[path] = true
	}
	for _, def := range defs {
		l.Add(def)
		log.Printf("[Library] Loaded asset list %s (%d steps)", def.Name(), len(def.Steps()))
	}
	return nil
}

// expandPaths 展开通配符，保持原有顺序并去重
func expandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		matches := []string{path}
		if strings.ContainsAny(path, "*?[") {
			var err error
			matches, err = embedded.Glob(path)
			if err != nil {
				return nil, fmt.Errorf("invalid asset pattern %s: %w", path, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("asset pattern %s matches no files", path)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}
