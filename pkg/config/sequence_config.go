package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/actionlist/pkg/types"
	"gopkg.in/yaml.v3"
)

// 步骤类型
const (
	StepInstruction = "instruction" // 普通指令（默认）
	StepIf          = "if"          // 条件分支
	StepSwitch      = "switch"      // 按变量值多路分支
	StepParallel    = "parallel"    // 同时进入多个分支
	StepChoice      = "choice"      // 对话选项
)

// 跳转目标的保留字
const (
	NextStep = "next" // 继续下一步（默认）
	StopList = "stop" // 结束整个列表
)

// SequenceConfig 动作列表配置
// 既用于资源动作列表（data/assets/*.yaml），也嵌入在场景配置中
type SequenceConfig struct {
	Name               string       `yaml:"name"`
	ListType           string       `yaml:"listType"`           // pauseGameplay / runInBackground
	Skippable          *bool        `yaml:"skippable"`          // 默认 true
	AutosaveAfter      bool         `yaml:"autosaveAfter"`      // 结束后自动存档
	UnfreezePauseMenus bool         `yaml:"unfreezePauseMenus"` // 运行期间暂停菜单可交互
	MultipleInstances  bool         `yaml:"multipleInstances"`  // 资源列表是否允许多个实例同时运行
	Steps              []StepConfig `yaml:"steps"`
}

// StepConfig 单个步骤的配置
//
// 跳转目标（next/then/else/cases/default/branches/options.next）可以是：
//   - "next" 或留空：继续下一步
//   - "stop"：结束列表
//   - 步骤标签或数字索引：跳转到该步骤
type StepConfig struct {
	Label string `yaml:"label,omitempty"`
	Type  string `yaml:"type,omitempty"`

	// instruction
	Action string            `yaml:"action,omitempty"`
	Params map[string]string `yaml:"params,omitempty"`
	Next   string            `yaml:"next,omitempty"` // 执行后的去向

	// if / switch
	Variable string   `yaml:"variable,omitempty"`
	Compare  string   `yaml:"compare,omitempty"` // ==, !=, <, <=, >, >=
	Value    int      `yaml:"value,omitempty"`
	Then     string   `yaml:"then,omitempty"`
	Else     string   `yaml:"else,omitempty"`
	Cases    []string `yaml:"cases,omitempty"`
	Default  string   `yaml:"default,omitempty"`

	// parallel
	Branches []string `yaml:"branches,omitempty"`

	// choice
	Options       []ChoiceOptionConfig `yaml:"options,omitempty"`
	DefaultOption int                  `yaml:"defaultOption,omitempty"` // 跳过时选择的选项
	Override      bool                 `yaml:"override,omitempty"`      // 结束列表，玩家选择后从本步骤继续
}

// ChoiceOptionConfig 对话选项
type ChoiceOptionConfig struct {
	Text string `yaml:"text"`
	Next string `yaml:"next,omitempty"`
}

// IsSkippable 返回列表是否可跳过（未配置时为 true）
func (c *SequenceConfig) IsSkippable() bool {
	return c.Skippable == nil || *c.Skippable
}

// Labels 返回步骤标签到索引的映射
func (c *SequenceConfig) Labels() map[string]int {
	labels := make(map[string]int)
	for i, step := range c.Steps {
		if step.Label != "" {
			labels[step.Label] = i
		}
	}
	return labels
}

// LoadSequenceConfig 从文件加载动作列表配置
func LoadSequenceConfig(path string) (*SequenceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence config file %s: %w", path, err)
	}
	cfg, err := ParseSequenceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sequence config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSequenceConfig 解析 YAML 格式的动作列表配置
func ParseSequenceConfig(data []byte) (*SequenceConfig, error) {
	var cfg SequenceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sequence config YAML: %w", err)
	}

	applySequenceDefaults(&cfg)

	if err := validateSequenceConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySequenceDefaults 为缺失的可选字段设置默认值
func applySequenceDefaults(cfg *SequenceConfig) {
	if cfg.ListType == "" {
		cfg.ListType = types.ListTypePauseGameplay.String()
	}
	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		if step.Type == "" {
			step.Type = StepInstruction
		}
		if step.Type == StepIf && step.Compare == "" {
			step.Compare = "=="
		}
	}
}

// validateSequenceConfig 验证动作列表配置的完整性
func validateSequenceConfig(cfg *SequenceConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("sequence name is required")
	}
	if _, err := types.ParseListType(cfg.ListType); err != nil {
		return fmt.Errorf("sequence %s: %w", cfg.Name, err)
	}
	if len(cfg.Steps) == 0 {
		return fmt.Errorf("sequence %s: at least one step is required", cfg.Name)
	}

	labels := make(map[string]int)
	for i, step := range cfg.Steps {
		if step.Label == "" {
			continue
		}
		if _, dup := labels[step.Label]; dup {
			return fmt.Errorf("sequence %s: duplicate step label %q", cfg.Name, step.Label)
		}
		labels[step.Label] = i
	}

	for i, step := range cfg.Steps {
		if err := validateStep(step, labels, len(cfg.Steps)); err != nil {
			return fmt.Errorf("sequence %s step %d: %w", cfg.Name, i, err)
		}
	}
	return nil
}

func validateStep(step StepConfig, labels map[string]int, count int) error {
	targets := []string{}

	switch step.Type {
	case StepInstruction:
		if step.Action == "" {
			return fmt.Errorf("instruction requires an action")
		}
		targets = append(targets, step.Next)
	case StepIf:
		if step.Variable == "" {
			return fmt.Errorf("if requires a variable")
		}
		switch step.Compare {
		case "==", "!=", "<", "<=", ">", ">=":
		default:
			return fmt.Errorf("unknown comparison %q", step.Compare)
		}
		targets = append(targets, step.Then, step.Else)
	case StepSwitch:
		if step.Variable == "" {
			return fmt.Errorf("switch requires a variable")
		}
		if len(step.Cases) == 0 {
			return fmt.Errorf("switch requires at least one case")
		}
		targets = append(targets, step.Cases...)
		targets = append(targets, step.Default)
	case StepParallel:
		if len(step.Branches) < 2 {
			return fmt.Errorf("parallel requires at least two branches")
		}
		targets = append(targets, step.Branches...)
	case StepChoice:
		if len(step.Options) == 0 {
			return fmt.Errorf("choice requires at least one option")
		}
		if step.DefaultOption < 0 || step.DefaultOption >= len(step.Options) {
			return fmt.Errorf("default option %d out of range", step.DefaultOption)
		}
		for _, opt := range step.Options {
			targets = append(targets, opt.Next)
		}
	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}

	for _, target := range targets {
		if _, err := ResolveTarget(target, labels, count); err != nil {
			return err
		}
	}
	return nil
}

// ResolveTarget 把跳转目标解析为步骤索引
//
// 返回：
//   - int: 目标步骤索引；-1 表示继续下一步，-2 表示结束列表
//   - error: 标签不存在或索引越界
func ResolveTarget(target string, labels map[string]int, count int) (int, error) {
	target = strings.TrimSpace(target)
	switch target {
	case "", NextStep:
		return TargetNext, nil
	case StopList:
		return TargetStop, nil
	}
	if index, ok := labels[target]; ok {
		return index, nil
	}
	index, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("unknown step label %q", target)
	}
	if index < 0 || index >= count {
		return 0, fmt.Errorf("step index %d out of range", index)
	}
	return index, nil
}

// ResolveTarget 的特殊返回值
const (
	TargetNext = -1
	TargetStop = -2
)
