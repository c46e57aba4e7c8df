package config

import (
	"fmt"
	"os"

	"github.com/decker502/actionlist/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// SceneConfig 场景配置
//
// 场景持有自己的动作列表（以 name 作为场景内ID），进入场景时运行 onStart 中的列表，
// 变量满足条件时排队运行 triggers 中的列表。
type SceneConfig struct {
	Name       string            `yaml:"name"`
	Title      string            `yaml:"title"`      // 显示名称
	Player     int               `yaml:"player"`     // 进入场景时控制的角色
	Variables  map[string]int    `yaml:"variables"`  // 进入场景时的初始变量（不覆盖已有值）
	Sequences  []SequenceConfig  `yaml:"sequences"`  // 场景内的动作列表
	OnStart    []StartConfig     `yaml:"onStart"`    // 进入场景时运行的列表
	Triggers   []TriggerConfig   `yaml:"triggers"`   // 变量触发的列表
	AssetFiles []string          `yaml:"assetFiles"` // 需要加载的资源动作列表文件
	Hotspots   map[string]string `yaml:"hotspots"`   // 按键 -> 列表名称
}

// StartConfig 进入场景时运行的列表
type StartConfig struct {
	List      string `yaml:"list"`
	SkipQueue bool   `yaml:"skipQueue"` // 是否请求加入跳过队列
}

// TriggerConfig 变量触发条件
type TriggerConfig struct {
	Variable string `yaml:"variable"`
	Value    int    `yaml:"value"`
	List     string `yaml:"list"`
}

// LoadSceneConfig 从嵌入资源加载场景配置
// 路径必须以 "data/" 开头
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}
	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid scene config in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadSceneConfigFile 从文件系统加载场景配置（命令行工具使用）
func LoadSceneConfigFile(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}
	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid scene config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSceneConfig 解析 YAML 格式的场景配置
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}

	applySceneDefaults(&cfg)

	if err := validateSceneConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySceneDefaults 为缺失的可选字段设置默认值
func applySceneDefaults(cfg *SceneConfig) {
	if cfg.Title == "" {
		cfg.Title = cfg.Name
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]int)
	}
	for i := range cfg.Sequences {
		applySequenceDefaults(&cfg.Sequences[i])
	}
}

// validateSceneConfig 验证场景配置，所有引用的列表必须在场景内定义
func validateSceneConfig(cfg *SceneConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("scene name is required")
	}

	names := make(map[string]bool)
	for i := range cfg.Sequences {
		seq := &cfg.Sequences[i]
		if err := validateSequenceConfig(seq); err != nil {
			return fmt.Errorf("scene %s: %w", cfg.Name, err)
		}
		if names[seq.Name] {
			return fmt.Errorf("scene %s: duplicate sequence %q", cfg.Name, seq.Name)
		}
		names[seq.Name] = true
	}

	for _, start := range cfg.OnStart {
		if !names[start.List] {
			return fmt.Errorf("scene %s: onStart references unknown list %q", cfg.Name, start.List)
		}
	}
	for _, trigger := range cfg.Triggers {
		if trigger.Variable == "" {
			return fmt.Errorf("scene %s: trigger requires a variable", cfg.Name)
		}
		if !names[trigger.List] {
			return fmt.Errorf("scene %s: trigger references unknown list %q", cfg.Name, trigger.List)
		}
	}
	for key, list := range cfg.Hotspots {
		if !names[list] {
			return fmt.Errorf("scene %s: hotspot %s references unknown list %q", cfg.Name, key, list)
		}
	}
	return nil
}
