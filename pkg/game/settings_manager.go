package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// settingsVersion 设置格式版本，字段增加时不需要修改（缺失字段取默认值）
const settingsVersion = 1

// defaultBlackoutFrames 跳过过场时默认的黑屏帧数
const defaultBlackoutFrames = 12

// GameSettings 全局设置，不随存档槽位变化
type GameSettings struct {
	Version  int              `yaml:"version"`
	Audio    AudioSettings    `yaml:"audio"`
	Display  DisplaySettings  `yaml:"display"`
	Cutscene CutsceneSettings `yaml:"cutscene"`
}

// AudioSettings 音频设置，音量范围 0.0 ~ 1.0
type AudioSettings struct {
	MusicVolume  float64 `yaml:"musicVolume"`
	SoundVolume  float64 `yaml:"soundVolume"`
	MusicEnabled bool    `yaml:"musicEnabled"`
	SoundEnabled bool    `yaml:"soundEnabled"`
}

// DisplaySettings 显示设置
type DisplaySettings struct {
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// CutsceneSettings 过场与自动存档
type CutsceneSettings struct {
	BlackOutWhenSkipping bool `yaml:"blackOutWhenSkipping"` // 跳过过场时短暂黑屏
	BlackoutFrames       int  `yaml:"blackoutFrames"`       // 黑屏持续的帧数
	Autosave             bool `yaml:"autosave"`             // 列表结束后允许自动存档
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Version: settingsVersion,
		Audio: AudioSettings{
			MusicVolume:  0.7,
			SoundVolume:  0.8,
			MusicEnabled: true,
			SoundEnabled: true,
		},
		Cutscene: CutsceneSettings{
			BlackOutWhenSkipping: true,
			BlackoutFrames:       defaultBlackoutFrames,
			Autosave:             true,
		},
	}
}

// normalize 把越界的值拉回有效范围
func (s *GameSettings) normalize() {
	s.Version = settingsVersion
	s.Audio.MusicVolume = clampVolume(s.Audio.MusicVolume)
	s.Audio.SoundVolume = clampVolume(s.Audio.SoundVolume)
	if s.Cutscene.BlackoutFrames <= 0 {
		s.Cutscene.BlackoutFrames = defaultBlackoutFrames
	}
}

// SettingsManager 设置管理器
//
// 职责：
//   - 从 gdata 读取设置，缺失的字段保留默认值
//   - Update 修改并立即持久化；Override 只修改本次运行（命令行参数、环境变量）
//   - 实现 actionlist.SkipSettings
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *GameSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建设置管理器并加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 目前总是 nil，设置损坏时记录警告并使用默认值
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: %v (using defaults)", err)
	}
	return sm, nil
}

// Load 从 gdata 重新加载设置
// 数据不存在时使用默认设置；数据损坏时使用默认设置并返回错误
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上解码，旧版本中没有的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.normalize()
	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded")
	return nil
}

// Save 持久化当前设置，降级模式下什么也不做
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings 返回当前设置（只读使用，修改请用 Update 或 Override）
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// Update 修改设置并立即持久化
func (sm *SettingsManager) Update(fn func(s *GameSettings)) error {
	sm.Override(fn)
	return sm.Save()
}

// Override 只修改本次运行的设置，不写入存储
func (sm *SettingsManager) Override(fn func(s *GameSettings)) {
	fn(sm.settings)
	sm.settings.normalize()
}

// BlackOutWhenSkipping 实现 actionlist.SkipSettings
func (sm *SettingsManager) BlackOutWhenSkipping() bool {
	return sm.settings.Cutscene.BlackOutWhenSkipping
}

// BlackoutFrames 跳过过场时黑屏的帧数
func (sm *SettingsManager) BlackoutFrames() int {
	return sm.settings.Cutscene.BlackoutFrames
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
