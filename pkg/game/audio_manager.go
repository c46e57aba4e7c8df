package game

import (
	"fmt"
	"log"
)

// soundPlayer 是 audio.Player 中 AudioManager 用到的部分
type soundPlayer interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

// soundLoader 按名称创建播放器
type soundLoader func(name string, loop bool) (soundPlayer, error)

// soundMarker 一个正在播放（或曾经播放）的声音
type soundMarker struct {
	name   string
	player soundPlayer
	loop   bool
	music  bool
}

// AudioManager 音频管理器
// 职责：
//   - 统一管理动作列表中所有音效和背景音乐的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 跳过过场时停止所有非循环、非音乐的声音（actionlist.SoundStopper）
//
// 每次播放都会留下一个 soundMarker，单次音效播放结束后在下一次播放时被清理。
type AudioManager struct {
	load            soundLoader
	settingsManager *SettingsManager // 设置管理器（用于读取音量设置，可为 nil）
	markers         []*soundMarker
	currentMusic    *soundMarker
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件），为 nil 时所有播放请求失败
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	load := func(name string, loop bool) (soundPlayer, error) {
		if rm == nil {
			return nil, fmt.Errorf("no resource manager")
		}
		player, err := rm.LoadSound(name, loop)
		if err != nil {
			return nil, err
		}
		return player, nil
	}
	return newAudioManager(load, sm)
}

func newAudioManager(load soundLoader, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		load:            load,
		settingsManager: sm,
	}
}

// PlaySound 播放声音
// 音乐同一时间只有一首，使用 MusicVolume；其它声音使用 SoundVolume
//
// 参数：
//   - name: 声音ID
//   - loop: 是否循环播放（音乐总是循环）
//   - music: 是否作为背景音乐播放
func (am *AudioManager) PlaySound(name string, loop, music bool) error {
	if music {
		return am.playMusic(name)
	}

	if am.settingsManager != nil && !am.settingsManager.GetSettings().Audio.SoundEnabled {
		return nil // 音效已禁用
	}

	am.pruneFinished()

	player, err := am.load(name, loop)
	if err != nil {
		return fmt.Errorf("failed to load sound %s: %w", name, err)
	}
	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", name, err)
	}
	player.Play()

	am.markers = append(am.markers, &soundMarker{name: name, player: player, loop: loop})
	return nil
}

func (am *AudioManager) playMusic(name string) error {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().Audio.MusicEnabled {
		return nil // 音乐已禁用
	}

	// 如果已经在播放同一首音乐，不重复播放
	if am.currentMusic != nil && am.currentMusic.name == name && am.currentMusic.player.IsPlaying() {
		return nil
	}

	am.StopMusic()

	player, err := am.load(name, true)
	if err != nil {
		return fmt.Errorf("failed to load music %s: %w", name, err)
	}
	volume := am.getMusicVolume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind music %s: %v", name, err)
	}
	player.Play()

	marker := &soundMarker{name: name, player: player, loop: true, music: true}
	am.markers = append(am.markers, marker)
	am.currentMusic = marker

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", name, volume)
	return nil
}

// StopNonMusicSounds 停止所有非循环、非音乐的声音
func (am *AudioManager) StopNonMusicSounds() {
	kept := am.markers[:0]
	stopped := 0
	for _, m := range am.markers {
		if m.loop || m.music {
			kept = append(kept, m)
			continue
		}
		m.player.Pause()
		stopped++
	}
	for i := len(kept); i < len(am.markers); i++ {
		am.markers[i] = nil
	}
	am.markers = kept
	if stopped > 0 {
		log.Printf("[AudioManager] Stopped %d sounds", stopped)
	}
}

// StopAll 停止所有声音（会话结束时调用）
func (am *AudioManager) StopAll() {
	for _, m := range am.markers {
		m.player.Pause()
	}
	am.markers = nil
	am.currentMusic = nil
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic == nil {
		return
	}
	am.currentMusic.player.Pause()
	am.removeMarker(am.currentMusic)
	am.currentMusic = nil
}

// PauseMusic 暂停当前背景音乐
func (am *AudioManager) PauseMusic() {
	if am.currentMusic != nil {
		am.currentMusic.player.Pause()
	}
}

// ResumeMusic 恢复当前背景音乐
func (am *AudioManager) ResumeMusic() {
	if am.currentMusic == nil {
		return
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().Audio.MusicEnabled {
		return
	}
	am.currentMusic.player.Play()
}

// CurrentMusic 返回当前背景音乐ID，没有时为空
func (am *AudioManager) CurrentMusic() string {
	if am.currentMusic == nil {
		return ""
	}
	return am.currentMusic.name
}

// ActiveSounds 返回仍在播放的声音ID（调试显示用）
func (am *AudioManager) ActiveSounds() []string {
	names := make([]string, 0, len(am.markers))
	for _, m := range am.markers {
		if m.player.IsPlaying() {
			names = append(names, m.name)
		}
	}
	return names
}

// SetMusicVolume 设置音乐音量，立即应用到当前音乐
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetMusicVolume(volume float64) {
	am.updateSettings(func(s *GameSettings) { s.Audio.MusicVolume = volume })
	if am.currentMusic != nil {
		am.currentMusic.player.SetVolume(clampVolume(volume))
	}
}

// SetSoundVolume 设置音效音量，立即应用到正在播放的音效
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetSoundVolume(volume float64) {
	am.updateSettings(func(s *GameSettings) { s.Audio.SoundVolume = volume })
	for _, m := range am.markers {
		if !m.music {
			m.player.SetVolume(clampVolume(volume))
		}
	}
}

// updateSettings 音量修改写入设置
func (am *AudioManager) updateSettings(fn func(s *GameSettings)) {
	if am.settingsManager == nil {
		return
	}
	if err := am.settingsManager.Update(fn); err != nil {
		log.Printf("[AudioManager] Warning: failed to save audio settings: %v", err)
	}
}

// pruneFinished 清理已经播放结束的单次音效
func (am *AudioManager) pruneFinished() {
	kept := am.markers[:0]
	for _, m := range am.markers {
		if m.loop || m.music || m.player.IsPlaying() {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(am.markers); i++ {
		am.markers[i] = nil
	}
	am.markers = kept
}

func (am *AudioManager) removeMarker(target *soundMarker) {
	for i, m := range am.markers {
		if m == target {
			am.markers = append(am.markers[:i], am.markers[i+1:]...)
			return
		}
	}
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().Audio.MusicVolume
	}
	return 0.7 // 默认值
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().Audio.SoundVolume
	}
	return 0.8 // 默认值
}
