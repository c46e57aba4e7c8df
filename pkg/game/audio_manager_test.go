package game

import (
	"errors"
	"testing"
)

func TestPlaySoundUsesSoundVolume(t *testing.T) {
	loader := newFakeLoader()
	am := newAudioManager(loader.load, nil)

	if err := am.PlaySound("door", false, false); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	p := loader.last("door")
	if p == nil || !p.playing {
		t.Fatal("sound should be playing")
	}
	if p.volume != 0.8 {
		t.Errorf("volume: got %v, want default 0.8", p.volume)
	}
	if p.rewinds != 1 {
		t.Errorf("rewinds: got %d, want 1", p.rewinds)
	}
}

// TestStopNonMusicSounds 只停止单次音效
func TestStopNonMusicSounds(t *testing.T) {
	loader := newFakeLoader()
	am := newAudioManager(loader.load, nil)

	_ = am.PlaySound("door", false, false)
	_ = am.PlaySound("wind", true, false)
	_ = am.PlaySound("theme", false, true)

	am.StopNonMusicSounds()

	if loader.last("door").playing {
		t.Error("one-shot sound should stop")
	}
	if !loader.last("wind").playing {
		t.Error("looping sound should keep playing")
	}
	if !loader.last("theme").playing {
		t.Error("music should keep playing")
	}
	if got := am.ActiveSounds(); len(got) != 2 {
		t.Errorf("ActiveSounds: got %v", got)
	}
}

// TestMusicSwitching 同一时间只有一首背景音乐
func TestMusicSwitching(t *testing.T) {
	loader := newFakeLoader()
	sm, _ := NewSettingsManager(nil)
	am := newAudioManager(loader.load, sm)

	_ = am.PlaySound("theme", false, true)
	_ = am.PlaySound("theme", false, true)
	if loader.loads != 1 {
		t.Errorf("replaying the same music should not reload, loads=%d", loader.loads)
	}
	if loader.last("theme").volume != sm.GetSettings().Audio.MusicVolume {
		t.Errorf("music volume: got %v", loader.last("theme").volume)
	}

	_ = am.PlaySound("battle", false, true)
	if loader.last("theme").playing {
		t.Error("previous music should stop")
	}
	if am.CurrentMusic() != "battle" {
		t.Errorf("CurrentMusic: got %q", am.CurrentMusic())
	}

	am.PauseMusic()
	if loader.last("battle").playing {
		t.Error("PauseMusic should pause")
	}
	am.ResumeMusic()
	if !loader.last("battle").playing {
		t.Error("ResumeMusic should resume")
	}

	am.StopMusic()
	if am.CurrentMusic() != "" {
		t.Error("StopMusic should clear current music")
	}
}

// TestDisabledSettings 关闭开关后不再加载
func TestDisabledSettings(t *testing.T) {
	loader := newFakeLoader()
	sm, _ := NewSettingsManager(nil)
	sm.Override(func(s *GameSettings) {
		s.Audio.SoundEnabled = false
		s.Audio.MusicEnabled = false
	})
	am := newAudioManager(loader.load, sm)

	_ = am.PlaySound("door", false, false)
	_ = am.PlaySound("theme", false, true)
	if loader.loads != 0 {
		t.Errorf("loads: got %d, want 0", loader.loads)
	}
}

func TestPlaySoundLoadError(t *testing.T) {
	loader := newFakeLoader()
	loader.err = errors.New("missing")
	am := newAudioManager(loader.load, nil)

	if err := am.PlaySound("door", false, false); err == nil {
		t.Error("expected load error")
	}
	if err := am.PlaySound("theme", false, true); err == nil {
		t.Error("expected load error for music")
	}
}

// TestVolumeChangesApplyToPlayingSounds 修改音量立即生效
func TestVolumeChangesApplyToPlayingSounds(t *testing.T) {
	loader := newFakeLoader()
	sm, _ := NewSettingsManager(nil)
	am := newAudioManager(loader.load, sm)

	_ = am.PlaySound("wind", true, false)
	_ = am.PlaySound("theme", false, true)

	am.SetSoundVolume(0.3)
	am.SetMusicVolume(0.4)

	if loader.last("wind").volume != 0.3 {
		t.Errorf("sound volume: got %v", loader.last("wind").volume)
	}
	if loader.last("theme").volume != 0.4 {
		t.Errorf("music volume: got %v", loader.last("theme").volume)
	}
	if sm.GetSettings().Audio.SoundVolume != 0.3 || sm.GetSettings().Audio.MusicVolume != 0.4 {
		t.Error("volume settings not updated")
	}
}

// TestFinishedSoundsArePruned 播放结束的单次音效在下一次播放时被清理
func TestFinishedSoundsArePruned(t *testing.T) {
	loader := newFakeLoader()
	am := newAudioManager(loader.load, nil)

	_ = am.PlaySound("step", false, false)
	loader.last("step").playing = false
	_ = am.PlaySound("step", false, false)

	if len(am.markers) != 1 {
		t.Errorf("markers: got %d, want 1", len(am.markers))
	}

	am.StopAll()
	if len(am.ActiveSounds()) != 0 {
		t.Error("StopAll should stop everything")
	}
}
