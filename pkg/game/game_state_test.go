package game

import (
	"testing"

	"github.com/decker502/actionlist/pkg/types"
)

// TestModeFollowsBlockingList 阻塞列表运行期间处于过场模式
func TestModeFollowsBlockingList(t *testing.T) {
	gs := newGameState(nil)
	seq := newFakeSequence("intro", "prologue", gs.Lists().Scene)

	seq.Start(nil, false)
	if gs.Lists().Mode() != types.GameModeCutscene {
		t.Fatalf("Mode after start: got %v, want Cutscene", gs.Lists().Mode())
	}

	seq.finish()
	if gs.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode after finish: got %v, want Free", gs.Lists().Mode())
	}
}

// TestPauseMenuFreezesTime 暂停菜单冻结游戏时间，关闭后恢复
func TestPauseMenuFreezesTime(t *testing.T) {
	gs := newGameState(nil)

	gs.SetPauseMenuOpen(true)
	if gs.Lists().Mode() != types.GameModePaused {
		t.Fatalf("Mode: got %v, want Paused", gs.Lists().Mode())
	}
	if gs.TimeScale() != 0 {
		t.Errorf("TimeScale while paused: got %v, want 0", gs.TimeScale())
	}

	gs.TogglePauseMenu()
	if gs.IsPauseMenuOpen() {
		t.Fatal("pause menu should be closed after toggle")
	}
	if gs.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", gs.Lists().Mode())
	}
	if gs.TimeScale() != 1 {
		t.Errorf("TimeScale after closing: got %v, want 1", gs.TimeScale())
	}
}

// TestVariableListeners 只有值变化时才通知监听者
func TestVariableListeners(t *testing.T) {
	gs := newGameState(nil)

	var calls []int
	gs.OnVariableChanged(func(name string, old, new int) {
		calls = append(calls, new)
	})

	gs.SetVariable("door", 1)
	gs.SetVariable("door", 1)
	gs.SetVariable("door", 2)

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("listener calls: got %v, want [1 2]", calls)
	}

	gs.InitVariable("door", 9)
	if gs.Variable("door") != 2 {
		t.Errorf("InitVariable overwrote existing value: got %d", gs.Variable("door"))
	}
	gs.InitVariable("key", 5)
	if gs.Variable("key") != 5 {
		t.Errorf("InitVariable: got %d, want 5", gs.Variable("key"))
	}

	gs.ClearVariableListeners()
	gs.SetVariable("door", 3)
	if len(calls) != 2 {
		t.Errorf("listener called after ClearVariableListeners")
	}

	names := gs.VariableNames()
	if len(names) != 2 || names[0] != "door" || names[1] != "key" {
		t.Errorf("VariableNames: got %v", names)
	}
}

// TestChooseOptionPlain 普通对话选项由等待中的步骤读取
func TestChooseOptionPlain(t *testing.T) {
	gs := newGameState(nil)
	owner := new(int)

	gs.ShowChoices(owner, []string{"yes", "no"}, false)
	if gs.Lists().Mode() != types.GameModeDialogueChoice {
		t.Fatalf("Mode: got %v, want DialogueChoice", gs.Lists().Mode())
	}
	if _, ok := gs.Selection(owner); ok {
		t.Fatal("Selection before choosing should be empty")
	}

	if gs.ChooseOption(2) {
		t.Error("ChooseOption out of range should be rejected")
	}
	if !gs.ChooseOption(1) {
		t.Fatal("ChooseOption(1) rejected")
	}
	if sel, ok := gs.Selection(owner); !ok || sel != 1 {
		t.Errorf("Selection: got (%d, %v), want (1, true)", sel, ok)
	}
	if _, ok := gs.Selection(new(int)); ok {
		t.Error("Selection for another owner should be empty")
	}

	gs.CloseChoices(owner)
	if gs.IsDialogueChoiceActive() {
		t.Error("choices still active after CloseChoices")
	}
	if gs.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", gs.Lists().Mode())
	}
}

// TestChooseOptionRedirectWithoutList 重定向选项没有列表接手时只关闭选项
func TestChooseOptionRedirectWithoutList(t *testing.T) {
	gs := newGameState(nil)

	gs.ShowChoices(nil, []string{"a", "b"}, true)
	if !gs.ChooseOption(0) {
		t.Fatal("ChooseOption(0) rejected")
	}
	if gs.IsDialogueChoiceActive() {
		t.Error("redirect choices should close after a selection")
	}
	if gs.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", gs.Lists().Mode())
	}
}

// TestBlackout 黑屏持续设置中的帧数
func TestBlackout(t *testing.T) {
	gs := newGameState(nil)
	gs.GetSettingsManager().Override(func(s *GameSettings) { s.Cutscene.BlackoutFrames = 4 })

	gs.ForceBlackout()
	for i := 0; i < 4; i++ {
		if !gs.IsBlackedOut() {
			t.Fatalf("frame %d: expected blackout", i)
		}
		gs.TickBlackout()
	}
	if gs.IsBlackedOut() {
		t.Error("blackout should end after the configured frames")
	}
}

// TestEndCutsceneStopsSoundsAndBlacksOut 跳过过场时黑屏并停止音效
func TestEndCutsceneStopsSoundsAndBlacksOut(t *testing.T) {
	gs := newGameState(nil)
	loader := newFakeLoader()
	gs.SetAudioManager(newAudioManager(loader.load, gs.GetSettingsManager()))
	gs.SetActivePlayer(2)

	seq := newFakeSequence("intro", "prologue", gs.Lists().Scene)
	seq.Start(nil, true)
	if err := gs.GetAudioManager().PlaySound("door", false, false); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	gs.SetActivePlayer(3)

	gs.Lists().EndCutscene()

	if seq.IsRunning() {
		t.Error("list should be fast-forwarded to its end")
	}
	if loader.last("door").IsPlaying() {
		t.Error("one-shot sound should be stopped")
	}
	if !gs.IsBlackedOut() {
		t.Error("expected blackout while skipping")
	}
	if gs.ActivePlayerID() != 2 {
		t.Errorf("active player: got %d, want 2", gs.ActivePlayerID())
	}
	if gs.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", gs.Lists().Mode())
	}
}

// TestSaveGameRoundTrip 存档后读档恢复变量、角色和运行中的列表
func TestSaveGameRoundTrip(t *testing.T) {
	gs := newGameState(nil)
	seq := newFakeSequence("intro", "prologue", gs.Lists().Scene)
	gs.Lists().Scene.SetResolver(sceneResolver{"prologue/intro": seq})

	gs.SceneName = "prologue"
	gs.SetVariable("coins", 7)
	gs.SetActivePlayer(1)
	seq.Start([]int{2}, false)

	if err := gs.SaveGame("slot1"); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	gs.ResetSession()
	if seq.IsRunning() {
		t.Fatal("ResetSession should kill the list")
	}
	if gs.Variable("coins") != 0 {
		t.Fatal("ResetSession should clear variables")
	}

	var loaded string
	err := gs.LoadGame("slot1", func(name string) error {
		loaded = name
		return nil
	})
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if loaded != "prologue" {
		t.Errorf("loadScene called with %q, want prologue", loaded)
	}
	if gs.Variable("coins") != 7 {
		t.Errorf("coins: got %d, want 7", gs.Variable("coins"))
	}
	if gs.ActivePlayerID() != 1 {
		t.Errorf("player: got %d, want 1", gs.ActivePlayerID())
	}
	if !seq.IsRunning() {
		t.Fatal("list running at save time should be resumed")
	}
	if got := seq.ResumeIndices(); len(got) != 1 || got[0] != 2 {
		t.Errorf("resumed at %v, want [2]", got)
	}
	if gs.Lists().Mode() != types.GameModeCutscene {
		t.Errorf("Mode: got %v, want Cutscene", gs.Lists().Mode())
	}
}

// TestAutosaveRespectsSetting 设置关闭自动存档时不写入槽位
func TestAutosaveRespectsSetting(t *testing.T) {
	gs := newGameState(nil)

	gs.GetSettingsManager().Override(func(s *GameSettings) { s.Cutscene.Autosave = false })
	if err := gs.Autosave(); err != nil {
		t.Fatalf("Autosave: %v", err)
	}
	if gs.GetSaveManager().HasSlot(AutosaveSlot) {
		t.Fatal("autosave written while disabled")
	}

	gs.GetSettingsManager().Override(func(s *GameSettings) { s.Cutscene.Autosave = true })
	if err := gs.Autosave(); err != nil {
		t.Fatalf("Autosave: %v", err)
	}
	if !gs.GetSaveManager().HasSlot(AutosaveSlot) {
		t.Error("autosave slot missing")
	}
}

// TestKillAll 包级 KillAll 终止全局管理器中的列表
func TestKillAll(t *testing.T) {
	original := globalGameState
	defer func() { globalGameState = original }()

	globalGameState = newGameState(nil)
	seq := newFakeSequence("intro", "prologue", GetGameState().Lists().Scene)
	seq.Start(nil, false)

	KillAll()

	if seq.IsRunning() {
		t.Error("KillAll should stop running lists")
	}
	if GetGameState().Lists().Scene.Len() != 0 {
		t.Errorf("records left: %d", GetGameState().Lists().Scene.Len())
	}
	if GetGameState().Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", GetGameState().Lists().Mode())
	}
}
