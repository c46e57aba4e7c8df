package app

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/decker502/actionlist/pkg/game"
	"github.com/decker502/actionlist/pkg/types"
)

const porchYAML = `
name: porch
sequences:
  - name: intro
    steps:
      - action: wait
        params: {seconds: "5"}
      - action: setVariable
        params: {name: greeted, value: "1"}
  - name: ambient
    listType: runInBackground
    steps:
      - action: wait
        params: {seconds: "5"}
      - action: setVariable
        params: {name: chimed, value: "1"}
  - name: ask
    listType: runInBackground
    steps:
      - type: choice
        options:
          - {text: "Yes", next: "yes"}
          - {text: "No", next: "no"}
      - label: "yes"
        action: setVariable
        params: {name: answer, value: "1"}
        next: stop
      - label: "no"
        action: setVariable
        params: {name: answer, value: "2"}
  - name: credits
    unfreezePauseMenus: true
    steps:
      - action: wait
        params: {seconds: "1"}
      - action: setVariable
        params: {name: rolled, value: "1"}
onStart:
  - list: intro
    skipQueue: true
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	embedded.Init(fstest.MapFS{
		"data/scenes/porch.yaml": {Data: []byte(porchYAML)},
	})
	a := newApp(game.InitGameState("app_test"), false)
	if err := a.sceneManager.LoadScene("porch"); err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	return a
}

func TestSkipCutsceneCommand(t *testing.T) {
	a := newTestApp(t)
	if a.state.Lists().Mode() != types.GameModeCutscene {
		t.Fatalf("Mode: got %v, want Cutscene", a.state.Lists().Mode())
	}

	a.execute(cmdSkipCutscene)

	if a.state.Variable("greeted") != 1 {
		t.Error("skip should run the rest of the intro")
	}
	if a.lastMode != types.GameModeFree {
		t.Errorf("lastMode: got %v, want Free", a.lastMode)
	}
	if a.statusTimer == 0 {
		t.Error("expected a status message")
	}
}

// TestPausedTimeDoesNotAdvanceScripts 暂停时脚本不推进
func TestPausedTimeDoesNotAdvanceScripts(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)

	ambient, _ := a.runtime.CurrentScene().Script("ambient")
	ambient.Start(nil, false)

	a.execute(cmdTogglePause)
	if !a.state.IsPauseMenuOpen() {
		t.Fatal("pause menu should be open")
	}
	for i := 0; i < 600; i++ {
		a.tick(1.0 / 60)
	}
	if a.state.Lists().Mode() != types.GameModePaused || a.state.TimeScale() != 0 {
		t.Fatalf("mode=%v scale=%v, want Paused and 0", a.state.Lists().Mode(), a.state.TimeScale())
	}
	if a.state.Variable("chimed") != 0 {
		t.Error("scripts advanced while paused")
	}

	a.execute(cmdTogglePause)
	for i := 0; i < 600; i++ {
		a.tick(1.0 / 60)
	}
	if a.state.Variable("chimed") != 1 {
		t.Error("scripts should finish after resuming")
	}
}

// TestUnfrozenCutsceneKeepsRunningUnderPauseMenu 允许暂停菜单交互的过场在菜单打开时继续推进
func TestUnfrozenCutsceneKeepsRunningUnderPauseMenu(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)

	a.execute(cmdTogglePause)
	if !a.musicPaused() {
		t.Error("music should pause when nothing keeps the menu unfrozen")
	}
	a.execute(cmdTogglePause)

	credits, _ := a.runtime.CurrentScene().Script("credits")
	credits.Start(nil, false)
	a.execute(cmdTogglePause)
	if a.musicPaused() {
		t.Error("music should keep playing under an unfrozen cutscene")
	}
	for i := 0; i < 120; i++ {
		a.tick(1.0 / 60)
	}
	if a.state.Variable("rolled") != 1 {
		t.Error("unfrozen cutscene should advance while the menu is open")
	}
}

func TestQuickSaveAndLoad(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)
	a.state.SetVariable("coins", 9)

	a.execute(cmdQuickSave)
	if !a.state.GetSaveManager().HasSlot(QuickSaveSlot) {
		t.Fatal("quick save slot missing")
	}

	a.state.SetVariable("coins", 0)
	a.execute(cmdQuickLoad)
	if a.state.Variable("coins") != 9 {
		t.Errorf("coins after load: got %d, want 9", a.state.Variable("coins"))
	}
	if a.status != "Loaded" {
		t.Errorf("status: got %q", a.status)
	}
}

func TestQuickLoadWithoutSave(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdQuickLoad)
	if a.status != "Load failed" {
		t.Errorf("status: got %q, want Load failed", a.status)
	}
}

func TestLayout(t *testing.T) {
	a := newTestApp(t)
	w, h := a.Layout(1920, 1080)
	if w != ScreenWidth || h != ScreenHeight {
		t.Errorf("Layout: got %dx%d", w, h)
	}
}

func TestTapSkipsCutscene(t *testing.T) {
	a := newTestApp(t)
	a.handleTap(ScreenWidth/2, ScreenHeight/2)
	if a.state.Variable("greeted") != 1 {
		t.Error("tapping during a skippable cutscene should skip it")
	}
}

func TestTapPauseZone(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)

	a.handleTap(ScreenWidth-1, 1)
	if !a.state.IsPauseMenuOpen() {
		t.Fatal("tap on the pause zone should open the pause menu")
	}
	a.handleTap(ScreenWidth-1, 1)
	if a.state.IsPauseMenuOpen() {
		t.Error("second tap should close the pause menu")
	}
}

func TestTapChoosesOption(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)

	ask, _ := a.runtime.CurrentScene().Script("ask")
	ask.Start(nil, false)
	a.tick(1.0 / 60)
	if _, ok := a.state.ActiveChoices(); !ok {
		t.Fatal("expected choices to be shown")
	}

	// 标题下面的第二行是 "No"
	a.handleTap(20, choicePanelY+2*lineHeight+4)
	for i := 0; i < 3; i++ {
		a.tick(1.0 / 60)
	}
	if got := a.state.Variable("answer"); got != 2 {
		t.Errorf("answer: got %d, want 2", got)
	}
}

func TestTapOutsideChoicesIgnored(t *testing.T) {
	a := newTestApp(t)
	a.execute(cmdSkipCutscene)

	ask, _ := a.runtime.CurrentScene().Script("ask")
	ask.Start(nil, false)
	a.tick(1.0 / 60)

	a.handleTap(20, choicePanelY-20)
	a.tick(1.0 / 60)
	if _, ok := a.state.ActiveChoices(); !ok {
		t.Error("tap above the panel should not pick an option")
	}
}

// TestShutdownSavesAndKillsLists 关闭窗口时自动存档并终止所有列表
func TestShutdownSavesAndKillsLists(t *testing.T) {
	a := newTestApp(t)
	ambient, _ := a.runtime.CurrentScene().Script("ambient")
	ambient.Start(nil, false)

	a.shutdown()

	if a.state.Lists().IsListRunning(ambient) {
		t.Error("shutdown should stop running lists")
	}
	if a.state.Lists().Mode() != types.GameModeFree {
		t.Errorf("Mode: got %v, want Free", a.state.Lists().Mode())
	}
	if !a.state.GetSaveManager().HasSlot(game.AutosaveSlot) {
		t.Error("shutdown should autosave before killing lists")
	}
}
