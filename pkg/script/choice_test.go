package script

import (
	"testing"

	"github.com/decker502/actionlist/pkg/types"
)

const choiceSequence = `
name: ask
steps:
  - type: choice
    defaultOption: 0
    options:
      - text: "Stay"
        next: stay
      - text: "Leave"
        next: leave
  - label: stay
    action: setVariable
    params: {name: answer, value: "1"}
  - type: if
    variable: answer
    then: stop
    else: stop
  - label: leave
    action: setVariable
    params: {name: answer, value: "2"}
`

func TestChoiceWaitsForSelection(t *testing.T) {
	te := newTestEnv(t)
	host := &fakeHost{}
	s := te.build(t, choiceSequence).NewSceneScript("ask", "hall", host)
	s.Start(nil, false)

	te.tickN(3, 0.1)
	if len(te.dialogue.shown) != 1 || te.dialogue.redirects[0] {
		t.Fatalf("Expected choices shown once without redirect, got %v", te.dialogue.shown)
	}
	if te.vars["answer"] != 0 {
		t.Fatal("List must wait for the player")
	}

	te.dialogue.selection = 1
	te.tickN(2, 0.1)
	if te.vars["answer"] != 2 {
		t.Errorf("Expected answer 2, got %d", te.vars["answer"])
	}
	if te.dialogue.closed != 1 {
		t.Errorf("Expected choices closed once, got %d", te.dialogue.closed)
	}
}

func TestChoiceWithoutDialogueTakesDefault(t *testing.T) {
	te := newTestEnv(t)
	te.env.Dialogue = nil
	s := te.build(t, choiceSequence).NewSceneScript("ask", "hall", &fakeHost{})
	s.Start(nil, false)
	te.tickN(3, 0.1)

	if te.vars["answer"] != 1 {
		t.Errorf("Expected default option, got answer=%d", te.vars["answer"])
	}
}

func TestChoiceSkipClosesAndTakesDefault(t *testing.T) {
	te := newTestEnv(t)
	host := &fakeHost{}
	s := te.build(t, choiceSequence).NewSceneScript("ask", "hall", host)
	s.Start(nil, false)
	te.tickN(1, 0.1)

	s.Skip(s.ResumeIndices())

	if te.vars["answer"] != 1 || te.dialogue.closed != 1 {
		t.Errorf("Expected default option and closed dialogue, answer=%d closed=%d", te.vars["answer"], te.dialogue.closed)
	}
	if host.ended != 1 {
		t.Errorf("Expected list ended, got %d", host.ended)
	}
}

// TestChoiceOverrideRedirectsThroughManager 重定向选项：列表结束，玩家选择后从选项步骤继续
func TestChoiceOverrideRedirectsThroughManager(t *testing.T) {
	te := newTestEnv(t)
	s := te.sceneScript(t, "hall", `
name: redirect
steps:
  - action: setVariable
    params: {name: visited, value: "1"}
  - type: choice
    override: true
    options:
      - text: "Again"
        next: stop
      - text: "Done"
        next: done
  - label: done
    action: setVariable
    params: {name: done, value: "1"}
`)
	s.Start(nil, false)
	if te.manager.Mode() != types.GameModeCutscene {
		t.Fatalf("Expected cutscene, got %v", te.manager.Mode())
	}

	te.tickN(2, 0.1)
	if s.IsRunning() {
		t.Fatal("Override choice should end the list")
	}
	if len(te.dialogue.redirects) != 1 || !te.dialogue.redirects[0] {
		t.Fatalf("Expected redirected choices opened by the manager, got %v", te.dialogue.redirects)
	}
	if te.manager.Mode() != types.GameModeFree {
		t.Errorf("Expected Free while choosing (menus report no choice), got %v", te.manager.Mode())
	}

	if !te.manager.OverrideConversation(1) {
		t.Fatal("Expected the pending conversation to be consumed")
	}
	if !s.IsRunning() {
		t.Fatal("List should resume from the choice step")
	}
	te.tickN(3, 0.1)
	if te.vars["done"] != 1 {
		t.Errorf("Expected option 1 to jump to done, got %d", te.vars["done"])
	}
	if te.manager.OverrideConversation(0) {
		t.Error("Conversation must only be consumed once")
	}
}

func TestChoiceOverrideWithoutOwnerFallsBackToDialogue(t *testing.T) {
	te := newTestEnv(t)
	// 没有注册到管理器的列表：没有记录接受重定向，按普通选项处理
	s := te.build(t, `
name: orphan
steps:
  - type: choice
    override: true
    options:
      - text: "Only"
`).NewSceneScript("orphan", "hall", &fakeHost{})
	s.Start(nil, false)
	te.tickN(1, 0.1)

	if len(te.dialogue.redirects) != 1 || te.dialogue.redirects[0] {
		t.Errorf("Expected plain choices, got %v", te.dialogue.redirects)
	}
}
