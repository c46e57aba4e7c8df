package actionlist

import (
	"testing"

	"github.com/decker502/actionlist/pkg/types"
)

func TestEndListOpensPendingConversation(t *testing.T) {
	m, _ := newTestManager(t)
	step := newFakeConversationStep()
	a := newFakeSequence("a", "hall", types.ListTypePauseGameplay, m.Scene)
	a.steps[1] = step
	a.Start(nil, false)

	if n := m.SetConversationPoint(step); n != 1 {
		t.Fatalf("Expected one record to accept the redirect, got %d", n)
	}
	a.finish()

	if step.opened != 1 {
		t.Errorf("Ending list should open the redirect's choices, got %d", step.opened)
	}
	if m.Scene.Find(a) == nil {
		t.Error("Record with a pending redirect must be kept")
	}
	expectMode(t, m, types.GameModeFree)
}

func TestOverrideConversationConsumedOnce(t *testing.T) {
	m, _ := newTestManager(t)
	step := newFakeConversationStep()
	a := newFakeSequence("a", "hall", types.ListTypePauseGameplay, m.Scene)
	a.steps[2] = step
	def := &fakeDefinition{name: "ambient", listType: types.ListTypeRunInBackground}

	a.Start(nil, false)
	m.Assets.Run(def, false)
	def.last().steps[4] = step

	if n := m.SetConversationPoint(step); n != 2 {
		t.Fatalf("Expected both records to accept the redirect, got %d", n)
	}

	if !m.OverrideConversation(0) {
		t.Fatal("First override should be consumed")
	}
	if m.OverrideConversation(0) {
		t.Error("Second override must not be consumed")
	}

	restarted := 0
	if len(a.startCalls) == 2 {
		restarted++
	}
	if len(def.last().startCalls) == 2 {
		restarted++
	}
	if restarted != 1 {
		t.Errorf("Exactly one list should restart, got %d", restarted)
	}
}

func TestOverrideConversationWithoutRedirect(t *testing.T) {
	m, _ := newTestManager(t)
	a := newFakeSequence("a", "hall", types.ListTypePauseGameplay, m.Scene)
	a.Start(nil, false)

	if m.OverrideConversation(0) {
		t.Error("Nothing should consume an override that was never set")
	}
	if n := m.SetConversationPoint(newFakeConversationStep()); n != 0 {
		t.Errorf("Foreign step should not be accepted, got %d", n)
	}
}
