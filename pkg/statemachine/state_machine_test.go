package statemachine

import (
	"errors"
	"testing"
)

func TestNewWithState(t *testing.T) {
	sm := NewWithState("a")
	if sm.Current() != "a" {
		t.Errorf("Current() = %v, want a", sm.Current())
	}
}

func TestTransitionTo(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	if err := sm.TransitionTo("b"); err != nil {
		t.Fatalf("TransitionTo(b) error = %v", err)
	}
	if sm.Current() != "b" {
		t.Errorf("Current() = %v, want b", sm.Current())
	}
}

func TestTransitionTo_Invalid(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	if err := sm.TransitionTo("c"); err == nil {
		t.Fatal("TransitionTo(c) expected error, got nil")
	}
	if sm.Current() != "a" {
		t.Errorf("Current() = %v, want a after failed transition", sm.Current())
	}
}

func TestOnEnterHook(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	entered := false
	sm.OnEnter("b", func(state string) error {
		entered = true
		return nil
	})

	if err := sm.TransitionTo("b"); err != nil {
		t.Fatalf("TransitionTo(b) error = %v", err)
	}
	if !entered {
		t.Error("OnEnter hook was not invoked")
	}
}

func TestOnEnterHook_Error(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	wantErr := errors.New("hook failed")
	sm.OnEnter("b", func(state string) error {
		return wantErr
	})

	if err := sm.TransitionTo("b"); !errors.Is(err, wantErr) {
		t.Errorf("TransitionTo(b) error = %v, want %v", err, wantErr)
	}
}

func TestHistory(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b").Allow("b", "c")

	_ = sm.TransitionTo("b")
	_ = sm.TransitionTo("c")

	history := sm.History()
	if len(history) != 2 {
		t.Fatalf("History() length = %d, want 2", len(history))
	}
	if history[0].From != "a" || history[0].To != "b" {
		t.Errorf("History()[0] = %v -> %v, want a -> b", history[0].From, history[0].To)
	}
}
