package statemachine

import (
	"testing"
)

func TestCommitteeStateMachine_Flow(t *testing.T) {
	sm := NewCommitteeStateMachine(CommitteePending)

	if err := sm.TransitionTo(CommitteeActive); err != nil {
		t.Fatalf("pending -> active error = %v", err)
	}
	if err := sm.TransitionTo(CommitteeCompleted); err != nil {
		t.Fatalf("active -> completed error = %v", err)
	}
}

func TestCommitteeStateMachine_CancelFromPendingAndActive(t *testing.T) {
	for _, from := range []CommitteeStatus{CommitteePending, CommitteeActive} {
		sm := NewCommitteeStateMachine(from)
		if err := sm.TransitionTo(CommitteeCancelled); err != nil {
			t.Errorf("%s -> cancelled error = %v", from, err)
		}
	}
}

func TestCommitteeStateMachine_CompletedIsTerminal(t *testing.T) {
	sm := NewCommitteeStateMachine(CommitteeCompleted)

	for _, to := range []CommitteeStatus{CommitteePending, CommitteeActive, CommitteeCancelled} {
		if err := sm.TransitionTo(to); err == nil {
			t.Errorf("completed -> %s expected error, got nil", to)
		}
	}
}

func TestCommitteeStateMachine_NoSkipToCompleted(t *testing.T) {
	sm := NewCommitteeStateMachine(CommitteePending)
	if err := sm.TransitionTo(CommitteeCompleted); err == nil {
		t.Error("pending -> completed expected error, got nil")
	}
}

func TestCommitteeStatus_Predicates(t *testing.T) {
	if !CommitteeCompleted.IsTerminal() || !CommitteeCancelled.IsTerminal() {
		t.Error("completed/cancelled should be terminal")
	}
	if CommitteePending.IsTerminal() || CommitteeActive.IsTerminal() {
		t.Error("pending/active should not be terminal")
	}
	if !CommitteePending.IsLive() || !CommitteeActive.IsLive() {
		t.Error("pending/active should be live")
	}
	if CommitteeCancelled.IsLive() {
		t.Error("cancelled should not be live")
	}
}
