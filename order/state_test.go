package order

import "testing"

func TestStateMachineTransitions(t *testing.T) {
	sm := NewStateMachine()
	legal := []StateTransition{
		{StatusPendingInsert, StatusLive},
		{StatusPendingInsert, StatusGone},
		{StatusLive, StatusPendingCancel},
		{StatusPendingCancel, StatusGone},
		{StatusLive, StatusLive},
	}
	for _, tr := range legal {
		if err := sm.ValidateTransition(tr.From, tr.To); err != nil {
			t.Fatalf("%s -> %s should be legal: %v", tr.From, tr.To, err)
		}
	}
	illegal := []StateTransition{
		{StatusGone, StatusLive},
		{StatusPendingCancel, StatusLive},
		{StatusLive, StatusPendingInsert},
	}
	for _, tr := range illegal {
		if err := sm.ValidateTransition(tr.From, tr.To); err == nil {
			t.Fatalf("%s -> %s should be illegal", tr.From, tr.To)
		}
	}
	if !sm.IsFinalState(StatusGone) || sm.IsFinalState(StatusLive) {
		t.Fatalf("only GONE is final")
	}
	if sm.CanCancel(StatusPendingCancel) || !sm.CanCancel(StatusPendingInsert) {
		t.Fatalf("unexpected CanCancel result")
	}
	if got := len(sm.AllowedTransitions(StatusLive)); got != 2 {
		t.Fatalf("expected 2 transitions from LIVE, got %d", got)
	}
}

func TestSideHelpers(t *testing.T) {
	if SideBuy.Opposite() != SideSell || SideSell.Sign() != -1 {
		t.Fatalf("side helpers broken")
	}
	if SideBuy.String() != "BUY" || FillAndKill.String() != "FILL_AND_KILL" {
		t.Fatalf("unexpected names")
	}
	ids := NewIDGenerator()
	if ids.Next() != 1 || ids.Next() != 2 || ids.Last() != 2 {
		t.Fatalf("ids must start at 1 and increase")
	}
}
