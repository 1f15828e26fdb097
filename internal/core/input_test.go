package core

import "testing"

func TestInputFrameMove(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    Action
		ok      bool
	}{
		{"empty", nil, ActionNone, false},
		{"left", []Action{ActionLeft}, ActionLeft, true},
		{"non-move only", []Action{ActionPause, ActionRestart}, ActionNone, false},
		{"up wins over right", []Action{ActionRight, ActionUp}, ActionUp, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InputOf(tt.actions...).Move()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Move() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInputFrameCloneAndClear(t *testing.T) {
	f := InputOf(ActionDown, ActionPause)
	c := f.Clone()
	f.Clear()

	if f.Has(ActionDown) {
		t.Error("Clear should drop actions")
	}
	if !c.Has(ActionDown) || !c.Has(ActionPause) {
		t.Error("Clone should not share state with the original")
	}
	if !ActionRight.IsMove() || ActionPause.IsMove() {
		t.Error("IsMove should be true only for directions")
	}
}
