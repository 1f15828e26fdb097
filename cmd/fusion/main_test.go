package main

import (
	"testing"

	"github.com/vovakirdan/fusion2048/internal/games/fusion"
)

func TestResolveGameID(t *testing.T) {
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"", fusion.IDClassic, false},
		{"classic", fusion.IDClassic, false},
		{"target", fusion.IDTarget, false},
		{"time_attack", fusion.IDTimeAttack, false},
		{"fusion_target", fusion.IDTarget, false},
		{"tetris", "", true},
	}

	for _, tt := range tests {
		got, err := resolveGameID(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveGameID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveGameID(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestPort(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"0.0.0.0:2222":   "2222",
		"[::1]:8022":     "8022",
		"no-port-at-all": "no-port-at-all",
	}
	for addr, want := range tests {
		if got := port(addr); got != want {
			t.Errorf("port(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"list", "play", "menu", "scores", "saves", "serve"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if cmd, _, err := rootCmd.Find([]string{"saves", "delete"}); err != nil || cmd.Name() != "delete" {
		t.Error("saves delete not registered")
	}
}
