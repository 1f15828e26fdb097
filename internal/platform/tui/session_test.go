package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/games/fusion"
)

func send(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = sm
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestSessionPlayAndReturn(t *testing.T) {
	m := NewSessionModel(testEnv(t), testRuntime())

	m = send(t, m, keyEnter)
	if !m.InGame() || m.game.game.ID() != fusion.IDClassic {
		t.Fatal("enter on the first item should start classic")
	}

	m = send(t, m, runeKey("p"), TickMsg{})
	if !m.game.status.Paused {
		t.Fatal("game should be paused")
	}

	m = send(t, m, keyEsc)
	if m.InGame() || m.view != viewMenu {
		t.Error("esc while paused should return to the menu")
	}
}

func TestSessionTargetLevelSelect(t *testing.T) {
	m := NewSessionModel(testEnv(t), testRuntime())

	m = send(t, m, keyDown, keyEnter)
	if m.view != viewLevels {
		t.Fatalf("view = %v, want level select", m.view)
	}

	m = send(t, m, keyDown, keyDown, keyEnter)
	if !m.InGame() {
		t.Fatal("selecting a level should start the game")
	}
	fg := m.game.game.(*fusion.Game)
	if fg.Level() != 2 || fg.Config().GoalValue != fusion.Levels[2].Target {
		t.Errorf("level %d goal %d, want level 2", fg.Level(), fg.Config().GoalValue)
	}
}

func TestSessionLevelSelectBack(t *testing.T) {
	m := NewSessionModel(testEnv(t), testRuntime())
	m = send(t, m, keyDown, keyEnter, keyEsc)
	if m.view != viewMenu {
		t.Errorf("view = %v, want menu", m.view)
	}
}

func TestSessionScoreboard(t *testing.T) {
	env := testEnv(t)
	if _, err := env.Scores.SaveScore(fusion.IDClassic, 1200, 128, 90); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	m := NewSessionModel(env, testRuntime())
	m = send(t, m, keyTab)
	if m.view != viewScores {
		t.Fatalf("view = %v, want scoreboard", m.view)
	}
	if len(m.scores.scores) != 1 || m.scores.stats == nil || m.scores.stats.GamesCount != 1 {
		t.Errorf("scoreboard should load classic scores, got %+v", m.scores.scores)
	}

	m = send(t, m, keyEsc)
	if m.view != viewMenu {
		t.Errorf("view = %v, want menu", m.view)
	}
}

func TestSessionResumeSave(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	state, err := engine.FromGrid(engine.Config{Mode: engine.ModeTarget, GridSize: 4, GoalValue: 512}, engine.Grid{
		{2, 2, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 8, 0},
		{0, 0, 0, 16},
	})
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	if err := env.Saves.SaveGame(ctx, "keep", fusion.IDTarget, state); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	m := NewSessionModel(env, testRuntime())
	m = send(t, m, runeKey("v"))
	if m.view != viewSaves || len(m.saves.saves) != 1 {
		t.Fatalf("view = %v with %d saves", m.view, len(m.saves.saves))
	}

	m = send(t, m, keyEnter)
	if !m.InGame() {
		t.Fatal("enter should resume the save")
	}
	if m.game.SaveID() != "keep" {
		t.Errorf("save ID = %q, want keep", m.game.SaveID())
	}
	fg := m.game.game.(*fusion.Game)
	if fg.ID() != fusion.IDTarget || !fg.GameState().Grid.Equal(state.Grid) {
		t.Error("resumed game should continue the saved board")
	}
	if fg.Level() != 2 {
		t.Errorf("level = %d, want 2 (goal 512)", fg.Level())
	}
}

func TestSessionDeleteSave(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	state, err := engine.FromGrid(engine.DefaultConfig(), engine.Grid{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2},
	})
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	if err := env.Saves.SaveGame(ctx, "gone", fusion.IDClassic, state); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	m := NewSessionModel(env, testRuntime())
	m = send(t, m, runeKey("v"), runeKey("x"))
	if len(m.saves.saves) != 0 {
		t.Errorf("got %d saves after delete", len(m.saves.saves))
	}
	if saves, _ := env.Saves.ListSaves(ctx); len(saves) != 0 {
		t.Errorf("store still has %d saves", len(saves))
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(testEnv(t), testRuntime())
	next, cmd := m.Update(runeKey("q"))
	if cmd == nil || next.(SessionModel).View() != "" {
		t.Error("q at the menu should quit")
	}
}

func TestScoreboardCyclesModes(t *testing.T) {
	env := testEnv(t)
	if _, err := env.Scores.SaveScore(fusion.IDTimeAttack, 300, 32, 20); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	m := NewScoreboardModel(env.Scores, 100, 30)
	if len(m.scores) != 0 {
		t.Fatalf("classic should have no scores, got %d", len(m.scores))
	}

	// Wraps from the first mode to the last.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.modes[m.mode].ID != fusion.IDTimeAttack || len(m.scores) != 1 {
		t.Errorf("mode %s with %d scores, want time attack with 1", m.modes[m.mode].ID, len(m.scores))
	}
	if !strings.Contains(m.View(), "Best tile  32") {
		t.Error("stats panel should show the best tile")
	}
}
