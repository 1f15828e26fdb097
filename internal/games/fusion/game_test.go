package fusion

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/registry"
)

func runtimeCfg() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 50,
		Seed:     42,
	}
}

// resumed returns a game of mode started from grid.
func resumed(t *testing.T, mode engine.Mode, goal int, grid engine.Grid) *Game {
	t.Helper()
	state, err := engine.FromGrid(engine.Config{Mode: mode, GridSize: len(grid), GoalValue: goal}, grid)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	g := New(mode)
	g.Resume(state)
	g.Reset(runtimeCfg())
	return g
}

func step(g *Game, actions ...core.Action) core.StepResult {
	return g.Step(core.InputOf(actions...))
}

func TestVariantsRegistered(t *testing.T) {
	for _, id := range []string{IDClassic, IDTarget, IDTimeAttack} {
		if !registry.Exists(id) {
			t.Fatalf("%s not registered", id)
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("Create(%s).ID() = %s", id, g.ID())
		}
	}
}

func TestIDFor(t *testing.T) {
	if IDFor(engine.ModeClassic) != IDClassic || IDFor(engine.ModeTarget) != IDTarget ||
		IDFor(engine.ModeTimeAttack) != IDTimeAttack {
		t.Error("IDFor does not match registry IDs")
	}
}

func TestDeterministicReset(t *testing.T) {
	g1 := New(engine.ModeClassic)
	g1.Reset(runtimeCfg())
	g2 := New(engine.ModeClassic)
	g2.Reset(runtimeCfg())

	if !g1.GameState().Grid.Equal(g2.GameState().Grid) {
		t.Errorf("Same seed should produce same initial board:\n%v\nvs\n%v",
			g1.GameState().Grid, g2.GameState().Grid)
	}
	if len(g1.GameState().Tiles) != 2 {
		t.Errorf("initial tiles = %d, want 2", len(g1.GameState().Tiles))
	}
}

func TestConfigure(t *testing.T) {
	g := New(engine.ModeClassic)
	g.Configure(engine.Config{Mode: engine.ModeTarget, GridSize: 6, GoalValue: 4096})
	g.Reset(runtimeCfg())

	s := g.GameState()
	if s.Mode != engine.ModeClassic {
		t.Errorf("mode = %s, want classic", s.Mode)
	}
	if s.GridSize != 6 || s.GoalValue != 4096 {
		t.Errorf("board = %dx%d goal %d, want 6x6 goal 4096", s.GridSize, s.GridSize, s.GoalValue)
	}
}

func TestMoveAnimatesAndBlocksInput(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 2048, engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	})

	res := step(g, core.ActionLeft)
	if !res.Moved {
		t.Fatal("move left should change the board")
	}
	if !g.Animating() || g.anim.phase != PhaseSlide {
		t.Fatal("move should start the slide phase")
	}
	if res.State.Score != 4 || res.State.Moves != 1 {
		t.Errorf("score/moves = %d/%d, want 4/1", res.State.Score, res.State.Moves)
	}

	// Merge sources slide into (0,0); the 4 slides from (3,3) to (3,0).
	var toOrigin int
	for _, sp := range g.anim.sprites {
		if sp.To == (engine.Cell{Row: 0, Col: 0}) {
			toOrigin++
		}
	}
	if toOrigin != 2 {
		t.Errorf("sprites into (0,0) = %d, want 2", toOrigin)
	}
	if !g.anim.pops[engine.Cell{Row: 0, Col: 0}] {
		t.Error("merged tile should pop")
	}

	// Input during the animation is ignored.
	for range DefaultSlideTicks - 1 {
		if step(g, core.ActionRight).Moved {
			t.Fatal("input during slide should be ignored")
		}
	}
	step(g)
	if g.anim.phase != PhasePop {
		t.Fatalf("phase = %d, want pop", g.anim.phase)
	}
	for range DefaultPopTicks {
		step(g, core.ActionDown)
	}
	if g.Animating() {
		t.Fatal("animation should be finished")
	}
	if g.GameState().MoveCount != 1 {
		t.Errorf("moves = %d, want 1", g.GameState().MoveCount)
	}

	if !step(g, core.ActionRight).Moved {
		t.Error("input after the animation should move")
	}
}

func TestNoAnimationWhenDisabled(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 2048, engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	g.SetAnimation(0, 0)

	step(g, core.ActionLeft)
	if g.Animating() {
		t.Error("zero durations should skip animation")
	}
}

func TestNoOpMoveDoesNothing(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 2048, engine.Grid{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	before := g.GameState()

	if step(g, core.ActionLeft).Moved {
		t.Error("left on a left-packed board should not move")
	}
	if g.GameState() != before || g.Animating() {
		t.Error("no-op move should keep the state and not animate")
	}
}

func TestClassicContinuesAfterGoal(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 8, engine.Grid{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	res := step(g, core.ActionLeft)
	if res.State.GameOver {
		t.Error("classic mode should keep playing after the goal")
	}
	if !g.GameState().GoalReached {
		t.Error("goal should be marked reached")
	}
}

func TestTargetWinAdvancesLevel(t *testing.T) {
	g := resumed(t, engine.ModeTarget, 128, engine.Grid{
		{64, 64, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if g.Level() != 0 {
		t.Fatalf("level = %d, want 0", g.Level())
	}

	res := step(g, core.ActionLeft)
	if !res.State.Won || !res.State.GameOver {
		t.Fatalf("state = %+v, want won", res.State)
	}

	g.Reset(runtimeCfg())
	snap := g.Snapshot()
	if snap.Level != 2 || snap.Goal != 256 {
		t.Errorf("after win: level %d goal %d, want level 2 goal 256", snap.Level, snap.Goal)
	}
	if snap.Status != engine.StatusPlaying || snap.Moves != 0 {
		t.Errorf("next level should start fresh, got %s after %d moves", snap.Status, snap.Moves)
	}
}

func TestSetLevel(t *testing.T) {
	g := New(engine.ModeTarget)
	g.SetLevel(6)
	g.Reset(runtimeCfg())
	if g.GameState().GoalValue != 8192 || g.GameState().Spawn4Prob != 0.15 {
		t.Errorf("level 7 goal/spawn4 = %d/%v", g.GameState().GoalValue, g.GameState().Spawn4Prob)
	}

	classic := New(engine.ModeClassic)
	classic.SetLevel(3)
	if classic.Level() != 0 {
		t.Error("SetLevel should only apply to target mode")
	}
}

func TestTimeAttackClock(t *testing.T) {
	g := New(engine.ModeTimeAttack)
	g.Configure(engine.Config{GridSize: 4, GoalValue: 2048, TimeLimit: time.Second})
	g.Reset(runtimeCfg())

	for range 49 {
		step(g)
	}
	if g.State().GameOver {
		t.Fatal("clock ran out early")
	}
	if got := g.GameState().TimeLeft; got != 20*time.Millisecond {
		t.Errorf("time left = %v, want 20ms", got)
	}

	res := step(g)
	if !res.State.GameOver || res.State.Won {
		t.Fatalf("state = %+v, want lost", res.State)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "TIME'S UP") {
		t.Errorf("render should show time out:\n%s", screen.String())
	}
}

func TestPauseStopsClock(t *testing.T) {
	g := New(engine.ModeTimeAttack)
	g.Configure(engine.Config{GridSize: 4, GoalValue: 2048, TimeLimit: time.Second})
	g.Reset(runtimeCfg())

	step(g, core.ActionPause)
	for range 100 {
		step(g, core.ActionLeft)
	}
	if g.GameState().TimeLeft != time.Second {
		t.Errorf("time left = %v, want 1s while paused", g.GameState().TimeLeft)
	}
	if !g.State().Paused || g.GameState().MoveCount != 0 {
		t.Error("paused game should ignore moves")
	}

	step(g, core.ActionPause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestGameOverRender(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 2048, engine.Grid{
		{2, 4},
		{4, 2},
	})

	res := step(g, core.ActionLeft)
	if res.Moved || !res.State.GameOver || res.State.Won {
		t.Fatalf("state = %+v, want lost", res.State)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "Max tile: 4") {
		t.Errorf("render should show game over:\n%s", out)
	}
}

func TestRenderTiles(t *testing.T) {
	g := resumed(t, engine.ModeClassic, 2048, engine.Grid{
		{1024, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8},
	})

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"Fusion", "Score: 0", "1024", "Goal: 2048", "┌"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestTooSmallWindow(t *testing.T) {
	g := New(engine.ModeClassic)
	cfg := runtimeCfg()
	cfg.ScreenW = 20
	g.Reset(cfg)

	if !g.State().Paused {
		t.Error("small window should pause")
	}
	if step(g, core.ActionLeft).Moved {
		t.Error("small window should ignore moves")
	}

	screen := core.NewScreen(20, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("render should ask for a larger window")
	}
}

func TestSnapshot(t *testing.T) {
	g := New(engine.ModeClassic)
	g.Reset(runtimeCfg())
	step(g)

	snap := g.Snapshot()
	if snap.Mode != engine.ModeClassic || snap.Level != 0 || snap.Goal != 2048 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Tick != 1 || snap.Status != engine.StatusPlaying {
		t.Errorf("tick/status = %d/%s", snap.Tick, snap.Status)
	}

	snap.Grid[0][0] = 99
	if g.GameState().Grid[0][0] == 99 {
		t.Error("snapshot grid should be a copy")
	}
}

func TestLevels(t *testing.T) {
	if LevelCount() != 10 {
		t.Errorf("LevelCount() = %d, want 10", LevelCount())
	}
	if names := LevelNames(); names[0] != "Warm-up" {
		t.Errorf("first level = %s, want Warm-up", names[0])
	}
	if GetLevel(-1) != nil || GetLevel(10) != nil {
		t.Error("out of range levels should be nil")
	}
}

func TestTileColor(t *testing.T) {
	if TileColor(2) == TileColor(2048) {
		t.Error("2 and 2048 should differ")
	}
	if TileColor(16384) != core.ColorBrightMagenta {
		t.Error("tiles above 8192 share one colour")
	}
}
