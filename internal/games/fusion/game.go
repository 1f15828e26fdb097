package fusion

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/registry"
)

// Registry IDs of the three variants.
const (
	IDClassic    = "fusion"
	IDTarget     = "fusion_target"
	IDTimeAttack = "fusion_time_attack"
)

// Game drives one engine game on the fixed-tick platform loop.
type Game struct {
	mode engine.Mode
	cfg  engine.Config
	eng  *engine.Engine
	tick uint64

	state *engine.GameState

	// resume, when set, replaces the fresh game on the next Reset.
	resume *engine.GameState

	level    int // target mode ladder index
	tickRate int
	anim     animator

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// New creates a game of the given mode with the default board.
func New(mode engine.Mode) *Game {
	cfg := engine.DefaultConfig()
	cfg.Mode = mode
	g := &Game{
		mode: mode,
		cfg:  cfg,
		anim: newAnimator(DefaultSlideTicks, DefaultPopTicks),
	}
	g.SetLevel(0)
	return g
}

func init() {
	registry.Register(IDClassic, "Merge tiles until the board locks up", func() registry.Game {
		return New(engine.ModeClassic)
	})
	registry.Register(IDTarget, "Reach the target tile to win, level by level", func() registry.Game {
		return New(engine.ModeTarget)
	})
	registry.Register(IDTimeAttack, "Score as much as you can before the clock runs out", func() registry.Game {
		return New(engine.ModeTimeAttack)
	})
}

// IDFor returns the registry ID of mode.
func IDFor(mode engine.Mode) string {
	switch mode {
	case engine.ModeTarget:
		return IDTarget
	case engine.ModeTimeAttack:
		return IDTimeAttack
	default:
		return IDClassic
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return IDFor(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case engine.ModeTarget:
		return "Fusion (Target)"
	case engine.ModeTimeAttack:
		return "Fusion (Time Attack)"
	default:
		return "Fusion"
	}
}

// Configure sets the board used by the next Reset. The mode stays the
// variant's own; in target mode the goal and spawn odds come from the
// selected level.
func (g *Game) Configure(cfg engine.Config) {
	cfg.Mode = g.mode
	g.cfg = cfg
	g.SetLevel(g.level)
}

// Config returns the board configuration of the next Reset.
func (g *Game) Config() engine.Config {
	return g.cfg
}

// SetAnimation sets the slide and pop durations in ticks. Zero disables
// the phase.
func (g *Game) SetAnimation(slideTicks, popTicks int) {
	g.anim = newAnimator(slideTicks, popTicks)
}

// SetLevel selects a target-mode preset (0-based) for the next Reset.
func (g *Game) SetLevel(index int) {
	lvl := GetLevel(index)
	if lvl == nil || g.mode != engine.ModeTarget {
		return
	}
	g.level = index
	g.cfg.GoalValue = lvl.Target
	g.cfg.Spawn4Prob = lvl.Spawn4
}

// Level returns the selected target-mode preset index.
func (g *Game) Level() int {
	return g.level
}

// Resume makes the next Reset continue from state instead of a new board.
// The state must come from engine.Restore (storage does that).
func (g *Game) Resume(state *engine.GameState) {
	g.resume = state
}

// GameState returns the current engine snapshot.
func (g *Game) GameState() *engine.GameState {
	return g.state
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.eng = engine.New(rand.New(rand.NewSource(seed)))
	g.tick = 0
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.anim.stop()

	// Restarting after a target win moves up the ladder.
	if g.resume == nil && g.mode == engine.ModeTarget && g.state != nil && g.state.Status == engine.StatusWon {
		g.SetLevel(g.level + 1)
	}

	if g.resume != nil {
		g.state = g.resume
		g.resume = nil
		g.cfg = engine.Config{
			Mode:       g.mode,
			GridSize:   g.state.GridSize,
			GoalValue:  g.state.GoalValue,
			Spawn4Prob: g.state.Spawn4Prob,
			TimeLimit:  g.state.TimeLimit,
		}
		for i, lvl := range Levels {
			if lvl.Target == g.state.GoalValue {
				g.level = i
				break
			}
		}
	} else {
		state, err := g.eng.Initialize(g.cfg)
		if err != nil {
			// Configure is fed validated config; fall back to the defaults.
			fallback := engine.DefaultConfig()
			fallback.Mode = g.mode
			g.cfg = fallback
			state, _ = g.eng.Initialize(fallback)
		}
		g.state = state
	}

	g.checkScreenSize()
}

// Resize adapts to a new window size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.state != nil {
		g.checkScreenSize()
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	w, h := boardDims(g.state.GridSize)
	g.tooSmall = g.screenW < w+2 || g.screenH < h+hudHeight+2
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.state.Terminal() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// The clock keeps running while tiles animate.
	g.state = g.eng.Tick(g.state, time.Second/time.Duration(g.tickRate))

	if g.anim.active() {
		g.anim.update()
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform.
	if g.state.Terminal() {
		return core.StepResult{State: g.State()}
	}

	action, ok := in.Move()
	if !ok {
		return core.StepResult{State: g.State()}
	}

	next, err := g.eng.Move(g.state, directionOf(action))
	if err != nil || next == g.state {
		return core.StepResult{State: g.State()}
	}
	g.state = next
	g.anim.start(next)

	return core.StepResult{State: g.State(), Moved: true}
}

func directionOf(a core.Action) engine.Direction {
	switch a {
	case core.ActionUp:
		return engine.DirUp
	case core.ActionDown:
		return engine.DirDown
	case core.ActionLeft:
		return engine.DirLeft
	case core.ActionRight:
		return engine.DirRight
	}
	return ""
}

// Animating reports whether a move is still being drawn.
func (g *Game) Animating() bool {
	return g.anim.active()
}

// State returns the current game status.
func (g *Game) State() core.GameStatus {
	if g.state == nil {
		return core.GameStatus{}
	}
	return core.GameStatus{
		Score:    g.state.Score,
		MaxTile:  g.state.MaxTile(),
		Moves:    g.state.MoveCount,
		GameOver: g.state.Terminal(),
		Won:      g.state.Status == engine.StatusWon,
		Paused:   g.paused || g.tooSmall,
	}
}
