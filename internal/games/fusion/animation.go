package fusion

import (
	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
)

// Animation defaults in ticks.
const (
	DefaultSlideTicks = 8 // ~133ms at 60fps
	DefaultPopTicks   = 6 // ~100ms at 60fps
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// sprite is a tile drawn between cells during the slide phase.
type sprite struct {
	Value    int
	From     engine.Cell
	To       engine.Cell
	Progress float64 // 0.0 → 1.0
}

// animator sequences the phases of one move. It reads the lineage the
// engine records (PreviousTiles, Consumed, MergedFrom, DelayAppearance) and
// never feeds anything back into the game state.
type animator struct {
	slideTicks int
	popTicks   int

	phase   AnimationPhase
	ticks   int
	sprites []sprite

	// pops are the cells that flash in the pop phase: merge results and
	// the delayed spawn.
	pops map[engine.Cell]bool
	// hidden cells are not drawn from the grid during the slide phase.
	hidden map[engine.Cell]bool
}

func newAnimator(slideTicks, popTicks int) animator {
	return animator{slideTicks: max(0, slideTicks), popTicks: max(0, popTicks)}
}

func (a *animator) active() bool {
	return a.phase != PhaseNone
}

func (a *animator) stop() {
	a.phase = PhaseNone
	a.ticks = 0
	a.sprites = nil
	a.pops = nil
	a.hidden = nil
}

// start builds the animation for the move that produced s.
func (a *animator) start(s *engine.GameState) {
	a.stop()

	prev := make(map[int]engine.Tile, len(s.PreviousTiles))
	for _, t := range s.PreviousTiles {
		prev[t.ID] = t
	}

	a.pops = make(map[engine.Cell]bool)
	a.hidden = make(map[engine.Cell]bool)

	for _, t := range s.Tiles {
		switch {
		case t.DelayAppearance:
			a.hidden[t.Cell()] = true
			a.pops[t.Cell()] = true
		case t.Merged():
			// The sources slide in from Consumed; the result pops after.
			a.hidden[t.Cell()] = true
			a.pops[t.Cell()] = true
		default:
			from := t.Cell()
			if p, ok := prev[t.ID]; ok {
				from = p.Cell()
			}
			a.hidden[t.Cell()] = true
			a.sprites = append(a.sprites, sprite{Value: t.Value, From: from, To: t.Cell()})
		}
	}
	for _, c := range s.Consumed {
		if c.TargetRow == nil || c.TargetCol == nil {
			continue
		}
		to := engine.Cell{Row: *c.TargetRow, Col: *c.TargetCol}
		a.sprites = append(a.sprites, sprite{Value: c.Value, From: c.Cell(), To: to})
	}

	a.enter(PhaseSlide)
}

// enter switches to phase, skipping phases with no duration or content.
func (a *animator) enter(phase AnimationPhase) {
	a.ticks = 0
	if phase == PhaseSlide && (a.slideTicks == 0 || len(a.sprites) == 0) {
		phase = PhasePop
	}
	if phase == PhasePop && (a.popTicks == 0 || len(a.pops) == 0) {
		a.stop()
		return
	}
	a.phase = phase
	if phase == PhasePop {
		a.sprites = nil
		a.hidden = nil
	}
}

// update advances the animation one tick.
func (a *animator) update() {
	if !a.active() {
		return
	}
	a.ticks++

	duration := a.popTicks
	if a.phase == PhaseSlide {
		duration = a.slideTicks
	}

	progress := core.ClampF(float64(a.ticks)/float64(duration), 0, 1)
	for i := range a.sprites {
		a.sprites[i].Progress = progress
	}

	if a.ticks >= duration {
		if a.phase == PhaseSlide {
			a.enter(PhasePop)
			return
		}
		a.stop()
	}
}

// popping reports whether c flashes this tick.
func (a *animator) popping(c engine.Cell) bool {
	return a.phase == PhasePop && a.pops[c]
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// position interpolates the sprite between its cells.
func (s sprite) position() (row, col float64) {
	t := easeOutQuad(s.Progress)
	row = float64(s.From.Row) + float64(s.To.Row-s.From.Row)*t
	col = float64(s.From.Col) + float64(s.To.Col-s.From.Col)*t
	return row, col
}
