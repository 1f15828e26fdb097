package session

import (
	"sync"
	"time"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

// Session is one running game. Its engine and state are only touched
// under mu; callers get immutable snapshots through State.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	engine    *engine.Engine
	cfg       engine.Config
	state     *engine.GameState
	updatedAt time.Time
	unsaved   time.Duration // clock time since the last save
	watchers  map[*Watcher]struct{}
}

// Info is the listing view of a session.
type Info struct {
	ID        string        `json:"id"`
	GameID    string        `json:"game_id"`
	Mode      engine.Mode   `json:"mode"`
	Status    engine.Status `json:"status"`
	Score     int           `json:"score"`
	MaxTile   int           `json:"max_tile"`
	Moves     int           `json:"moves"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// State returns the current snapshot. Snapshots are never mutated.
func (s *Session) State() *engine.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info returns the listing view of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		GameID:    GameID(s.state.Mode),
		Mode:      s.state.Mode,
		Status:    s.state.Status,
		Score:     s.state.Score,
		MaxTile:   s.state.MaxTile(),
		Moves:     s.state.MoveCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}

// notify must be called with mu held.
func (s *Session) notify(kind EventKind) {
	evt := Event{Kind: kind, SessionID: s.ID, State: s.state}
	for w := range s.watchers {
		w.send(evt)
	}
}

// GameID returns the registry ID of the variant playing mode.
func GameID(mode engine.Mode) string {
	if mode == engine.ModeClassic || mode == "" {
		return "fusion"
	}
	return "fusion_" + string(mode)
}
