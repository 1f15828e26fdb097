// Package session runs many independent games side by side for the
// network surfaces. Every session owns its engine, so randomness and tile
// ids never leak between games.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("session: not found")

// clockSaveInterval is how much clock time a time attack session may run
// before the clock saves it.
const clockSaveInterval = time.Second

// Options configures a Manager. Zero values are usable.
type Options struct {
	// Store persists sessions after every change. Nil keeps them in memory.
	Store storage.GameStore

	Logger *log.Logger

	// NewRandom builds the RNG of each new session.
	NewRandom func() engine.Random

	// NewID generates session IDs.
	NewID func() string

	// WatchBuffer is the event buffer of each watcher.
	WatchBuffer int

	Now func() time.Time
}

// Manager owns the running sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store       storage.GameStore
	logger      *log.Logger
	newRandom   func() engine.Random
	newID       func() string
	watchBuffer int
	now         func() time.Time
}

// NewManager creates a session manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		store:       opts.Store,
		logger:      opts.Logger,
		newRandom:   opts.NewRandom,
		newID:       opts.NewID,
		watchBuffer: opts.WatchBuffer,
		now:         opts.Now,
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.newRandom == nil {
		m.newRandom = func() engine.Random {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Create starts a new game and registers it.
func (m *Manager) Create(ctx context.Context, cfg engine.Config) (*Session, error) {
	eng := engine.New(m.newRandom())
	state, err := eng.Initialize(cfg)
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:        m.newID(),
		CreatedAt: now,
		engine:    eng,
		cfg:       cfg,
		state:     state,
		updatedAt: now,
		watchers:  make(map[*Watcher]struct{}),
	}

	// Saved before it is registered, so no move can be persisted first.
	m.persist(ctx, s, state)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "id", s.ID, "mode", state.Mode, "grid", state.GridSize)
	return s, nil
}

// Resume loads a saved game from the store into a running session under
// the same ID. A session already running under that ID is returned as is.
func (m *Manager) Resume(ctx context.Context, id string) (*Session, error) {
	if s, err := m.Get(id); err == nil {
		return s, nil
	}
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	saved, err := m.store.LoadGame(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSaveNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}

	state := saved.State
	now := m.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		engine:    engine.New(m.newRandom()),
		cfg: engine.Config{
			Mode:       state.Mode,
			GridSize:   state.GridSize,
			GoalValue:  state.GoalValue,
			Spawn4Prob: state.Spawn4Prob,
			TimeLimit:  state.TimeLimit,
		},
		state:     state,
		updatedAt: saved.UpdatedAt,
		watchers:  make(map[*Watcher]struct{}),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	m.sessions[id] = s
	m.logger.Info("session restored", "id", id, "mode", state.Mode, "score", state.Score)
	return s, nil
}

// Get returns a running session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Move applies dir to the session. A move that changes nothing returns the
// unchanged state without notifying watchers. The save happens under the
// session lock, so the store always ends on the latest move.
func (m *Manager) Move(ctx context.Context, id string, dir engine.Direction) (*engine.GameState, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next, err := s.engine.Move(prev, dir)
	if err != nil {
		return prev, err
	}
	if next == prev {
		return next, nil
	}

	s.state = next
	s.updatedAt = m.now()
	s.notify(EventMoved)
	if next.Terminal() {
		m.logger.Info("session ended", "id", id, "status", next.Status, "score", next.Score)
	}
	m.persist(ctx, s, next)
	return next, nil
}

// Reset starts the session over with its original configuration.
func (m *Manager) Reset(ctx context.Context, id string) (*engine.GameState, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.engine.Initialize(s.cfg)
	if err != nil {
		return nil, err
	}
	s.state = state
	s.updatedAt = m.now()
	s.notify(EventReset)
	m.persist(ctx, s, state)
	return state, nil
}

// Delete stops the session, closes its watchers and removes its save.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	s.notify(EventDeleted)
	for w := range s.watchers {
		w.Close()
	}
	s.watchers = nil
	s.mu.Unlock()

	if m.store != nil {
		if err := m.store.DeleteGame(ctx, id); err != nil && !errors.Is(err, storage.ErrSaveNotFound) {
			return err
		}
	}
	m.logger.Info("session deleted", "id", id)
	return nil
}

// List returns every running session, most recently updated first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info()
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Tick advances the clock of every playing time attack session and
// returns how many ran out of time. A running clock is saved about once a
// second so a restart does not hand back idle time.
func (m *Manager) Tick(ctx context.Context, elapsed time.Duration) int {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	expired := 0
	for _, s := range sessions {
		if m.tick(ctx, s, elapsed) {
			expired++
		}
	}
	return expired
}

// tick advances one session and reports whether its time ran out.
func (m *Manager) tick(ctx context.Context, s *Session, elapsed time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next := s.engine.Tick(prev, elapsed)
	if next == prev {
		return false
	}
	s.state = next
	s.updatedAt = m.now()
	s.unsaved += elapsed
	s.notify(EventTicked)

	if next.Terminal() {
		m.logger.Info("session out of time", "id", s.ID, "score", next.Score)
		m.persist(ctx, s, next)
		return true
	}
	if s.unsaved >= clockSaveInterval {
		m.persist(ctx, s, next)
	}
	return false
}

// Subscribe returns a watcher for the session's events.
func (m *Manager) Subscribe(id string) (*Watcher, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	w := newWatcher(id, m.watchBuffer)
	s.watchers[w] = struct{}{}
	return w, nil
}

// Unsubscribe detaches and closes w.
func (m *Manager) Unsubscribe(w *Watcher) {
	w.Close()
	s, err := m.Get(w.SessionID())
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.watchers, w)
	s.mu.Unlock()
}

// persist saves state when a store is configured. Callers hold s.mu
// (or own s exclusively). Failures are logged and do not fail the game
// action.
func (m *Manager) persist(ctx context.Context, s *Session, state *engine.GameState) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveGame(ctx, s.ID, GameID(state.Mode), state); err != nil {
		m.logger.Warn("failed to persist session", "id", s.ID, "err", err)
		return
	}
	s.unsaved = 0
}

// RunClock ticks time attack sessions every interval until ctx is done.
func (m *Manager) RunClock(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := m.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := m.now()
			m.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}
