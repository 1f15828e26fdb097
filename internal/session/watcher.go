package session

import (
	"sync"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

// EventKind tells a watcher what happened to a session.
type EventKind string

const (
	EventMoved   EventKind = "moved"
	EventReset   EventKind = "reset"
	EventTicked  EventKind = "ticked"
	EventDeleted EventKind = "deleted"
)

// Event is pushed to watchers after each state change.
type Event struct {
	Kind      EventKind         `json:"kind"`
	SessionID string            `json:"session_id"`
	State     *engine.GameState `json:"state,omitempty"`
}

// Watcher receives the events of one session over a buffered channel.
// Send never blocks: when the buffer is full the oldest event is dropped,
// so a slow reader only ever misses intermediate states.
type Watcher struct {
	sessionID string
	events    chan Event
	done      chan struct{}
	doneOnce  sync.Once
}

const defaultWatchBuffer = 16

func newWatcher(sessionID string, buffer int) *Watcher {
	if buffer < 1 {
		buffer = defaultWatchBuffer
	}
	return &Watcher{
		sessionID: sessionID,
		events:    make(chan Event, buffer),
		done:      make(chan struct{}),
	}
}

// SessionID returns the watched session.
func (w *Watcher) SessionID() string {
	return w.sessionID
}

func (w *Watcher) send(evt Event) {
	select {
	case <-w.done:
		return
	default:
	}

	select {
	case w.events <- evt:
	default:
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- evt:
		default:
		}
	}
}

// Events returns the channel to read events from.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Done closes when the watcher is closed or its session deleted.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops delivery. Safe to call multiple times.
func (w *Watcher) Close() {
	w.doneOnce.Do(func() {
		close(w.done)
	})
}
