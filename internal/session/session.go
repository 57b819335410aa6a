// Package session owns live calculator instances. A Session binds one engine
// state to one history ledger and serializes command dispatch, so each
// command fully settles before the next one starts, including under rapid
// repeated keyboard input from concurrent adapters.
package session

import (
	"sync"

	"github.com/google/uuid"

	"deskcalc/internal/engine"
	"deskcalc/internal/history"
)

// Snapshot is the renderer-facing view of a session after a command settles.
type Snapshot struct {
	ID         string           `json:"id"`
	Display    string           `json:"display"`
	Expression string           `json:"expression"`
	History    []history.Record `json:"history"`
}

// Session is one live calculator. All methods are safe for concurrent use;
// the engine state itself stays pure and lock-free underneath.
type Session struct {
	id string

	mu       sync.Mutex
	state    engine.State
	ledger   *history.Ledger
	watchers map[*Watcher]struct{}
	closed   bool
}

// New returns a standalone session with a UUID identity and UUID history
// record IDs.
func New() *Session {
	return newSession(uuid.NewString(), nil)
}

func newSession(id string, newRecordID history.IDFunc) *Session {
	return &Session{
		id:       id,
		state:    engine.NewState(),
		ledger:   history.New(newRecordID),
		watchers: make(map[*Watcher]struct{}),
	}
}

// ID returns the session's identity.
func (s *Session) ID() string {
	return s.id
}

// Dispatch applies one command, records any completed calculation in the
// ledger, notifies watchers, and returns the settled snapshot.
func (s *Session) Dispatch(cmd engine.Command) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, calc := s.state.Apply(cmd)
	s.state = next
	if calc != nil {
		s.ledger.Push(calc.Expression, calc.Result)
	}

	snap := s.snapshotLocked()
	s.notifyLocked(snap)
	return snap
}

// Snapshot returns the current view without dispatching anything.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// History returns the ledger contents, newest first.
func (s *Session) History() []history.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Records()
}

// ClearHistory empties the ledger and notifies watchers of the new view.
func (s *Session) ClearHistory() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Clear()
	snap := s.snapshotLocked()
	s.notifyLocked(snap)
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:         s.id,
		Display:    s.state.Display(),
		Expression: s.state.Expression(),
		History:    s.ledger.Records(),
	}
}

// Watcher receives snapshots as session state changes. Delivery coalesces: a
// consumer that falls behind sees the latest snapshot, not every
// intermediate one. The channel closes when the watcher is removed or the
// session shuts down.
type Watcher struct {
	ch chan Snapshot
}

// C is the snapshot feed.
func (w *Watcher) C() <-chan Snapshot {
	return w.ch
}

// Watch registers a watcher primed with the current snapshot. Watching a
// session that has been shut down yields an already-closed feed.
func (s *Session) Watch() *Watcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &Watcher{ch: make(chan Snapshot, 1)}
	if s.closed {
		close(w.ch)
		return w
	}
	s.watchers[w] = struct{}{}
	w.ch <- s.snapshotLocked()
	return w
}

// Unwatch removes w and closes its feed. Safe to call after shutdown.
func (s *Session) Unwatch(w *Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchers[w]; !ok {
		return
	}
	delete(s.watchers, w)
	close(w.ch)
}

// shutdown closes every watcher feed and rejects future watchers.
func (s *Session) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for w := range s.watchers {
		close(w.ch)
	}
	s.watchers = make(map[*Watcher]struct{})
}

// notifyLocked pushes snap to every watcher, replacing an undelivered older
// snapshot rather than blocking. Only dispatchers send on watcher channels
// and they hold s.mu, so the drain-then-send below cannot race another
// sender.
func (s *Session) notifyLocked(snap Snapshot) {
	for w := range s.watchers {
		select {
		case w.ch <- snap:
		default:
			select {
			case <-w.ch:
			default:
			}
			w.ch <- snap
		}
	}
}
