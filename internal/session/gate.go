// Package session tracks the current visitor's authentication state and
// broadcasts changes to subscribers.
package session

import (
	"context"
	"sync"
)

// State enumerates the resolution states of a visitor session. Unknown means
// resolution is still in flight and must be treated differently from
// Anonymous, which is a resolved "no session".
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

// String names the state for logs.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Visitor identifies a signed-in visitor.
type Visitor struct {
	ID    string
	Email string
}

// Snapshot is an immutable view of the session at one instant. Visitor is
// only meaningful when State is StateAuthenticated.
type Snapshot struct {
	State   State
	Visitor Visitor
}

// Authenticated reports whether the snapshot carries a usable visitor.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Visitor.ID != ""
}

// Source exposes the current session to dependent components. Both the
// process-wide Gate and per-request static snapshots implement it, so tests
// and handlers inject whichever fits.
type Source interface {
	Current() Snapshot
}

// Static wraps a fixed snapshot as a Source.
type Static Snapshot

// Current returns the wrapped snapshot.
func (s Static) Current() Snapshot {
	return Snapshot(s)
}

// Anonymous is a resolved, signed-out Source.
func Anonymous() Source {
	return Static(Snapshot{State: StateAnonymous})
}

// Authenticated is a resolved, signed-in Source for the given visitor.
func Authenticated(visitor Visitor) Source {
	return Static(Snapshot{State: StateAuthenticated, Visitor: visitor})
}

// Gate holds the process-wide session state. Transitions and subscriber
// notifications are serialized under one mutex so no subscriber observes a
// torn snapshot.
type Gate struct {
	mu          sync.Mutex
	snapshot    Snapshot
	subscribers map[int64]chan Snapshot
	nextID      int64
	bufferSize  int
}

// NewGate constructs a gate in the unresolved state.
func NewGate() *Gate {
	return &Gate{
		snapshot:    Snapshot{State: StateUnknown},
		subscribers: make(map[int64]chan Snapshot),
		bufferSize:  16,
	}
}

// Current returns the latest snapshot.
func (g *Gate) Current() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot
}

// Resolve records the first resolution outcome: a nil visitor resolves to
// anonymous, otherwise to authenticated.
func (g *Gate) Resolve(visitor *Visitor) {
	if visitor == nil {
		g.transition(Snapshot{State: StateAnonymous})
		return
	}
	g.transition(Snapshot{State: StateAuthenticated, Visitor: *visitor})
}

// SignIn transitions to authenticated for the given visitor.
func (g *Gate) SignIn(visitor Visitor) {
	g.transition(Snapshot{State: StateAuthenticated, Visitor: visitor})
}

// SignOut transitions to anonymous.
func (g *Gate) SignOut() {
	g.transition(Snapshot{State: StateAnonymous})
}

// Subscribe registers for change notifications. The returned channel receives
// every snapshot published after the call; the cancel function (or the
// context) releases the subscription. Slow subscribers drop notifications
// rather than block the publisher.
func (g *Gate) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	stream := make(chan Snapshot, g.bufferSize)

	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.subscribers[id] = stream
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return stream, cancel
}

func (g *Gate) transition(next Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snapshot == next {
		return
	}
	g.snapshot = next
	for _, stream := range g.subscribers {
		select {
		case stream <- next:
		default:
		}
	}
}
