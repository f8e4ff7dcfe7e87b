// Package notify delivers change signals to observers of catalog
// identifiers.
//
// A signal carries only the identifier that changed. Subscribers re-query
// the Router to see the new state.
package notify

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Handler receives the identifier that changed.
type Handler func(uri string)

// Subscription is a registered observer. Close removes it from the bus.
type Subscription struct {
	ID  uuid.UUID
	URI string

	bus *Bus
	fn  Handler
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.bus.remove(s.ID)
}

// Bus is a synchronous change-notification dispatcher.
// The zero value is not usable; construct with NewBus.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for changes to uri, to any identifier nested
// under uri, and to any ancestor of uri.
func (b *Bus) Subscribe(uri string, fn Handler) *Subscription {
	sub := &Subscription{
		ID:  uuid.New(),
		URI: normalize(uri),
		bus: b,
		fn:  fn,
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub
}

// SubscribeChan is Subscribe with delivery into a channel of capacity one.
// Signals that arrive while one is pending are coalesced.
func (b *Bus) SubscribeChan(uri string) (*Subscription, <-chan string) {
	ch := make(chan string, 1)
	sub := b.Subscribe(uri, func(changed string) {
		select {
		case ch <- changed:
		default:
		}
	})
	return sub, ch
}

// Notify signals every subscriber interested in uri, in registration
// order, and returns how many were signalled. Interested subscribers are
// those registered on uri itself, on an ancestor of uri, or on a
// descendant of uri.
func (b *Bus) Notify(uri string) int {
	changed := normalize(uri)

	b.mu.RLock()
	var targets []*Subscription
	for _, sub := range b.subs {
		if sub.matches(changed) {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.fn(changed)
	}
	return len(targets)
}

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.ID == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (s *Subscription) matches(changed string) bool {
	switch {
	case s.URI == changed:
		return true
	case isAncestor(s.URI, changed):
		return true
	case isAncestor(changed, s.URI):
		return true
	}
	return false
}

// isAncestor reports whether child is nested under parent.
func isAncestor(parent, child string) bool {
	return strings.HasPrefix(child, parent+"/")
}

func normalize(uri string) string {
	return strings.TrimRight(uri, "/")
}
