// internal/service/status.go
package service

import (
	"sync"
)

// StatusBroadcast is a single-slot, last-value-wins broadcast of the shared
// online flag. Every observer (WebSocket feed, sensor reporter, health loop)
// sees the latest value; intermediate flips may be coalesced and no history
// is kept. Subscribers receive on buffered channels and never block Set.
type StatusBroadcast struct {
	mu     sync.Mutex
	online bool
	subs   map[chan bool]struct{}
}

// NewStatusBroadcast creates a broadcast with the given initial value.
func NewStatusBroadcast(initial bool) *StatusBroadcast {
	return &StatusBroadcast{
		online: initial,
		subs:   map[chan bool]struct{}{},
	}
}

// Get returns the current value.
func (b *StatusBroadcast) Get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online
}

// Set updates the value and notifies subscribers. Unchanged values are not
// re-broadcast. A subscriber with a full channel has its stale pending value
// replaced by the new one.
func (b *StatusBroadcast) Set(online bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if online == b.online {
		return
	}
	b.online = online

	for ch := range b.subs {
		select {
		case ch <- online:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- online:
			default:
			}
		}
	}
}

// Subscribe registers a new observer. The returned channel immediately
// carries the current value, then one value per change. Call the cancel
// function to unsubscribe.
func (b *StatusBroadcast) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	ch <- b.online
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
