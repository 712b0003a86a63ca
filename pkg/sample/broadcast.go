package sample

import "sync"

// Broadcast fans records out to a dynamic set of listeners. Publishing
// iterates over a snapshot copy of the set taken under the lock, so a
// listener detaching itself during delivery cannot corrupt the iteration.
type Broadcast struct {
	mu        sync.Mutex
	listeners map[Listener]struct{}
}

// NewBroadcast returns an empty listener set.
func NewBroadcast() *Broadcast {
	return &Broadcast{listeners: map[Listener]struct{}{}}
}

// Attach registers a listener. Attaching the same listener twice is a no-op.
func (b *Broadcast) Attach(l Listener) {
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
}

// Detach removes a listener. Safe to call from within a Publish delivery.
func (b *Broadcast) Detach(l Listener) {
	b.mu.Lock()
	delete(b.listeners, l)
	b.mu.Unlock()
}

// Len returns the number of registered listeners.
func (b *Broadcast) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Publish offers the record to every listener registered at call time.
func (b *Broadcast) Publish(r Record) {
	b.mu.Lock()
	snapshot := make([]Listener, 0, len(b.listeners))
	for l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.Unlock()

	for _, l := range snapshot {
		l.Publish(r)
	}
}
