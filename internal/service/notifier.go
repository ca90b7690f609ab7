// SPDX-License-Identifier: Apache-2.0

package service

import "sync"

// ChangeKind classifies a document change event.
type ChangeKind string

const (
	// ChangeUpdated: the document was created or its payload, revision
	// or cache metadata changed.
	ChangeUpdated ChangeKind = "updated"

	// ChangeRemoved: the document left the local cache (deletion or
	// eviction).
	ChangeRemoved ChangeKind = "removed"

	// ChangeConflicted: the document acquired unresolved sibling
	// revisions and needs attention.
	ChangeConflicted ChangeKind = "conflicted"
)

// Event is one document change notification delivered to subscribers.
type Event struct {
	DocumentID string
	Change     ChangeKind
}

const eventBuffer = 64

// Notifier fans document change events out to subscribers. Delivery is
// best effort: a subscriber that stops draining its channel loses
// events instead of blocking writers.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewNotifier constructs a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel func
// removes the subscription and closes the channel; it is safe to call
// more than once.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan Event, eventBuffer)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
			// subscriber is not draining; drop rather than block
		}
	}
}
