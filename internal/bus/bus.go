// Package bus provides the in-process publish/subscribe channel for
// cross-view change notifications. Events are fire-and-forget,
// at-most-once per action, with no payload guarantee beyond
// "something changed for this user".
package bus

import "sync"

// Topic names a notification channel.
type Topic string

const (
	// TopicStorageUpdated signals that the saved-plan archive changed.
	TopicStorageUpdated Topic = "storage_updated"
	// TopicNewMail signals that a mailbox received a new message.
	TopicNewMail Topic = "new_mail"
)

// Event is one published notification.
type Event struct {
	Topic Topic
	Email string
}

// Bus fans events out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and an unsubscribe function.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers the event to every current subscriber without
// blocking.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
