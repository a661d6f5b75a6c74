package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	ch1, stop1 := b.Subscribe()
	ch2, stop2 := b.Subscribe()
	defer stop1()
	defer stop2()

	evt := Event{Topic: TopicNewMail, Email: "a@b.c"}
	b.Publish(evt)

	assert.Equal(t, evt, <-ch1)
	assert.Equal(t, evt, <-ch2)
}

func TestPublishNeverBlocks(t *testing.T) {
	b := New()
	ch, stop := b.Subscribe()
	defer stop()

	// Overrun the buffer; extra events are dropped, not blocked on.
	for i := 0; i < 100; i++ {
		b.Publish(Event{Topic: TopicStorageUpdated, Email: "a@b.c"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			require.Equal(t, cap(ch), received)
			return
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, stop := b.Subscribe()
	stop()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(Event{Topic: TopicNewMail, Email: "a@b.c"})

	// A second stop is a no-op.
	stop()
}
