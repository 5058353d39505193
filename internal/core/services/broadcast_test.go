package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func requireClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed")
		}
	}
}

func TestBroadcaster_InitialThenPublished(t *testing.T) {
	b := newBroadcaster[int]()
	ch, cancel := b.subscribe(1)
	defer cancel()

	b.publish(2)
	b.publish(3)

	assert.Equal(t, 1, receive(t, ch))
	assert.Equal(t, 2, receive(t, ch))
	assert.Equal(t, 3, receive(t, ch))
}

func TestBroadcaster_PublishNeverBlocks(t *testing.T) {
	b := newBroadcaster[int]()
	ch, cancel := b.subscribe(0)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 1000; i++ {
			b.publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	for i := 0; i <= 1000; i++ {
		assert.Equal(t, i, receive(t, ch))
	}
}

func TestBroadcaster_EverySubscriberGetsEveryValue(t *testing.T) {
	b := newBroadcaster[string]()
	a, cancelA := b.subscribe("init")
	defer cancelA()
	c, cancelC := b.subscribe("init")
	defer cancelC()

	b.publish("x")

	for _, ch := range []<-chan string{a, c} {
		assert.Equal(t, "init", receive(t, ch))
		assert.Equal(t, "x", receive(t, ch))
	}
}

func TestBroadcaster_CancelClosesChannel(t *testing.T) {
	b := newBroadcaster[int]()
	ch, cancel := b.subscribe(0)
	cancel()
	cancel()
	requireClosed(t, ch)

	b.publish(1)
}

func TestBroadcaster_Close(t *testing.T) {
	b := newBroadcaster[int]()
	ch, cancel := b.subscribe(0)
	defer cancel()

	b.close()
	requireClosed(t, ch)

	late, lateCancel := b.subscribe(0)
	defer lateCancel()
	requireClosed(t, late)
}
