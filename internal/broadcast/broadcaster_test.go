// ABOUTME: Tests for the snapshot broadcaster
// ABOUTME: Covers latest-value replay, conflation, unsubscribe, context cancellation, close

package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestBroadcaster_SubscriberReceivesPublishedValue(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ch, _ := b.Subscribe(t.Context())
	b.Publish(42)

	assert.Equal(t, 42, receive(t, ch))
}

func TestBroadcaster_LateSubscriberGetsLatest(t *testing.T) {
	b := New[string](nil)
	defer b.Close()

	b.Publish("first")
	b.Publish("second")

	ch, _ := b.Subscribe(t.Context())
	assert.Equal(t, "second", receive(t, ch))
}

func TestBroadcaster_NoValueBeforeFirstPublish(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ch, _ := b.Subscribe(t.Context())

	select {
	case <-ch:
		t.Fatal("no value should be delivered before the first publish")
	case <-time.After(50 * time.Millisecond):
	}

	_, ok := b.Latest()
	assert.False(t, ok)
}

func TestBroadcaster_SlowSubscriberSeesOnlyLatest(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ch, _ := b.Subscribe(t.Context())
	for i := 1; i <= 10; i++ {
		b.Publish(i)
	}

	assert.Equal(t, 10, receive(t, ch))

	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ctx := t.Context()
	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)
	ch3, _ := b.Subscribe(ctx)

	b.Publish(7)

	for i, ch := range []<-chan int{ch1, ch2, ch3} {
		assert.Equal(t, 7, receive(t, ch), "subscriber %d got wrong value", i)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ch, subID := b.Subscribe(t.Context())
	require.Equal(t, 1, b.Len())

	b.Unsubscribe(subID)
	assert.Equal(t, 0, b.Len())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Unknown IDs are ignored
	b.Unsubscribe(subID)
	b.Unsubscribe("missing")
}

func TestBroadcaster_ContextCancellationUnsubscribes(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 10*time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestBroadcaster_CloseClosesSubscribers(t *testing.T) {
	b := New[int](nil)

	ch1, _ := b.Subscribe(context.Background())
	ch2, _ := b.Subscribe(context.Background())

	b.Close()
	b.Close()

	for _, ch := range []<-chan int{ch1, ch2} {
		_, ok := <-ch
		assert.False(t, ok)
	}

	// Publishing and subscribing after close are harmless
	b.Publish(1)
	ch3, _ := b.Subscribe(context.Background())
	_, ok := <-ch3
	assert.False(t, ok)
}

func TestBroadcaster_ConcurrentPublish(t *testing.T) {
	b := New[int](nil)
	defer b.Close()

	ch, _ := b.Subscribe(t.Context())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Publish(n)
		}(i)
	}
	wg.Wait()
	b.Publish(100)

	require.Eventually(t, func() bool {
		select {
		case v := <-ch:
			return v == 100
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
