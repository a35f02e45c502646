// ABOUTME: In-memory fan-out of snapshot values to any number of subscribers
// ABOUTME: Conflating delivery: a slow subscriber skips stale values but always sees the latest

package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Broadcaster provides in-memory pub/sub for snapshot values such as the
// full habit row set. It remembers the last published value and hands it to
// new subscribers immediately, so every subscriber starts from the current
// state.
type Broadcaster[T any] struct {
	mu          sync.Mutex
	subscribers map[string]chan T // subID -> ch
	latest      T
	hasLatest   bool
	closed      bool
	done        chan struct{}
	logger      *slog.Logger
}

// New creates a broadcaster. Pass nil logger for default.
func New[T any](logger *slog.Logger) *Broadcaster[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster[T]{
		subscribers: make(map[string]chan T),
		done:        make(chan struct{}),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a subscriber. The returned channel has a buffer of one
// and receives the latest value (if any) right away. The subscription is
// removed and its channel closed when ctx is cancelled or the broadcaster
// is closed.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) (<-chan T, string) {
	subID := uuid.New().String()
	ch := make(chan T, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, subID
	}
	b.subscribers[subID] = ch
	if b.hasLatest {
		ch <- b.latest
	}
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		select {
		case <-ctx.Done():
			b.Unsubscribe(subID)
		case <-b.done:
		}
	}()

	return ch, subID
}

// Publish records v as the latest value and offers it to every subscriber.
// Never blocks: a subscriber that has not consumed the previous value gets
// it replaced by v.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.latest = v
	b.hasLatest = true

	for id, ch := range b.subscribers {
		select {
		case ch <- v:
			continue
		default:
		}
		// Buffer holds a stale value; swap it for the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
			b.logger.Debug("dropped value for subscriber", "sub_id", id)
		}
	}
}

// Latest returns the last published value.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.hasLatest
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)

	b.logger.Debug("subscriber removed", "sub_id", subID)
}

// Len reports the number of live subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close shuts down the broadcaster and closes all subscriber channels.
// Safe to call more than once.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)

	for subID, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, subID)
	}

	b.logger.Debug("broadcaster closed")
}
