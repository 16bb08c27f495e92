// Package events implements the bridge between push-style platform delegate
// callbacks and pull-style event subscriptions. One publish point fans every
// event out to all currently-registered subscribers; each subscriber drains
// its own queue at its own pace and never slows the producer or its peers.
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

// Config holds configuration for the Broadcaster.
type Config struct {
	// SubscriberBufferSize is the capacity of the channel handed to each
	// subscriber. Events beyond it queue without bound behind the channel,
	// so publishing never blocks on a slow consumer.
	SubscriberBufferSize int
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		SubscriberBufferSize: 16,
	}
}

// Broadcaster is a single multicast publish point with no replay buffer.
// Every event published after a subscriber registers is delivered to it in
// publish order; events published before registration are never visible.
type Broadcaster struct {
	log       *zap.SugaredLogger
	metrics   *metrics
	config    Config
	mu        sync.RWMutex
	subs      map[string]*subscription
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type subscription struct {
	id string

	mu    sync.Mutex
	queue []types.Event

	// wake carries at most one token; publishers nudge it after appending.
	wake chan struct{}
	out  chan types.Event
}

// NewBroadcaster creates a new Broadcaster instance.
func NewBroadcaster(cfg ...Config) *Broadcaster {
	config := DefaultConfig()
	if len(cfg) > 0 {
		config = cfg[0]
	}

	return &Broadcaster{
		log:     logger.GetLogger().Named("event_bridge"),
		metrics: newMetrics(),
		config:  config,
		subs:    make(map[string]*subscription),
		done:    make(chan struct{}),
	}
}

// Publish fans event out to every currently-registered subscriber. It is
// total: it never blocks and never fails. Publishing with zero subscribers
// discards the event silently.
func (b *Broadcaster) Publish(event types.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subs) == 0 {
		b.metrics.discardedCount.Inc()
		b.log.Debugw("Discarded event with no subscribers", "eventType", event.Type)
		return
	}

	for _, sub := range b.subs {
		sub.mu.Lock()
		sub.queue = append(sub.queue, event)
		sub.mu.Unlock()

		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}

	b.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
}

// Subscribe registers a fresh, independent view of the broadcast. The returned
// channel yields events in publish order until ctx is cancelled or the
// broadcaster shuts down, then closes. Cancelling one subscription never
// affects another.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan types.Event {
	sub := &subscription{
		id:   uuid.New().String(),
		wake: make(chan struct{}, 1),
		out:  make(chan types.Event, b.config.SubscriberBufferSize),
	}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	b.metrics.activeSubscribers.Inc()
	b.log.Debugw("Subscription registered", "subID", sub.id)

	b.wg.Add(1)
	go b.pump(ctx, sub)

	return sub.out
}

// pump drains one subscription's queue into its delivery channel.
func (b *Broadcaster) pump(ctx context.Context, sub *subscription) {
	defer b.wg.Done()
	defer func() {
		b.mu.Lock()
		delete(b.subs, sub.id)
		b.mu.Unlock()

		close(sub.out)
		b.metrics.activeSubscribers.Dec()
		b.log.Debugw("Subscription closed", "subID", sub.id)
	}()

	for {
		sub.mu.Lock()
		batch := sub.queue
		sub.queue = nil
		sub.mu.Unlock()

		for _, event := range batch {
			select {
			case sub.out <- event:
				b.metrics.eventCount.WithLabelValues("deliver", string(event.Type)).Inc()
			case <-ctx.Done():
				return
			case <-b.done:
				return
			}
		}

		select {
		case <-sub.wake:
		case <-ctx.Done():
			return
		case <-b.done:
			return
		}
	}
}

// SubscriberCount returns the number of currently-registered subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Shutdown closes every subscription and waits for their goroutines to finish
// or ctx to expire. The broadcaster is adapter-scoped state, so this normally
// only runs when the owning adapter is torn down.
func (b *Broadcaster) Shutdown(ctx context.Context) error {
	b.closeOnce.Do(func() { close(b.done) })

	finished := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		b.log.Infow("Event bridge shutdown complete")
		return nil
	case <-ctx.Done():
		b.log.Warnw("Event bridge shutdown timed out", "error", ctx.Err())
		return ctx.Err()
	}
}
