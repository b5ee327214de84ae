package bus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/catalogd/backend/domain"
)

// Handler consumes a single event on the bus worker. Errors are contained by
// the bus: logged, never retried, never surfaced to the publisher.
type Handler func(ctx context.Context, evt domain.Event) error

type subscriber struct {
	name    string
	handler Handler
}

// Bus fans published events out to kind-matched subscribers. Producers
// enqueue without blocking; one background worker dispatches events in
// global FIFO order, fully finishing each event before dequeuing the next.
// Delivery is at-least-once: consumers must tolerate redelivery.
type Bus struct {
	logger *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []domain.Event
	pending int
	started bool
	closed  bool
	done    chan struct{}

	subsMu sync.RWMutex
	subs   map[domain.Kind][]subscriber
}

// New creates a bus. Call Start to launch the dispatch worker.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bus{
		logger: logger,
		subs:   make(map[domain.Kind][]subscriber),
		done:   make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Subscribe registers a handler for one event kind. All handlers registered
// for a kind fire for every event of that kind, in registration order;
// handlers must not depend on their order relative to each other. The name
// identifies the handler in failure logs.
func (b *Bus) Subscribe(kind domain.Kind, name string, h Handler) {
	if h == nil {
		return
	}
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.subs[kind] = append(b.subs[kind], subscriber{name: name, handler: h})
}

// Publish enqueues the event and returns immediately. There is no delivery
// confirmation. Events published after Shutdown are dropped.
func (b *Bus) Publish(evt domain.Event) {
	if evt == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queue = append(b.queue, evt)
	b.pending++
	// Broadcast, not Signal: the worker and any Drain callers share the cond.
	b.cond.Broadcast()
}

// Start launches the background dispatch worker.
func (b *Bus) Start() {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()
	go b.process()
}

// Drain blocks until every enqueued event has been fully dispatched. A
// determinism primitive for tests and clean stops, never required for
// correctness.
func (b *Bus) Drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.pending > 0 && !b.closed {
		b.cond.Wait()
	}
}

// Depth returns the number of events queued or in flight.
func (b *Bus) Depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Shutdown stops accepting new dispatch cycles and joins the worker once the
// in-flight dispatch completes. Events still queued behind it are abandoned;
// call Drain first for a clean stop.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	wasStarted := b.started
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()

	if !wasStarted {
		return nil
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) process() {
	defer close(b.done)
	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if b.closed {
			b.mu.Unlock()
			return
		}
		evt := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.dispatch(evt)

		b.mu.Lock()
		b.pending--
		if b.pending == 0 {
			b.cond.Broadcast()
		}
		b.mu.Unlock()
	}
}

// dispatch delivers one event to every subscriber of its kind. A failing
// handler does not block the remaining handlers or subsequent events.
func (b *Bus) dispatch(evt domain.Event) {
	b.subsMu.RLock()
	subs := b.subs[evt.Kind()]
	b.subsMu.RUnlock()

	ctx := context.Background()
	for _, sub := range subs {
		if err := sub.handler(ctx, evt); err != nil {
			b.logger.Error("event handler failed",
				zap.String("handler", sub.name),
				zap.String("kind", string(evt.Kind())),
				zap.Uint64("product_id", evt.Subject()),
				zap.Error(err))
		}
	}
}
