package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/catalogd/backend/domain"
)

func viewed(id uint64) domain.ProductViewed {
	return domain.ProductViewed{ProductID: id, OccurredAt: time.Now().UTC()}
}

// recorder is a thread-safe event sink used as a subscriber.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) handle(ctx context.Context, evt domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) snapshot() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func TestFanOutToAllSubscribers(t *testing.T) {
	b := New(nil)
	first := &recorder{}
	second := &recorder{}
	b.Subscribe(domain.KindProductViewed, "first", first.handle)
	b.Subscribe(domain.KindProductViewed, "second", second.handle)
	b.Start()
	defer b.Shutdown(context.Background())

	b.Publish(viewed(1))
	b.Drain()

	if got := len(first.snapshot()); got != 1 {
		t.Errorf("first subscriber got %d events, want 1", got)
	}
	if got := len(second.snapshot()); got != 1 {
		t.Errorf("second subscriber got %d events, want 1", got)
	}
}

func TestKindFiltering(t *testing.T) {
	b := New(nil)
	views := &recorder{}
	stocks := &recorder{}
	b.Subscribe(domain.KindProductViewed, "views", views.handle)
	b.Subscribe(domain.KindStockAdjusted, "stocks", stocks.handle)
	b.Start()
	defer b.Shutdown(context.Background())

	b.Publish(viewed(1))
	b.Publish(domain.StockAdjusted{ProductID: 1, NewStock: 5, OccurredAt: time.Now().UTC()})
	b.Publish(viewed(1))
	b.Drain()

	if got := len(views.snapshot()); got != 2 {
		t.Errorf("view subscriber got %d events, want 2", got)
	}
	if got := len(stocks.snapshot()); got != 1 {
		t.Errorf("stock subscriber got %d events, want 1", got)
	}
}

func TestFailingHandlerDoesNotBlockOthers(t *testing.T) {
	b := New(nil)
	ok := &recorder{}
	b.Subscribe(domain.KindProductViewed, "failing", func(ctx context.Context, evt domain.Event) error {
		return errors.New("projection store down")
	})
	b.Subscribe(domain.KindProductViewed, "healthy", ok.handle)
	b.Start()
	defer b.Shutdown(context.Background())

	b.Publish(viewed(1))
	b.Publish(viewed(1))
	b.Drain()

	if got := len(ok.snapshot()); got != 2 {
		t.Errorf("healthy subscriber got %d events, want 2", got)
	}
}

func TestFIFOOrder(t *testing.T) {
	b := New(nil)
	rec := &recorder{}
	b.Subscribe(domain.KindProductViewed, "rec", rec.handle)
	b.Start()
	defer b.Shutdown(context.Background())

	const n = 50
	for i := 1; i <= n; i++ {
		b.Publish(viewed(uint64(i)))
	}
	b.Drain()

	got := rec.snapshot()
	if len(got) != n {
		t.Fatalf("got %d events, want %d", len(got), n)
	}
	for i, evt := range got {
		if evt.Subject() != uint64(i+1) {
			t.Fatalf("event %d subject = %d, want %d", i, evt.Subject(), i+1)
		}
	}
}

func TestDrainWaitsForInFlight(t *testing.T) {
	b := New(nil)
	done := make(chan struct{})
	b.Subscribe(domain.KindProductViewed, "slow", func(ctx context.Context, evt domain.Event) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})
	b.Start()
	defer b.Shutdown(context.Background())

	b.Publish(viewed(1))
	go func() {
		b.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Drain did not return")
	}
	if depth := b.Depth(); depth != 0 {
		t.Errorf("Depth after Drain = %d, want 0", depth)
	}
}

func TestPublishAfterShutdownDropped(t *testing.T) {
	b := New(nil)
	rec := &recorder{}
	b.Subscribe(domain.KindProductViewed, "rec", rec.handle)
	b.Start()

	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	b.Publish(viewed(1))

	if got := len(rec.snapshot()); got != 0 {
		t.Errorf("subscriber got %d events after shutdown, want 0", got)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	b := New(nil)
	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on unstarted bus: %v", err)
	}
}

func TestPublishWithNoSubscribersIsSilent(t *testing.T) {
	b := New(nil)
	b.Start()
	defer b.Shutdown(context.Background())

	b.Publish(viewed(1))
	b.Drain()

	if depth := b.Depth(); depth != 0 {
		t.Errorf("Depth = %d, want 0", depth)
	}
}
