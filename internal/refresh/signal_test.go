package refresh

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"call-insights-dashboard/internal/observability/metrics"
)

func newTestSignal() *Signal {
	return New(metrics.NewMetrics(prometheus.NewRegistry()))
}

func TestSignal_FireInSubscriptionOrder(t *testing.T) {
	s := newTestSignal()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		s.Subscribe(func() { order = append(order, i) })
	}

	s.Fire()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected handlers in order [1 2 3], got %v", order)
	}
}

func TestSignal_NoReplayForLateSubscribers(t *testing.T) {
	s := newTestSignal()
	s.Fire()

	calls := 0
	s.Subscribe(func() { calls++ })

	if calls != 0 {
		t.Errorf("expected no replay, got %d calls", calls)
	}

	s.Fire()
	if calls != 1 {
		t.Errorf("expected 1 call after fire, got %d", calls)
	}
}

func TestSignal_Unsubscribe(t *testing.T) {
	s := newTestSignal()

	a, b := 0, 0
	unsubA := s.Subscribe(func() { a++ })
	s.Subscribe(func() { b++ })

	s.Fire()
	unsubA()
	unsubA()
	s.Fire()

	if a != 1 {
		t.Errorf("expected unsubscribed handler to run once, got %d", a)
	}
	if b != 2 {
		t.Errorf("expected remaining handler to run twice, got %d", b)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", s.Len())
	}
}

func TestSignal_UnsubscribeDuringFire(t *testing.T) {
	s := newTestSignal()

	calls := 0
	var unsub func()
	unsub = s.Subscribe(func() {
		calls++
		unsub()
	})
	other := 0
	s.Subscribe(func() { other++ })

	s.Fire()
	s.Fire()

	if calls != 1 {
		t.Errorf("expected self-unsubscribing handler to run once, got %d", calls)
	}
	if other != 2 {
		t.Errorf("expected other handler to run on both fires, got %d", other)
	}
}

func TestSignal_ConcurrentUse(t *testing.T) {
	s := newTestSignal()

	var mu sync.Mutex
	calls := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := s.Subscribe(func() {
				mu.Lock()
				calls++
				mu.Unlock()
			})
			s.Fire()
			unsub()
		}()
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Errorf("expected all handlers removed, got %d", s.Len())
	}
	if calls < 20 {
		t.Errorf("expected every handler to see at least its own fire, got %d calls", calls)
	}
}
