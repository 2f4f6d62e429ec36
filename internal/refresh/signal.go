// Package refresh provides the "backend data changed" broadcast signal shared
// by independently mounted panels.
package refresh

import (
	"sync"

	"call-insights-dashboard/internal/observability/metrics"
)

// Handler is invoked on every fire while subscribed.
type Handler func()

// Notifier fires the signal.
type Notifier interface {
	Fire()
}

// Subscriber registers handlers. The returned function removes the handler
// and is safe to call more than once.
type Subscriber interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Bus is a Notifier and a Subscriber.
type Bus interface {
	Notifier
	Subscriber
}

type subscription struct {
	id uint64
	h  Handler
}

// Signal is a payload-less broadcast. Handlers subscribed when Fire is called
// run synchronously on the caller's goroutine in subscription order; later
// subscribers see nothing of earlier fires.
type Signal struct {
	mu      sync.Mutex
	nextId  uint64
	subs    []subscription
	metrics *metrics.Metrics
}

// New creates a Signal reporting to m, or to metrics.DefaultMetrics when m is nil.
func New(m *metrics.Metrics) *Signal {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Signal{metrics: m}
}

// Subscribe adds h and returns its unsubscribe function.
func (s *Signal) Subscribe(h Handler) func() {
	s.mu.Lock()
	s.nextId++
	id := s.nextId
	s.subs = append(s.subs, subscription{id: id, h: h})
	s.metrics.SetSubscribers(len(s.subs))
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			break
		}
	}
	s.metrics.SetSubscribers(len(s.subs))
}

// Fire invokes a snapshot of the current handlers. Handlers may subscribe or
// unsubscribe while being invoked; the change applies from the next fire.
func (s *Signal) Fire() {
	s.mu.Lock()
	snapshot := make([]Handler, len(s.subs))
	for i, sub := range s.subs {
		snapshot[i] = sub.h
	}
	s.mu.Unlock()

	s.metrics.RecordRefreshFire()
	for _, h := range snapshot {
		h()
	}
}

// Len returns the number of subscribed handlers.
func (s *Signal) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
