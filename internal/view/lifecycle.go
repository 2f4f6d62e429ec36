// Package view holds the panel view models. Each panel owns one fetcher,
// refreshes it on mount and on every refresh signal while mounted, and
// renders its state on demand.
package view

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"call-insights-dashboard/internal/fetcher"
	"call-insights-dashboard/internal/refresh"
)

// refresher is the part of a fetcher the lifecycle drives.
type refresher interface {
	Refresh(ctx context.Context) fetcher.Outcome
	Reset()
}

// lifecycle is one panel's mounted lifetime: a signal subscription plus the
// refreshes it started.
type lifecycle struct {
	bus    refresh.Subscriber
	target refresher
	logger zerolog.Logger

	// transition serializes Mount and Unmount.
	transition sync.Mutex

	mu          sync.Mutex
	mounted     bool
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	// inflight counts running refreshes; idle is signalled on l.mu when it
	// drops to zero.
	inflight int
	idle     *sync.Cond
}

func newLifecycle(bus refresh.Subscriber, target refresher, logger zerolog.Logger) *lifecycle {
	l := &lifecycle{bus: bus, target: target, logger: logger}
	l.idle = sync.NewCond(&l.mu)
	return l
}

// Mount subscribes to the refresh signal and starts the initial refresh.
// Mounting a mounted panel does nothing.
func (l *lifecycle) Mount(parent context.Context) {
	l.transition.Lock()
	defer l.transition.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mounted {
		return
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	l.mounted = true
	l.unsubscribe = l.bus.Subscribe(l.onRefresh)
	l.logger.Debug().Msg("Panel mounted")
	l.spawnLocked()
}

// Unmount unsubscribes, cancels outstanding refreshes, waits for them and
// drops the panel state back to its placeholder.
func (l *lifecycle) Unmount() {
	l.transition.Lock()
	defer l.transition.Unlock()

	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return
	}
	l.mounted = false
	unsubscribe, cancel := l.unsubscribe, l.cancel
	l.unsubscribe, l.cancel = nil, nil
	l.mu.Unlock()

	unsubscribe()
	cancel()
	l.Wait()
	l.target.Reset()
	l.logger.Debug().Msg("Panel unmounted")
}

// Mounted reports whether the panel is mounted.
func (l *lifecycle) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

// Wait blocks until no refresh is running. Refreshes started while it waits
// are waited for too.
func (l *lifecycle) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.inflight > 0 {
		l.idle.Wait()
	}
}

func (l *lifecycle) onRefresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.mounted {
		return
	}
	l.logger.Info().Msg("New file detected, refreshing panel")
	l.spawnLocked()
}

// spawnLocked starts one refresh; l.mu must be held.
func (l *lifecycle) spawnLocked() {
	ctx := l.ctx
	l.inflight++
	go func() {
		defer l.done()
		l.target.Refresh(ctx)
	}()
}

func (l *lifecycle) done() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if l.inflight == 0 {
		l.idle.Broadcast()
	}
}
