package scheduler

import (
	"log"
	"sync"
	"time"
)

// Well-known timer names used across the application.
const (
	TimerCart    = "cart-refresh"
	TimerBarcode = "barcode-refresh"
	TimerClock   = "clock"
)

// Task is a unit of work invoked on every tick of a named timer.
type Task func()

type namedTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
}

// Scheduler owns the application's named recurring timers. At most one
// timer can be active per name: Start on a running name is a no-op, so
// an init-time call and an interval registration can never
// double-schedule the same refresh.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*namedTimer
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*namedTimer),
	}
}

// Start registers and begins periodic invocation of task under name.
// If a timer with that name is already active the call is ignored.
func (s *Scheduler) Start(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[name]; ok {
		return
	}

	t := &namedTimer{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	s.timers[name] = t

	go s.run(name, t, task)
}

// run is the tick loop for a single named timer.
func (s *Scheduler) run(name string, t *namedTimer, task Task) {
	defer t.ticker.Stop()

	for {
		select {
		case <-t.ticker.C:
			// A tick can already be pending when stop is closed;
			// the select picks randomly among ready cases, so
			// recheck before dispatching.
			select {
			case <-t.stop:
				log.Printf("Timer %q stopped", name)
				return
			default:
			}
			task()
		case <-t.stop:
			log.Printf("Timer %q stopped", name)
			return
		}
	}
}

// Stop cancels the named timer. Safe to call when the timer is not
// running. Ticks already dispatched are not interrupted.
func (s *Scheduler) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[name]
	if !ok {
		return
	}
	delete(s.timers, name)
	close(t.stop)
}

// IsRunning reports whether a timer with the given name is active.
func (s *Scheduler) IsRunning(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.timers[name]
	return ok
}

// StopAll cancels every active timer. Used on application shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, t := range s.timers {
		delete(s.timers, name)
		close(t.stop)
	}
}
