package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestStartRunsTask(t *testing.T) {
	s := New()
	defer s.StopAll()

	var ticks int64
	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&ticks) == 0 {
		t.Fatal("task never ran")
	}
	if !s.IsRunning("test") {
		t.Error("IsRunning = false for active timer")
	}
}

func TestStartIsIdempotentPerName(t *testing.T) {
	s := New()
	defer s.StopAll()

	var first, second int64
	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&first, 1) })
	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&second, 1) })

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&second) != 0 {
		t.Errorf("second registration ran %d times, want 0", second)
	}
	if atomic.LoadInt64(&first) == 0 {
		t.Error("first registration never ran")
	}
}

func TestStopHaltsTask(t *testing.T) {
	s := New()

	var ticks int64
	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	time.Sleep(30 * time.Millisecond)

	s.Stop("test")
	if s.IsRunning("test") {
		t.Error("IsRunning = true after Stop")
	}

	time.Sleep(20 * time.Millisecond)
	stopped := atomic.LoadInt64(&ticks)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != stopped {
		t.Errorf("task ran %d more times after Stop", got-stopped)
	}
}

func TestStopSuppressesPendingTick(t *testing.T) {
	s := New()

	entered := make(chan struct{})
	gate := make(chan struct{})
	var ticks int64
	s.Start("test", time.Millisecond, func() {
		if atomic.AddInt64(&ticks, 1) == 1 {
			close(entered)
			<-gate
		}
	})

	// While the first invocation blocks, another tick queues up on the
	// ticker channel. Stopping before the task is released must not let
	// that queued tick dispatch.
	<-entered
	time.Sleep(10 * time.Millisecond)
	s.Stop("test")
	close(gate)

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != 1 {
		t.Errorf("task ran %d times, want the pending tick suppressed after Stop", got)
	}
}

func TestStopUnknownNameIsSafe(t *testing.T) {
	s := New()
	s.Stop("never-started")
}

func TestRestartAfterStop(t *testing.T) {
	s := New()
	defer s.StopAll()

	var ticks int64
	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	s.Stop("test")

	s.Start("test", 5*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&ticks) == 0 {
		t.Fatal("restarted timer never ran")
	}
}

func TestStopAll(t *testing.T) {
	s := New()

	s.Start("a", time.Hour, func() {})
	s.Start("b", time.Hour, func() {})
	s.StopAll()

	if s.IsRunning("a") || s.IsRunning("b") {
		t.Error("timers still running after StopAll")
	}
}
