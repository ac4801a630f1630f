package clock

import (
	"time"

	"CounterPOS/app/format"
	"CounterPOS/app/notify"
	"CounterPOS/app/scheduler"
)

// Clock drives the wall-clock display in the header bar. Each tick
// publishes the current time, already formatted for the shop locale.
type Clock struct {
	sched     *scheduler.Scheduler
	notifier  notify.Notifier
	formatter *format.Formatter
	interval  time.Duration
	now       func() time.Time
}

// New creates a clock ticking at the given interval.
func New(sched *scheduler.Scheduler, notifier notify.Notifier, formatter *format.Formatter, interval time.Duration) *Clock {
	return &Clock{
		sched:     sched,
		notifier:  notifier,
		formatter: formatter,
		interval:  interval,
		now:       time.Now,
	}
}

// Start begins the display tick. Idempotent: while the timer is
// running another Start does nothing, not even the immediate tick.
func (c *Clock) Start() {
	if c.sched.IsRunning(scheduler.TimerClock) {
		return
	}
	c.tick()
	c.sched.Start(scheduler.TimerClock, c.interval, c.tick)
}

// Stop cancels the display tick.
func (c *Clock) Stop() {
	c.sched.Stop(scheduler.TimerClock)
}

func (c *Clock) tick() {
	c.notifier.Emit(notify.EventClockTick, c.formatter.DateTime(c.now()))
}
