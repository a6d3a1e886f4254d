package dashboard

import (
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"
)

// Handle is a scheduled task that has not necessarily run yet.
type Handle interface {
	// Cancel prevents the task from running. It reports whether the task was
	// still pending.
	Cancel() bool
}

// Scheduler runs delayed tasks on a Loop.
type Scheduler struct {
	clock clock.WithDelayedExecution
	loop  Loop
}

// NewScheduler creates a scheduler whose timers fire on clk and whose tasks
// run on loop.
func NewScheduler(clk clock.WithDelayedExecution, loop Loop) *Scheduler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Scheduler{clock: clk, loop: loop}
}

// After runs task on the loop once d has elapsed.
func (s *Scheduler) After(d time.Duration, task func()) Handle {
	h := &timerHandle{}
	h.timer = s.clock.AfterFunc(d, func() {
		s.loop.Post(func() {
			// the timer may have fired before Cancel ran on the loop
			if h.cancelled.Load() {
				return
			}
			h.fired.Store(true)
			task()
		})
	})
	return h
}

type timerHandle struct {
	timer     clock.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (h *timerHandle) Cancel() bool {
	if h.fired.Load() || h.cancelled.Swap(true) {
		return false
	}
	h.timer.Stop()
	return true
}
