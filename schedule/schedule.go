// Package schedule provides the delayed-task capability required by the hub
// for response-listener timeouts. The hub depends only on the Scheduler and
// Handle interfaces; TimerScheduler is the default implementation.
package schedule

import (
	"sync/atomic"
	"time"
)

// Handle refers to a scheduled task and allows cancellation.
type Handle interface {
	// Cancel stops the task if it has not fired yet. It is idempotent and
	// returns true only on the call that actually prevented the task from
	// running. interruptIfRunning is accepted for interface compatibility;
	// a task that has already started is never interrupted.
	Cancel(interruptIfRunning bool) bool
}

// Scheduler schedules tasks to run once after a delay.
type Scheduler interface {
	// After schedules task to run once after delay and returns a Handle
	// for cancellation. Safe from any goroutine.
	After(delay time.Duration, task func()) Handle
}

// TimerScheduler runs tasks on their own goroutine via the runtime timer
// heap. The zero value is ready to use.
type TimerScheduler struct{}

// NewTimerScheduler returns a timer-backed Scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// After implements Scheduler.
func (s *TimerScheduler) After(delay time.Duration, task func()) Handle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(delay, func() {
		// Losing the race against Cancel means the task must not run.
		if h.fired.CompareAndSwap(false, true) {
			task()
		}
	})
	return h
}

type timerHandle struct {
	timer *time.Timer
	fired atomic.Bool
}

func (h *timerHandle) Cancel(interruptIfRunning bool) bool {
	if h.fired.CompareAndSwap(false, true) {
		h.timer.Stop()
		return true
	}
	return false
}
