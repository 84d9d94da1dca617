package state

import "time"

// Scheduler schedules deferred callbacks. The controller uses it for the
// delayed-removal grace timer; tests substitute a manual implementation to
// make time deterministic.
type Scheduler interface {
	// After runs fn once d has elapsed and returns a cancel function.
	// Cancelling after the callback ran is a no-op.
	After(d time.Duration, fn func()) (cancel func())
}

// wallClockScheduler is the production Scheduler backed by time.AfterFunc.
type wallClockScheduler struct{}

func (wallClockScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler is a Scheduler for tests: nothing fires until the test
// calls Advance or Fire. It is not safe for concurrent use.
type ManualScheduler struct {
	tasks []*manualTask
}

type manualTask struct {
	due       time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After registers fn to fire once Advance has accumulated d.
func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	task := &manualTask{due: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

// Advance moves the scheduler's clock forward by d, firing every due,
// uncancelled task in registration order.
func (s *ManualScheduler) Advance(d time.Duration) {
	var remaining []*manualTask
	var due []*manualTask
	for _, task := range s.tasks {
		if task.cancelled {
			continue
		}
		task.due -= d
		if task.due <= 0 {
			due = append(due, task)
		} else {
			remaining = append(remaining, task)
		}
	}
	s.tasks = remaining
	for _, task := range due {
		task.fn()
	}
}

// Pending reports how many uncancelled tasks are waiting.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			n++
		}
	}
	return n
}
