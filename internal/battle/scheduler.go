package battle

import "time"

// scheduler holds the engine's three deadline tasks. It replaces independent
// interval timers: the engine polls it with Tick and fires due tasks one at a
// time in deadline order.
type scheduler struct {
	tasks [numTasks]task
}

type taskKind int

// Declaration order is the tie-break order for tasks due at the same instant.
const (
	taskPrepare taskKind = iota
	taskQuestion
	taskAttack
	numTasks
)

type task struct {
	due    time.Time
	period time.Duration
	active bool
}

func (s *scheduler) start(k taskKind, from time.Time, period time.Duration) {
	if period <= 0 {
		s.tasks[k] = task{}
		return
	}
	s.tasks[k] = task{due: from.Add(period), period: period, active: true}
}

func (s *scheduler) stop(k taskKind) {
	s.tasks[k] = task{}
}

func (s *scheduler) stopAll() {
	for k := range s.tasks {
		s.tasks[k] = task{}
	}
}

// due returns the earliest task due at or before now, ignoring skip. Pass
// numTasks to consider every task.
func (s *scheduler) due(now time.Time, skip taskKind) (taskKind, time.Time, bool) {
	best := numTasks
	var at time.Time
	for k, t := range s.tasks {
		if taskKind(k) == skip || !t.active || t.due.After(now) {
			continue
		}
		if best == numTasks || t.due.Before(at) {
			best, at = taskKind(k), t.due
		}
	}
	return best, at, best != numTasks
}

// advance reschedules a task for its next period. A task more than one period
// behind now skips the missed periods and lands on the first slot after now;
// advance reports whether that happened.
func (s *scheduler) advance(k taskKind, now time.Time) bool {
	t := &s.tasks[k]
	if !t.active {
		return false
	}
	late := now.Sub(t.due) > t.period
	t.due = t.due.Add(t.period)
	if late {
		missed := now.Sub(t.due)/t.period + 1
		t.due = t.due.Add(missed * t.period)
	}
	return late
}

func (s *scheduler) next() (time.Time, bool) {
	var at time.Time
	found := false
	for _, t := range s.tasks {
		if t.active && (!found || t.due.Before(at)) {
			at, found = t.due, true
		}
	}
	return at, found
}
