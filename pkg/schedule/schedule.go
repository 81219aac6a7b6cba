// Package schedule runs one-shot timers as Bubble Tea commands. Every timer is
// a Task with an explicit cancellation handle, and its completion is delivered
// as a FiredMsg that the owner resolves on the update loop.
package schedule

import (
	"log/slog"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// TaskID identifies a task within its scheduler.
type TaskID uint64

// FiredMsg is emitted when a task's delay elapses.
type FiredMsg struct {
	ID      TaskID
	Payload any

	owner *Scheduler
}

// Task is a scheduled one-shot timer.
type Task struct {
	id      TaskID
	fireAt  time.Time
	payload any
	sched   *Scheduler

	mu        sync.Mutex
	cancelled bool
}

// ID returns the task identifier.
func (t *Task) ID() TaskID { return t.id }

// FireAt returns the wall-clock time the task was due.
func (t *Task) FireAt() time.Time { return t.fireAt }

// Cancel stops the task. A FiredMsg that arrives later is ignored.
// Cancelling twice is harmless.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.sched.forget(t.id)
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Msg returns the message the task emits when it fires. Tests feed it to
// Update directly instead of waiting for the timer.
func (t *Task) Msg() FiredMsg {
	return FiredMsg{ID: t.id, Payload: t.payload, owner: t.sched}
}

// Scheduler hands out tasks and tracks which ones are still live.
type Scheduler struct {
	mu    sync.Mutex
	next  TaskID
	tasks map[TaskID]*Task
	now   func() time.Time
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		tasks: make(map[TaskID]*Task),
		now:   time.Now,
	}
}

// Schedule registers a task that fires after d and returns it with the
// command that waits for it.
func (s *Scheduler) Schedule(d time.Duration, payload any) (*Task, tea.Cmd) {
	s.mu.Lock()
	s.next++
	task := &Task{
		id:      s.next,
		fireAt:  s.now().Add(d),
		payload: payload,
		sched:   s,
	}
	s.tasks[task.id] = task
	s.mu.Unlock()

	msg := task.Msg()
	cmd := tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
	return task, cmd
}

// Resolve consumes a fired message. It returns the task payload and true only
// if the message belongs to this scheduler and its task is still live. Each
// task resolves at most once.
func (s *Scheduler) Resolve(msg FiredMsg) (any, bool) {
	if msg.owner != s {
		return nil, false
	}

	s.mu.Lock()
	task, ok := s.tasks[msg.ID]
	if ok {
		delete(s.tasks, msg.ID)
	}
	s.mu.Unlock()

	if !ok || task.Cancelled() {
		slog.Debug("schedule_fired_ignored", "task_id", msg.ID)
		return nil, false
	}
	return task.payload, true
}

// Owns reports whether msg was produced by this scheduler.
func (s *Scheduler) Owns(msg FiredMsg) bool {
	return msg.owner == s
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Scheduler) forget(id TaskID) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}
