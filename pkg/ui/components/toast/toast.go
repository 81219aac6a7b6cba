// Package toast renders short-lived notices stacked in a corner of the screen.
package toast

import (
	"log/slog"
	"strings"
	"time"

	"airbutler/pkg/schedule"
	"airbutler/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Kind selects a toast's color.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	DefaultVisibleFor = 3000 * time.Millisecond
	DefaultFadeFor    = 300 * time.Millisecond
)

// Toast is one notice.
type Toast struct {
	ID      uint64
	Message string
	Kind    Kind
	Fading  bool

	task *schedule.Task
}

type phase int

const (
	phaseFade phase = iota
	phaseRemove
)

type phaseDue struct {
	id    uint64
	phase phase
}

// Stack holds the live toasts, oldest first.
type Stack struct {
	sched      *schedule.Scheduler
	toasts     []*Toast
	nextID     uint64
	VisibleFor time.Duration
	FadeFor    time.Duration
}

// New creates an empty stack. A nil scheduler gets a private one.
func New(sched *schedule.Scheduler) *Stack {
	if sched == nil {
		sched = schedule.New()
	}
	return &Stack{
		sched:      sched,
		VisibleFor: DefaultVisibleFor,
		FadeFor:    DefaultFadeFor,
	}
}

// Show adds a toast and returns the command that starts its lifecycle.
// Unknown kinds render as info. Identical messages are not merged.
func (s *Stack) Show(message string, kind Kind) tea.Cmd {
	switch kind {
	case KindSuccess, KindError:
	default:
		kind = KindInfo
	}

	s.nextID++
	t := &Toast{ID: s.nextID, Message: message, Kind: kind}
	task, cmd := s.sched.Schedule(s.VisibleFor, phaseDue{id: t.ID, phase: phaseFade})
	t.task = task
	s.toasts = append(s.toasts, t)

	slog.Debug("toast_show", "id", t.ID, "kind", kind)
	return cmd
}

// Update advances toast lifecycles. It reports whether msg was consumed.
func (s *Stack) Update(msg tea.Msg) (tea.Cmd, bool) {
	fired, ok := msg.(schedule.FiredMsg)
	if !ok || !s.sched.Owns(fired) {
		return nil, false
	}
	payload, ok := s.sched.Resolve(fired)
	if !ok {
		return nil, true
	}
	due, ok := payload.(phaseDue)
	if !ok {
		return nil, false
	}

	t := s.find(due.id)
	if t == nil {
		return nil, true
	}

	switch due.phase {
	case phaseFade:
		t.Fading = true
		task, cmd := s.sched.Schedule(s.FadeFor, phaseDue{id: t.ID, phase: phaseRemove})
		t.task = task
		return cmd, true
	case phaseRemove:
		s.remove(t.ID)
	}
	return nil, true
}

// Dismiss removes a toast now and cancels its pending phase.
func (s *Stack) Dismiss(id uint64) {
	t := s.find(id)
	if t == nil {
		return
	}
	t.task.Cancel()
	s.remove(id)
}

// Toasts returns copies of the live toasts, oldest first.
func (s *Stack) Toasts() []Toast {
	out := make([]Toast, 0, len(s.toasts))
	for _, t := range s.toasts {
		out = append(out, *t)
	}
	return out
}

// Len returns the number of live toasts.
func (s *Stack) Len() int { return len(s.toasts) }

// View renders the stack, newest at the bottom, each line right-aligned to
// width. It returns "" when there is nothing to show.
func (s *Stack) View(width int) string {
	if len(s.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.toasts))
	for _, t := range s.toasts {
		line := styleFor(t).Render(t.Message)
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, line))
	}
	return strings.Join(lines, "\n")
}

func styleFor(t *Toast) lipgloss.Style {
	if t.Fading {
		return styles.ToastFadingStyle
	}
	switch t.Kind {
	case KindSuccess:
		return styles.ToastSuccessStyle
	case KindError:
		return styles.ToastErrorStyle
	default:
		return styles.ToastInfoStyle
	}
}

func (s *Stack) find(id uint64) *Toast {
	for _, t := range s.toasts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Stack) remove(id uint64) {
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}
