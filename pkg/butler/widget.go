// Package butler holds the AI air butler chat widget: visibility, the
// conversation log, quick replies, the typing indicator and the free-text
// round trip with its local fallback.
package butler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"airbutler/pkg/ai"
	"airbutler/pkg/config"
	"airbutler/pkg/schedule"

	tea "charm.land/bubbletea/v2"
)

// State is the widget lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpenEmpty
	StateOpenActive
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenEmpty:
		return "open-empty"
	case StateOpenActive:
		return "open-active"
	default:
		return "unknown"
	}
}

const (
	defaultHistoryLimit = 10
	defaultTypingDelay  = 1000 * time.Millisecond
)

// Options configures a widget.
type Options struct {
	Provider     ai.Provider
	Scheduler    *schedule.Scheduler
	Responder    *Responder
	Icons        IconRenderer
	HistoryLimit int
	StalePolicy  string

	// TypingDelay is how long a quick reply "types" before its canned
	// answer lands. Zero means the default of one second.
	TypingDelay time.Duration
	// NoTypingDelay answers quick replies on the next update cycle.
	NoTypingDelay bool
}

// OptionsFromConfig maps config values onto widget options.
func OptionsFromConfig(cfg config.Config, provider ai.Provider) Options {
	return Options{
		Provider:      provider,
		HistoryLimit:  cfg.HistoryLimit,
		StalePolicy:   cfg.StalePolicy,
		TypingDelay:   time.Duration(cfg.TypingDelayMs) * time.Millisecond,
		NoTypingDelay: cfg.TypingDelayMs == 0,
	}
}

// TypingIndicator is the transient "butler is typing" marker.
type TypingIndicator struct {
	ID uint64
}

// ChatResultMsg carries the outcome of one free-text round trip.
type ChatResultMsg struct {
	Seq         uint64
	IndicatorID uint64
	Text        string
	Content     string
	Err         error

	owner *Widget
}

type quickReplyDue struct {
	indicatorID uint64
	reply       QuickReply
}

// Widget is one chat widget instance. All mutation happens through its
// methods on the caller's update loop.
type Widget struct {
	provider     ai.Provider
	sched        *schedule.Scheduler
	responder    *Responder
	icons        IconRenderer
	historyLimit int
	typingDelay  time.Duration
	stalePolicy  string

	visible     bool
	log         Conversation
	quickShown  bool
	input       string
	typing      *TypingIndicator
	nextTypeID  uint64
	seq         uint64
	latestSeq   uint64
	typingTasks map[uint64]*schedule.Task
	inFlight    int
}

// New creates a closed widget with an empty log.
func New(opts Options) *Widget {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.New()
	}
	if opts.Responder == nil {
		opts.Responder = DefaultResponder()
	}
	if opts.Icons == nil {
		opts.Icons = NewIconRenderer()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	switch {
	case opts.NoTypingDelay:
		opts.TypingDelay = 0
	case opts.TypingDelay <= 0:
		opts.TypingDelay = defaultTypingDelay
	}
	if opts.StalePolicy == "" {
		opts.StalePolicy = config.StalePolicyAppend
	}

	return &Widget{
		provider:     opts.Provider,
		sched:        opts.Scheduler,
		responder:    opts.Responder,
		icons:        opts.Icons,
		historyLimit: opts.HistoryLimit,
		typingDelay:  opts.TypingDelay,
		stalePolicy:  opts.StalePolicy,
		typingTasks:  make(map[uint64]*schedule.Task),
	}
}

// Open shows the widget. Opening an empty conversation appends the welcome
// message and shows the quick replies.
func (w *Widget) Open() {
	if w.visible {
		return
	}
	w.visible = true
	slog.Debug("butler_open", "messages", w.log.Len())
	if w.log.Len() == 0 {
		w.log.Append(ai.RoleAssistant, WelcomeMessage)
		w.quickShown = true
	}
}

// Close hides the widget. The log is kept.
func (w *Widget) Close() {
	if !w.visible {
		return
	}
	w.visible = false
	slog.Debug("butler_close", "messages", w.log.Len())
}

// Toggle flips visibility.
func (w *Widget) Toggle() {
	if w.visible {
		w.Close()
		return
	}
	w.Open()
}

// Visible reports whether the panel is shown.
func (w *Widget) Visible() bool { return w.visible }

// State reports the lifecycle state.
func (w *Widget) State() State {
	switch {
	case !w.visible:
		return StateClosed
	case w.log.Len() == 0:
		return StateOpenEmpty
	default:
		return StateOpenActive
	}
}

// Messages returns the conversation in display order.
func (w *Widget) Messages() []Entry { return w.log.Entries() }

// Transcript renders the conversation as plain text.
func (w *Widget) Transcript() string { return w.log.Transcript() }

// QuickReplies returns the replies currently shown, or nil when hidden.
func (w *Widget) QuickReplies() []QuickReply {
	if !w.quickShown {
		return nil
	}
	return DefaultQuickReplies()
}

// Typing returns the current indicator, if any.
func (w *Widget) Typing() (TypingIndicator, bool) {
	if w.typing == nil {
		return TypingIndicator{}, false
	}
	return *w.typing, true
}

// Input returns the pending text-input value.
func (w *Widget) Input() string { return w.input }

// SetInput replaces the pending text-input value.
func (w *Widget) SetInput(s string) { w.input = s }

// LatestSeq is the sequence number of the most recent free-text submission.
func (w *Widget) LatestSeq() uint64 { return w.latestSeq }

// InFlight returns the number of free-text calls still awaiting a reply.
func (w *Widget) InFlight() int { return w.inFlight }

// Icons returns the renderer applied after each message render.
func (w *Widget) Icons() IconRenderer { return w.icons }

// SubmitQuickReply answers a quick reply with its canned text after the
// simulated typing delay. The endpoint is never called.
func (w *Widget) SubmitQuickReply(reply QuickReply) tea.Cmd {
	if _, ok := CannedResponse(reply.Action); !ok {
		slog.Warn("butler_quick_reply_unknown", "action", reply.Action)
		return nil
	}

	w.log.Append(ai.RoleUser, reply.Text)
	w.quickShown = false
	ind := w.showTyping()

	task, cmd := w.sched.Schedule(w.typingDelay, quickReplyDue{indicatorID: ind.ID, reply: reply})
	w.typingTasks[ind.ID] = task

	slog.Debug("butler_quick_reply", "action", reply.Action, "indicator_id", ind.ID)
	return cmd
}

// SubmitFreeText sends text to the endpoint. Blank text is ignored. Any
// endpoint failure is answered by the local responder.
func (w *Widget) SubmitFreeText(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	w.log.Append(ai.RoleUser, text)
	w.input = ""
	w.quickShown = false
	ind := w.showTyping()

	w.seq++
	seq := w.seq
	w.latestSeq = seq
	w.inFlight++

	req := ai.ChatRequest{
		Message: text,
		History: w.log.Recent(w.historyLimit),
	}
	provider := w.provider

	slog.Info("butler_chat_start",
		"seq", seq,
		"history_count", len(req.History),
	)

	return func() tea.Msg {
		msg := ChatResultMsg{Seq: seq, IndicatorID: ind.ID, Text: text, owner: w}
		if provider == nil {
			msg.Err = ai.ErrTransport
			return msg
		}
		resp, err := provider.CreateChatCompletion(context.Background(), req)
		msg.Content = resp.Content
		msg.Err = err
		return msg
	}
}

// Update applies completions produced by the commands this widget returned.
// Messages that belong to someone else are ignored.
func (w *Widget) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case schedule.FiredMsg:
		if !w.sched.Owns(msg) {
			return false
		}
		payload, ok := w.sched.Resolve(msg)
		if !ok {
			return true
		}
		due, ok := payload.(quickReplyDue)
		if !ok {
			return false
		}
		w.completeQuickReply(due)
		return true

	case ChatResultMsg:
		if msg.owner != w {
			return false
		}
		w.completeFreeText(msg)
		return true
	}
	return false
}

// Shutdown cancels every pending typing simulation.
func (w *Widget) Shutdown() {
	for id, task := range w.typingTasks {
		task.Cancel()
		delete(w.typingTasks, id)
	}
}

func (w *Widget) completeQuickReply(due quickReplyDue) {
	delete(w.typingTasks, due.indicatorID)
	w.hideTyping(due.indicatorID)

	text, _ := CannedResponse(due.reply.Action)
	w.log.Append(ai.RoleAssistant, text)
	w.quickShown = true
}

func (w *Widget) completeFreeText(msg ChatResultMsg) {
	if w.inFlight > 0 {
		w.inFlight--
	}
	w.hideTyping(msg.IndicatorID)
	defer func() { w.quickShown = true }()

	stale := msg.Seq < w.latestSeq
	if stale {
		slog.Debug("butler_chat_stale",
			"seq", msg.Seq,
			"latest_seq", w.latestSeq,
			"policy", w.stalePolicy,
		)
		if w.stalePolicy == config.StalePolicySuppress {
			return
		}
	}

	var reply string
	switch {
	case msg.Err != nil:
		reply = w.responder.Respond(msg.Text)
		slog.Warn("butler_fallback_local", "seq", msg.Seq, "error", msg.Err)
	case msg.Content == "":
		reply = NoAnswerMessage
		slog.Info("butler_chat_empty_response", "seq", msg.Seq)
	default:
		reply = msg.Content
		slog.Info("butler_chat_done", "seq", msg.Seq, "response_len", len(reply))
	}
	w.log.Append(ai.RoleAssistant, reply)
}

func (w *Widget) showTyping() TypingIndicator {
	w.nextTypeID++
	w.typing = &TypingIndicator{ID: w.nextTypeID}
	return *w.typing
}

func (w *Widget) hideTyping(id uint64) {
	if w.typing != nil && w.typing.ID == id {
		w.typing = nil
	}
}
