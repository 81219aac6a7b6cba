package butler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"airbutler/pkg/ai"
	"airbutler/pkg/config"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/exp/golden"
)

type fakeProvider struct {
	requests []ai.ChatRequest
	content  string
	err      error
}

func (f *fakeProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return ai.ChatResponse{}, f.err
	}
	return ai.ChatResponse{Content: f.content}, nil
}

func newTestWidget(p ai.Provider) *Widget {
	return New(Options{Provider: p, NoTypingDelay: true, Icons: TextIcons{ASCII: true}})
}

// run executes cmd synchronously and feeds its message back to the widget.
func run(t *testing.T, w *Widget, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if !w.Update(cmd()) {
		t.Fatal("expected widget to handle its own message")
	}
}

func TestOpenAppendsWelcomeOnce(t *testing.T) {
	w := newTestWidget(nil)
	if w.State() != StateClosed {
		t.Fatalf("expected closed, got %s", w.State())
	}

	w.Open()
	w.Open()

	msgs := w.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 welcome entry, got %d", len(msgs))
	}
	if msgs[0].Role != ai.RoleAssistant || msgs[0].Content != WelcomeMessage {
		t.Fatalf("unexpected welcome entry: %+v", msgs[0])
	}
	if got := len(w.QuickReplies()); got != 4 {
		t.Fatalf("expected 4 quick replies, got %d", got)
	}
	if w.State() != StateOpenActive {
		t.Fatalf("expected open-active, got %s", w.State())
	}
}

func TestToggleNeverDuplicatesWelcome(t *testing.T) {
	w := newTestWidget(nil)
	for i := 0; i < 7; i++ {
		w.Toggle()
	}
	if !w.Visible() {
		t.Fatal("expected widget visible after odd number of toggles")
	}
	if got := len(w.Messages()); got != 1 {
		t.Fatalf("expected exactly 1 welcome entry, got %d", got)
	}

	w.Close()
	if w.State() != StateClosed {
		t.Fatalf("expected closed, got %s", w.State())
	}
	w.Open()
	if got := len(w.Messages()); got != 1 {
		t.Fatalf("reopen must not add a second welcome, got %d entries", got)
	}
}

func TestSubmitQuickReply(t *testing.T) {
	for _, reply := range DefaultQuickReplies() {
		t.Run(string(reply.Action), func(t *testing.T) {
			p := &fakeProvider{}
			w := newTestWidget(p)
			w.Open()

			cmd := w.SubmitQuickReply(reply)
			if w.QuickReplies() != nil {
				t.Fatal("expected quick replies hidden while typing")
			}
			if _, ok := w.Typing(); !ok {
				t.Fatal("expected typing indicator")
			}

			run(t, w, cmd)

			msgs := w.Messages()
			if len(msgs) != 3 {
				t.Fatalf("expected welcome + user + assistant, got %d", len(msgs))
			}
			if msgs[1].Role != ai.RoleUser || msgs[1].Content != reply.Text {
				t.Fatalf("unexpected user entry: %+v", msgs[1])
			}
			want, _ := CannedResponse(reply.Action)
			if msgs[2].Role != ai.RoleAssistant || msgs[2].Content != want {
				t.Fatalf("unexpected assistant entry: %+v", msgs[2])
			}
			if _, ok := w.Typing(); ok {
				t.Fatal("expected typing indicator removed")
			}
			if got := len(w.QuickReplies()); got != 4 {
				t.Fatalf("expected 4 quick replies again, got %d", got)
			}
			if len(p.requests) != 0 {
				t.Fatalf("quick replies must not call the endpoint, got %d calls", len(p.requests))
			}
		})
	}
}

func TestSubmitQuickReplyUnknownAction(t *testing.T) {
	w := newTestWidget(nil)
	w.Open()
	if cmd := w.SubmitQuickReply(QuickReply{Text: "转人工", Action: "transfer"}); cmd != nil {
		t.Fatal("expected nil command for unknown action")
	}
	if got := len(w.Messages()); got != 1 {
		t.Fatalf("expected no new entries, got %d", got)
	}
}

func TestSubmitFreeTextBlankIsNoop(t *testing.T) {
	p := &fakeProvider{content: "x"}
	w := newTestWidget(p)
	w.Open()
	w.SetInput("   ")

	for _, text := range []string{"", "   ", "\t\n"} {
		if cmd := w.SubmitFreeText(text); cmd != nil {
			t.Fatalf("expected nil command for %q", text)
		}
	}

	if got := len(w.Messages()); got != 1 {
		t.Fatalf("expected no new entries, got %d", got)
	}
	if w.Input() != "   " {
		t.Fatalf("blank submit must not clear input, got %q", w.Input())
	}
	if _, ok := w.Typing(); ok {
		t.Fatal("blank submit must not show a typing indicator")
	}
	if w.LatestSeq() != 0 {
		t.Fatalf("blank submit must not consume a sequence number, got %d", w.LatestSeq())
	}
}

func TestSubmitFreeTextSuccess(t *testing.T) {
	p := &fakeProvider{content: "森林呼吸Pro适合新装修的家"}
	w := newTestWidget(p)
	w.Open()
	w.SetInput("  推荐一款  ")

	cmd := w.SubmitFreeText(w.Input())
	if w.Input() != "" {
		t.Fatalf("expected input cleared, got %q", w.Input())
	}
	if w.InFlight() != 1 {
		t.Fatalf("expected 1 call in flight, got %d", w.InFlight())
	}
	run(t, w, cmd)

	msgs := w.Messages()
	if msgs[1].Content != "推荐一款" {
		t.Fatalf("expected trimmed user text, got %q", msgs[1].Content)
	}
	if msgs[2].Content != p.content {
		t.Fatalf("expected endpoint reply, got %q", msgs[2].Content)
	}
	if len(p.requests) != 1 || p.requests[0].Message != "推荐一款" {
		t.Fatalf("unexpected requests: %+v", p.requests)
	}
	last := p.requests[0].History[len(p.requests[0].History)-1]
	if last.Role != ai.RoleUser || last.Content != "推荐一款" {
		t.Fatalf("history snapshot must include the new user entry, got %+v", last)
	}
	if got := len(w.QuickReplies()); got != 4 {
		t.Fatalf("expected quick replies again, got %d", got)
	}
	if w.InFlight() != 0 {
		t.Fatalf("expected nothing in flight, got %d", w.InFlight())
	}
}

func TestSubmitFreeTextEmptyResponse(t *testing.T) {
	w := newTestWidget(&fakeProvider{content: ""})
	w.Open()
	run(t, w, w.SubmitFreeText("你好"))

	msgs := w.Messages()
	if got := msgs[len(msgs)-1].Content; got != NoAnswerMessage {
		t.Fatalf("expected no-answer fallback, got %q", got)
	}
}

func TestSubmitFreeTextFailureUsesLocalResponder(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", fmt.Errorf("%w: dial tcp: refused", ai.ErrTransport)},
		{"status", fmt.Errorf("%w: status 502", ai.ErrStatus)},
		{"malformed", fmt.Errorf("%w: invalid character '<'", ai.ErrMalformed)},
		{"timeout", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWidget(&fakeProvider{err: tt.err})
			w.Open()
			run(t, w, w.SubmitFreeText("甲醛"))

			msgs := w.Messages()
			got := msgs[len(msgs)-1].Content
			rule, _ := DefaultResponder().Match("甲醛")
			if got != rule.Response {
				t.Fatalf("expected formaldehyde answer, got %q", got)
			}
			if got == GenericFallback {
				t.Fatal("must not fall through to the generic answer")
			}
		})
	}
}

func TestNilProviderFallsBackLocally(t *testing.T) {
	w := newTestWidget(nil)
	w.Open()
	run(t, w, w.SubmitFreeText("多少钱"))

	msgs := w.Messages()
	if got := msgs[len(msgs)-1].Content; !strings.Contains(got, "1299元") {
		t.Fatalf("expected price answer, got %q", got)
	}
}

func TestHistoryNeverExceedsLimit(t *testing.T) {
	p := &fakeProvider{content: "好的"}
	w := newTestWidget(p)
	w.Open()

	for i := 0; i < 51; i++ {
		run(t, w, w.SubmitFreeText(fmt.Sprintf("问题%d", i)))
	}

	for i, req := range p.requests {
		if len(req.History) > 10 {
			t.Fatalf("request %d carried %d history entries", i, len(req.History))
		}
	}
	last := p.requests[len(p.requests)-1]
	if len(last.History) != 10 {
		t.Fatalf("expected full window of 10, got %d", len(last.History))
	}
	if got := len(w.Messages()); got != 1+51*2 {
		t.Fatalf("expected full log retained, got %d entries", got)
	}
}

func TestCompletionHidesOnlyItsOwnIndicator(t *testing.T) {
	w := newTestWidget(&fakeProvider{content: "ok"})
	w.Open()

	freeCmd := w.SubmitFreeText("噪音大吗")
	first, _ := w.Typing()
	quickCmd := w.SubmitQuickReply(DefaultQuickReplies()[0])
	second, _ := w.Typing()
	if first.ID == second.ID {
		t.Fatal("expected a fresh indicator")
	}

	run(t, w, freeCmd)
	cur, ok := w.Typing()
	if !ok || cur.ID != second.ID {
		t.Fatal("stale completion must not hide the newer indicator")
	}

	run(t, w, quickCmd)
	if _, ok := w.Typing(); ok {
		t.Fatal("expected indicator hidden after its own completion")
	}
}

func TestStalePolicy(t *testing.T) {
	tests := []struct {
		policy      string
		wantEntries int
	}{
		{config.StalePolicyAppend, 5},
		{config.StalePolicySuppress, 4},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			w := New(Options{Provider: &fakeProvider{content: "ok"}, StalePolicy: tt.policy})
			w.Open()

			slow := w.SubmitFreeText("第一个")
			fast := w.SubmitFreeText("第二个")
			if w.LatestSeq() != 2 {
				t.Fatalf("expected latest seq 2, got %d", w.LatestSeq())
			}

			run(t, w, fast)
			run(t, w, slow)

			if got := len(w.Messages()); got != tt.wantEntries {
				t.Fatalf("expected %d entries, got %d", tt.wantEntries, got)
			}
			if _, ok := w.Typing(); ok {
				t.Fatal("expected no indicator left")
			}
			if got := len(w.QuickReplies()); got != 4 {
				t.Fatalf("expected quick replies shown, got %d", got)
			}
		})
	}
}

func TestLateResponseAppendsWhileClosed(t *testing.T) {
	w := newTestWidget(&fakeProvider{content: "稍后回复"})
	w.Open()
	cmd := w.SubmitFreeText("在吗")
	w.Close()

	run(t, w, cmd)
	msgs := w.Messages()
	if msgs[len(msgs)-1].Content != "稍后回复" {
		t.Fatal("expected late response appended while closed")
	}
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	a := newTestWidget(&fakeProvider{content: "a"})
	b := newTestWidget(&fakeProvider{content: "b"})
	a.Open()
	b.Open()

	msg := a.SubmitFreeText("hi")()
	if b.Update(msg) {
		t.Fatal("widget b must ignore a's completion")
	}
	quick := a.SubmitQuickReply(DefaultQuickReplies()[1])()
	if b.Update(quick) {
		t.Fatal("widget b must ignore a's timer")
	}
	if got := len(b.Messages()); got != 1 {
		t.Fatalf("widget b changed: %d entries", got)
	}
	if b.Update(tea.KeyPressMsg{}) {
		t.Fatal("unrelated messages are not handled")
	}
}

func TestShutdownCancelsTypingTasks(t *testing.T) {
	w := New(Options{})
	w.Open()
	if cmd := w.SubmitQuickReply(DefaultQuickReplies()[2]); cmd == nil {
		t.Fatal("expected a command")
	}
	ind, ok := w.Typing()
	if !ok {
		t.Fatal("expected typing indicator")
	}
	task := w.typingTasks[ind.ID]
	if task == nil {
		t.Fatal("expected a typing task")
	}
	w.Shutdown()

	if w.sched.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", w.sched.Pending())
	}
	if !task.Cancelled() {
		t.Fatal("expected task cancelled")
	}
	if !w.Update(task.Msg()) {
		t.Fatal("widget should still claim its own fired message")
	}
	if got := len(w.Messages()); got != 2 {
		t.Fatalf("cancelled reply must not append, got %d entries", got)
	}
}

func TestTypingDelay(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want time.Duration
	}{
		{"zero value uses default", Options{}, time.Second},
		{"explicit delay", Options{TypingDelay: 250 * time.Millisecond}, 250 * time.Millisecond},
		{"negative uses default", Options{TypingDelay: -time.Second}, time.Second},
		{"no delay", Options{TypingDelay: time.Second, NoTypingDelay: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.opts)
			w.Open()
			before := time.Now()
			w.SubmitQuickReply(DefaultQuickReplies()[0])
			after := time.Now()

			ind, _ := w.Typing()
			task := w.typingTasks[ind.ID]
			if task == nil {
				t.Fatal("expected a typing task")
			}
			fireAt := task.FireAt()
			if fireAt.Before(before.Add(tt.want)) || fireAt.After(after.Add(tt.want)) {
				t.Errorf("task due %v after submit, want %v", fireAt.Sub(before), tt.want)
			}
			w.Shutdown()
		})
	}
}

func TestOptionsFromConfigTypingDelay(t *testing.T) {
	cfg := config.Default()
	if w := New(OptionsFromConfig(cfg, nil)); w.typingDelay != time.Second {
		t.Errorf("default config delay = %v, want 1s", w.typingDelay)
	}
	cfg.TypingDelayMs = 0
	if w := New(OptionsFromConfig(cfg, nil)); w.typingDelay != 0 {
		t.Errorf("typing_delay_ms 0 delay = %v, want 0", w.typingDelay)
	}
}

func TestTranscriptGolden(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	w := newTestWidget(p)
	w.Open()

	run(t, w, w.SubmitQuickReply(DefaultQuickReplies()[0]))
	run(t, w, w.SubmitFreeText("甲醛"))
	p.err = nil
	p.content = ""
	run(t, w, w.SubmitFreeText("今天天气如何"))

	golden.RequireEqual(t, []byte(w.Transcript()))
}
