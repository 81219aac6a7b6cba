package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"airbutler/pkg/ai"
	"airbutler/pkg/butler"
	"airbutler/pkg/page"
	"airbutler/pkg/ui/components/butlerpanel"
	"airbutler/pkg/ui/components/testutils"
	"airbutler/pkg/ui/components/toast"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type stubProvider struct {
	content string
	err     error
}

func (s stubProvider) CreateChatCompletion(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
	return ai.ChatResponse{Content: s.content}, s.err
}

func newTestModel(t *testing.T, provider ai.Provider) Model {
	t.Helper()
	doc, err := page.Default()
	if err != nil {
		t.Fatalf("page.Default() failed: %v", err)
	}
	w := butler.New(butler.Options{
		Provider:      provider,
		Icons:         butler.TextIcons{ASCII: true},
		NoTypingDelay: true,
	})
	m := NewModel(Options{
		Document: doc,
		Widget:   w,
		Provider: "stub",
		Version:  "1.2.3",
		Locale:   "zh-CN",
	})
	return resize(m, 80, 24)
}

func resize(m Model, w, h int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}

func screen(m Model) string {
	return ansi.Strip(m.Render())
}

func TestModel_InitializingBeforeSize(t *testing.T) {
	doc, _ := page.Default()
	m := NewModel(Options{Document: doc})
	if got := m.Render(); got != "Initializing..." {
		t.Errorf("Render() = %q, want Initializing...", got)
	}
}

func TestModel_RenderFillsScreen(t *testing.T) {
	m := newTestModel(t, nil)

	lines := strings.Split(screen(m), "\n")
	if len(lines) != 24 {
		t.Fatalf("Expected 24 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "产品中心") {
		t.Errorf("Expected nav on the first line, got %q", lines[0])
	}
	if !strings.Contains(lines[23], "[airbutler]") {
		t.Errorf("Expected status bar on the last line, got %q", lines[23])
	}
	if !strings.Contains(lines[23], "stub") {
		t.Errorf("Expected provider in status bar, got %q", lines[23])
	}
}

func TestModel_FABShownWhileClosed(t *testing.T) {
	m := newTestModel(t, nil)

	out := screen(m)
	if !strings.Contains(out, "[管家] AI管家") {
		t.Errorf("Expected FAB on screen, got:\n%s", out)
	}
	if strings.Contains(out, "AI 空气管家") {
		t.Error("Panel should not render while closed")
	}
}

func TestModel_CtrlBOpensAndEscCloses(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(t, m, testutils.TestKeyCtrlB)
	if !m.Widget().Visible() {
		t.Fatal("Expected Ctrl+B to open the widget")
	}
	out := screen(m)
	if !strings.Contains(out, "AI 空气管家") {
		t.Errorf("Expected panel title, got:\n%s", out)
	}
	if strings.Contains(out, "AI管家 Ctrl+B") {
		t.Error("FAB should be hidden while the panel is open")
	}
	if !strings.Contains(out, "Esc 关闭管家") {
		t.Error("Expected status bar close hint")
	}

	m, _ = send(t, m, testutils.TestKeyEsc)
	if m.Widget().Visible() {
		t.Error("Expected Esc to close the widget")
	}
	if len(m.Widget().Messages()) != 1 {
		t.Errorf("Expected log kept after close, got %d entries", len(m.Widget().Messages()))
	}
}

func TestModel_CtrlBTogglesEveryPress(t *testing.T) {
	m := newTestModel(t, nil)

	for i, want := range []bool{true, false, true, false} {
		m, _ = send(t, m, testutils.TestKeyCtrlB)
		if got := m.Widget().Visible(); got != want {
			t.Fatalf("press %d: visible = %v, want %v", i+1, got, want)
		}
	}
	if got := len(m.Widget().Messages()); got != 1 {
		t.Errorf("Expected a single welcome entry, got %d", got)
	}
}

func TestModel_MissingAnchorsDisableWidget(t *testing.T) {
	doc, err := page.Parse([]byte("title: 空白页\nsections:\n  - id: intro\n    title: 介绍\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	m := NewModel(Options{Document: doc, Widget: butler.New(butler.Options{})})
	m = resize(m, 80, 24)

	if m.Widget() != nil {
		t.Fatal("Expected no widget without anchors")
	}
	m, _ = send(t, m, testutils.TestKeyCtrlB)

	out := screen(m)
	if strings.Contains(out, "AI管家") {
		t.Error("FAB should not render without anchors")
	}
	if !strings.Contains(out, "管家不可用") {
		t.Error("Expected unavailable hint in status bar")
	}
}

func TestModel_FreeTextRoundTrip(t *testing.T) {
	m := newTestModel(t, stubProvider{content: "建议选择**净化器 Pro**"})
	m, _ = send(t, m, testutils.TestKeyCtrlB)

	cmd := m.Widget().SubmitFreeText("推荐一款净化器")
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if !strings.Contains(screen(m), "管家正在回复") {
		t.Error("Expected busy message while the request is in flight")
	}

	m, _ = send(t, m, cmd())
	msgs := m.Widget().Messages()
	if got := msgs[len(msgs)-1].Content; got != "建议选择**净化器 Pro**" {
		t.Errorf("Expected endpoint reply, got %q", got)
	}
	out := screen(m)
	if strings.Contains(out, "管家正在回复") {
		t.Error("Busy message should clear after the reply")
	}
	if !strings.Contains(out, "净化器 Pro") {
		t.Errorf("Expected reply in panel, got:\n%s", out)
	}
}

func TestModel_HelpCommandShowsResult(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := send(t, m, butlerpanel.CommandMsg{Line: "/help"})
	if cmd != nil {
		t.Error("Expected no command for a multi-line result")
	}
	if !m.result.IsVisible() {
		t.Fatal("Expected result panel for /help")
	}
	if !strings.Contains(screen(m), "/copy") {
		t.Error("Expected help content on screen")
	}

	m, _ = send(t, m, testutils.NewTextKeyPressMsg("q"))
	if m.result.IsVisible() {
		t.Error("Expected q to close the result panel")
	}
}

func TestModel_QuestionMarkRunsHelp(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(t, m, testutils.NewTextKeyPressMsg("?"))
	if !m.result.IsVisible() {
		t.Error("Expected ? to open help")
	}
}

func TestModel_CommandToasts(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind toast.Kind
		wantText string
	}{
		{"version", "/version", toast.KindInfo, "airbutler 1.2.3"},
		{"unknown", "/nope", toast.KindError, "未知命令：/nope"},
		{"copy empty", "/copy", toast.KindInfo, "暂无对话可复制"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil)
			m, cmd := send(t, m, butlerpanel.CommandMsg{Line: tt.line})
			if cmd == nil {
				t.Fatal("Expected a toast command")
			}
			got := m.toasts.Toasts()
			if len(got) != 1 {
				t.Fatalf("Expected 1 toast, got %d", len(got))
			}
			if got[0].Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got[0].Kind, tt.wantKind)
			}
			if got[0].Message != tt.wantText {
				t.Errorf("Message = %q, want %q", got[0].Message, tt.wantText)
			}
			if !strings.Contains(screen(m), tt.wantText) {
				t.Error("Expected toast on screen")
			}
		})
	}
}

func TestModel_CloseCommand(t *testing.T) {
	m := newTestModel(t, nil)
	m.Widget().Open()

	m, _ = send(t, m, butlerpanel.CommandMsg{Line: "/close"})
	if m.Widget().Visible() {
		t.Error("Expected /close to close the widget")
	}
}

func TestModel_CopiedMsg(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(t, m, butlerpanel.CopiedMsg{})
	got := m.toasts.Toasts()
	if len(got) != 1 || got[0].Kind != toast.KindSuccess || got[0].Message != "已复制对话记录" {
		t.Errorf("Unexpected toasts %+v", got)
	}
}

func TestModel_PageScrolling(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(t, m, testutils.TestKeyEnd)
	if got := m.page.ScrollPercent(); got != 100 {
		t.Errorf("Expected 100%% after End, got %d", got)
	}
	m, _ = send(t, m, testutils.TestKeyHome)
	if got := m.page.Viewport.YOffset(); got != 0 {
		t.Errorf("Expected top after Home, got offset %d", got)
	}

	wheel := testutils.NewWheelMsg(2, 5, tea.MouseWheelDown)
	m, _ = send(t, m, wheel)
	if m.page.Viewport.YOffset() == 0 {
		t.Error("Expected wheel to scroll the page")
	}
}

func TestModel_WheelBurstIsThrottled(t *testing.T) {
	m := newTestModel(t, nil)

	wheel := testutils.NewWheelMsg(2, 5, tea.MouseWheelDown)
	m, _ = send(t, m, wheel)
	first := m.page.Viewport.YOffset()
	if first == 0 {
		t.Fatal("Expected the first wheel event to scroll")
	}
	m, _ = send(t, m, wheel)
	m, _ = send(t, m, wheel)
	if got := m.page.Viewport.YOffset(); got != first {
		t.Errorf("Expected burst to be dropped, offset %d -> %d", first, got)
	}

	time.Sleep(wheelThrottle + 20*time.Millisecond)
	m, _ = send(t, m, wheel)
	if got := m.page.Viewport.YOffset(); got <= first {
		t.Errorf("Expected scrolling to resume after the window, offset %d", got)
	}
}

func TestModel_WheelOverPanelLeavesPage(t *testing.T) {
	m := newTestModel(t, nil)
	m.Widget().Open()

	x, y, _, _ := m.layout.PanelRect()
	wheel := testutils.NewWheelMsg(x+2, y+2, tea.MouseWheelDown)
	m, _ = send(t, m, wheel)
	if m.page.Viewport.YOffset() != 0 {
		t.Error("Wheel over the panel must not scroll the page")
	}
}

func TestModel_KeysGoToPanelWhileOpen(t *testing.T) {
	m := newTestModel(t, nil)
	m.Widget().Open()

	m, cmd := send(t, m, testutils.NewTextKeyPressMsg("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("q must be typed into the panel while it is open")
		}
	}
	if got := m.Widget().Input(); got != "q" {
		t.Errorf("Expected q in the input, got %q", got)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, nil)
	m.Widget().Open()

	_, cmd := send(t, m, testutils.TestKeyCtrlC)
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_ResizeIsDebounced(t *testing.T) {
	doc, _ := page.Default()
	msgs := make(chan tea.Msg, 4)
	m := NewModel(Options{
		Document: doc,
		Send:     func(msg tea.Msg) { msgs <- msg },
	})
	m = resize(m, 80, 24)
	defer m.Shutdown()

	m = resize(m, 100, 30)
	m = resize(m, 120, 40)
	if m.width != 80 {
		t.Errorf("Expected width to wait for the debounce, got %d", m.width)
	}

	select {
	case msg := <-msgs:
		m, _ = send(t, m, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for relayout")
	}
	if m.width != 120 || m.height != 40 {
		t.Errorf("Expected last size 120x40, got %dx%d", m.width, m.height)
	}
	select {
	case <-msgs:
		t.Error("Expected a single relayout for the burst")
	case <-time.After(250 * time.Millisecond):
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, nil)

	v := m.View()
	if !v.AltScreen {
		t.Error("Expected alt screen")
	}
	if v.MouseMode != tea.MouseModeCellMotion {
		t.Error("Expected cell motion mouse mode")
	}
	if v.WindowTitle != windowTitle {
		t.Errorf("WindowTitle = %q", v.WindowTitle)
	}
}
