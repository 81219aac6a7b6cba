// Package ui composes the airbutler terminal: the product page, the status
// bar and the floating butler widget drawn over them.
package ui

import (
	"log/slog"
	"strings"
	"time"

	"airbutler/pkg/butler"
	"airbutler/pkg/commands"
	"airbutler/pkg/page"
	"airbutler/pkg/ui/components/butlerpanel"
	"airbutler/pkg/ui/components/result"
	"airbutler/pkg/ui/components/statusbar"
	"airbutler/pkg/ui/components/toast"
	"airbutler/pkg/ui/components/viewport"
	"airbutler/pkg/ui/styles"
	"airbutler/pkg/utils"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	resizeDebounce = 100 * time.Millisecond
	wheelThrottle  = 50 * time.Millisecond

	windowTitle = "AI 空气管家"
	fabLabel    = butler.IconBot + " AI管家 Ctrl+B"
	busyMessage = "管家正在回复…"
)

// Layer order, bottom to top.
const (
	zBase = iota
	zFAB
	zPanel
	zToast
	zResult
)

// Options wires the model to its collaborators.
type Options struct {
	Document   *page.Document
	Widget     *butler.Widget
	Toasts     *toast.Stack
	Dispatcher *commands.Dispatcher
	Provider   string
	Version    string
	Locale     string

	// Send delivers messages from outside the update loop. Without it
	// resizes apply immediately.
	Send func(tea.Msg)
}

// relayoutMsg carries the settled terminal size after a resize burst.
type relayoutMsg struct {
	width  int
	height int
}

// wheelScroll carries one page wheel event through the throttle and brings
// back the viewport's command.
type wheelScroll struct {
	msg tea.MouseWheelMsg
	cmd tea.Cmd
}

// Model represents the Bubble Tea application state
type Model struct {
	doc        *page.Document
	page       *viewport.PageViewport
	widget     *butler.Widget
	panel      *butlerpanel.Panel
	toasts     *toast.Stack
	result     *result.ResultPanel
	statusBar  *statusbar.StatusBarView
	dispatcher *commands.Dispatcher
	layout     *LayoutManager

	provider string
	version  string

	scrollPage func(*wheelScroll)
	resize     func(relayoutMsg)
	stopResize func()

	width  int
	height int
	ready  bool
}

// NewModel creates the root model. A page without the butler anchors keeps
// the page usable and leaves the widget out.
func NewModel(opts Options) Model {
	pv := viewport.NewPageViewport(opts.Document, opts.Locale)

	m := Model{
		doc:        opts.Document,
		page:       &pv,
		toasts:     opts.Toasts,
		result:     result.NewResultPanel(),
		statusBar:  statusbar.NewStatusBarView(),
		dispatcher: opts.Dispatcher,
		layout:     NewLayoutManager(opts.Document != nil && opts.Document.Nav != nil),
		provider:   opts.Provider,
		version:    opts.Version,
	}
	if m.toasts == nil {
		m.toasts = toast.New(nil)
	}
	if m.dispatcher == nil {
		m.dispatcher = commands.NewDispatcher()
	}

	if opts.Widget != nil {
		if opts.Document != nil && opts.Document.HasButler() {
			m.widget = opts.Widget
			m.panel = butlerpanel.New(opts.Widget, m.dispatcher)
		} else {
			slog.Warn("butler_anchor_missing", "anchor", page.AnchorWidget)
		}
	}

	// Trackpads emit wheel events far faster than the page can redraw.
	m.scrollPage = utils.Throttle(func(s *wheelScroll) {
		s.cmd, _ = pv.Update(s.msg)
	}, wheelThrottle)

	if opts.Send != nil {
		send := opts.Send
		m.resize, m.stopResize = utils.Debounce(func(msg relayoutMsg) { send(msg) }, resizeDebounce)
	}

	return m
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return nil
}

// Widget returns the butler widget, or nil when the page cannot host it.
func (m Model) Widget() *butler.Widget { return m.widget }

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready || m.resize == nil {
			m.relayout(msg.Width, msg.Height)
			return m, nil
		}
		m.resize(relayoutMsg{width: msg.Width, height: msg.Height})
		return m, nil

	case relayoutMsg:
		m.relayout(msg.width, msg.height)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		cmd := m.handleWheel(msg)
		return m, cmd

	case tea.PasteMsg:
		if m.panel != nil {
			m.panel.HandlePaste(msg.Content)
		}
		return m, nil

	case butlerpanel.CommandMsg:
		cmd := m.runCommand(msg.Line)
		return m, cmd

	case butlerpanel.CopiedMsg:
		if msg.Empty {
			return m, m.toasts.Show("暂无对话可复制", toast.KindInfo)
		}
		return m, m.toasts.Show("已复制对话记录", toast.KindSuccess)

	case result.ResultPanelCloseMsg:
		return m, nil
	}

	if m.widget != nil && m.widget.Update(msg) {
		return m, nil
	}
	cmd, _ := m.toasts.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	if m.result.IsVisible() {
		cmd := m.result.Update(msg)
		return m, cmd
	}

	if m.widget != nil {
		if msg.String() == "ctrl+b" {
			m.widget.Toggle()
			return m, nil
		}
		if m.panel.ShouldHandleKey(msg) {
			cmd := m.panel.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "home":
		m.page.GotoTop()
		return m, nil
	case "end":
		m.page.GotoBottom()
		return m, nil
	case "?":
		cmd := m.runCommand("/help")
		return m, cmd
	}

	cmd, _ := m.page.Update(msg)
	return m, cmd
}

func (m Model) handleWheel(msg tea.MouseWheelMsg) tea.Cmd {
	if m.widget != nil && m.widget.Visible() {
		mouse := msg.Mouse()
		x, y, w, h := m.layout.PanelRect()
		if mouse.X >= x && mouse.X < x+w && mouse.Y >= y && mouse.Y < y+h {
			return m.panel.HandleMouse(msg)
		}
	}
	s := &wheelScroll{msg: msg}
	m.scrollPage(s)
	return s.cmd
}

// runCommand dispatches a slash command and presents its result.
func (m Model) runCommand(line string) tea.Cmd {
	ctx := commands.NewContext(m.widget, m.version)
	res, ok := m.dispatcher.DispatchLine(line, ctx)
	if !ok || res == nil {
		return nil
	}

	if res.Error != nil {
		slog.Warn("command_failed", "line", line, "error", res.Error)
		return m.toasts.Show(res.Content, toast.KindError)
	}

	switch res.Action {
	case commands.ActionClose:
		if m.widget != nil {
			m.widget.Close()
		}
		return nil
	case commands.ActionCopy:
		if m.panel == nil {
			return nil
		}
		return m.panel.CopyTranscript()
	}

	if res.Content == "" {
		return nil
	}
	if strings.Contains(res.Content, "\n") {
		m.result.Show(res.Title, res.Content)
		return nil
	}
	return m.toasts.Show(res.Content, toast.KindInfo)
}

func (m *Model) relayout(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.layout.SetSize(width, height)
	m.page.SetSize(width, m.layout.PageHeight())
	m.statusBar.SetWidth(width)
	m.result.SetSize(width, height)
	if m.panel != nil {
		_, _, w, h := m.layout.PanelRect()
		m.panel.SetSize(w, h)
	}
	slog.Debug("ui_relayout", "width", width, "height", height)
}

// Shutdown cancels pending timers. Safe to call more than once.
func (m Model) Shutdown() {
	m.shutdown()
}

func (m Model) shutdown() {
	if m.widget != nil {
		m.widget.Shutdown()
	}
	if m.stopResize != nil {
		m.stopResize()
	}
	for _, t := range m.toasts.Toasts() {
		m.toasts.Dismiss(t.ID)
	}
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = windowTitle
	return v
}

// Render returns the composed screen as a string.
func (m Model) Render() string {
	if !m.ready {
		return "Initializing..."
	}

	m.updateStatusBar()

	var sections []string
	if nav := m.page.NavView(); nav != "" {
		sections = append(sections, nav)
	}
	sections = append(sections, m.page.View(), m.statusBar.Render())
	base := lipgloss.JoinVertical(lipgloss.Left, sections...)

	layers := []*lipgloss.Layer{lipgloss.NewLayer(base).Z(zBase)}

	if m.widget != nil {
		if m.widget.Visible() {
			x, y, w, h := m.layout.PanelRect()
			layers = addLayerAt(layers, m.panel.View(), x, y, w, h, zPanel)
		} else {
			fab := styles.FABStyle.Render(m.widget.Icons().Materialize(fabLabel))
			x, y, w, h := m.layout.FABRect(lipgloss.Width(fab))
			layers = addLayerAt(layers, fab, x, y, w, h, zFAB)
		}
	}

	if m.toasts.Len() > 0 {
		view := m.toasts.View(lipgloss.Width(m.toasts.View(0)))
		x, y, w, h := m.layout.ToastRect(lipgloss.Width(view), lipgloss.Height(view))
		layers = addLayerAt(layers, view, x, y, w, h, zToast)
	}

	if m.result.IsVisible() {
		layers = addOverlayLayer(layers, m.result.View(), m.width, m.height, zResult)
	}

	if len(layers) == 1 {
		return base
	}
	return lipgloss.NewCompositor(layers...).Render()
}

func (m Model) updateStatusBar() {
	m.statusBar.SetSection(m.page.CurrentSection())
	m.statusBar.SetScroll(m.page.ScrollPercent())
	m.statusBar.SetProvider(m.provider)
	m.statusBar.SetButler(m.widget != nil, m.widget != nil && m.widget.Visible())
	if m.widget != nil && m.widget.InFlight() > 0 {
		m.statusBar.SetMessage(busyMessage)
	} else {
		m.statusBar.SetMessage("")
	}
}
