// Package butlerpanel draws the floating butler chat panel and routes
// keyboard input to the butler widget.
package butlerpanel

import (
	"fmt"
	"os"
	"strings"

	"airbutler/pkg/ai"
	"airbutler/pkg/butler"
	"airbutler/pkg/commands"
	"airbutler/pkg/ui/components/utils"
	"airbutler/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	panelBorderSize = 1
	panelPaddingH   = 1
	panelPaddingV   = 0
	textareaHeight  = 2

	panelTitle  = "AI 空气管家"
	typingLabel = "管家正在输入…"
	footerHint  = "Enter 发送 | Tab 快捷回复 | Esc 关闭"
)

// FocusTarget indicates which part of the panel has focus.
type FocusTarget int

const (
	FocusInput FocusTarget = iota
	FocusQuickReplies
)

// CommandMsg is returned when the user submits a slash command instead of a
// chat message.
type CommandMsg struct {
	Line string
}

// CopiedMsg reports that the transcript was written to the clipboard.
type CopiedMsg struct {
	Empty bool
}

// Panel renders a butler.Widget and owns its text input.
type Panel struct {
	widget   *butler.Widget
	commands *commands.Dispatcher

	width   int
	height  int
	scrollY int
	lines   []string
	follow  bool

	textarea textarea.Model
	focused  FocusTarget
	selected int
}

// New creates a panel for w. Lines naming a command registered with d are
// handed back as CommandMsg; a nil d uses the built-in commands.
func New(w *butler.Widget, d *commands.Dispatcher) *Panel {
	if d == nil {
		d = commands.NewDispatcher()
	}

	ta := textarea.New()
	ta.Placeholder = "请输入您的问题…"
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.SetHeight(textareaHeight)
	ta.Focus()

	return &Panel{
		widget:   w,
		commands: d,
		textarea: ta,
		focused:  FocusInput,
		follow:   true,
	}
}

// Widget returns the widget being drawn.
func (p *Panel) Widget() *butler.Widget { return p.widget }

// SetSize sets the outer panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.Refresh()
}

// Size returns the outer panel dimensions.
func (p *Panel) Size() (int, int) { return p.width, p.height }

// Focus returns the focused part of the panel.
func (p *Panel) Focus() FocusTarget { return p.focused }

// Selected returns the index of the highlighted quick reply.
func (p *Panel) Selected() int { return p.selected }

// ShouldHandleKey returns true when the panel should intercept the key.
// The panel is modal while open; only the global bindings pass through.
func (p *Panel) ShouldHandleKey(msg tea.KeyPressMsg) bool {
	if !p.widget.Visible() {
		return false
	}
	switch msg.String() {
	case "ctrl+c", "ctrl+b":
		return false
	}
	return true
}

// Update handles keyboard input for the panel.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !p.widget.Visible() {
		return nil
	}

	switch msg.String() {
	case "esc":
		p.widget.Close()
		return nil
	case "tab", "shift+tab":
		p.toggleFocus()
		return nil
	case "pgup", "pgdown":
		return p.handleScroll(msg.String())
	case "ctrl+y":
		return p.CopyTranscript()
	}

	if p.focused == FocusQuickReplies {
		return p.updateQuickReplies(msg)
	}

	switch msg.String() {
	case "enter":
		return p.submit()
	case "up", "down":
		return p.handleScroll(msg.String())
	}

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	p.widget.SetInput(p.textarea.Value())
	return cmd
}

func (p *Panel) updateQuickReplies(msg tea.KeyPressMsg) tea.Cmd {
	replies := p.widget.QuickReplies()
	if len(replies) == 0 {
		p.focusInput()
		return nil
	}
	if p.selected >= len(replies) {
		p.selected = len(replies) - 1
	}

	switch msg.String() {
	case "left", "h":
		if p.selected > 0 {
			p.selected--
		}
	case "right", "l":
		if p.selected < len(replies)-1 {
			p.selected++
		}
	case "up", "down":
		return p.handleScroll(msg.String())
	case "enter", "space":
		reply := replies[p.selected]
		p.follow = true
		p.focusInput()
		return p.widget.SubmitQuickReply(reply)
	}
	return nil
}

func (p *Panel) submit() tea.Cmd {
	value := p.textarea.Value()
	if strings.TrimSpace(value) == "" {
		return nil
	}
	p.textarea.Reset()
	p.widget.SetInput("")

	if p.commands.Handles(value) {
		line := strings.TrimSpace(value)
		return func() tea.Msg { return CommandMsg{Line: line} }
	}

	p.follow = true
	return p.widget.SubmitFreeText(value)
}

func (p *Panel) toggleFocus() {
	if p.focused == FocusInput && len(p.widget.QuickReplies()) > 0 {
		p.focused = FocusQuickReplies
		p.textarea.Blur()
		return
	}
	p.focusInput()
}

func (p *Panel) focusInput() {
	p.focused = FocusInput
	p.textarea.Focus()
}

// HandlePaste routes paste content to the textarea.
func (p *Panel) HandlePaste(content string) {
	if !p.widget.Visible() {
		return
	}
	p.focusInput()
	p.textarea.InsertString(content)
	p.widget.SetInput(p.textarea.Value())
}

// HandleMouse scrolls the message list on wheel events.
func (p *Panel) HandleMouse(msg tea.MouseWheelMsg) tea.Cmd {
	if !p.widget.Visible() {
		return nil
	}
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		return p.handleScroll("up")
	case tea.MouseWheelDown:
		return p.handleScroll("down")
	}
	return nil
}

// handleScroll processes scroll key events and returns nil command.
func (p *Panel) handleScroll(key string) tea.Cmd {
	maxScroll := p.maxScroll()

	switch key {
	case "up":
		if p.scrollY > 0 {
			p.scrollY--
			p.follow = false
		}
	case "down":
		if p.scrollY < maxScroll {
			p.scrollY++
		}
		p.follow = p.scrollY >= maxScroll
	case "pgup":
		p.scrollY -= 10
		if p.scrollY < 0 {
			p.scrollY = 0
		}
		p.follow = false
	case "pgdown":
		p.scrollY += 10
		if p.scrollY > maxScroll {
			p.scrollY = maxScroll
		}
		p.follow = p.scrollY >= maxScroll
	}

	return nil
}

// CopyTranscript writes the conversation to the clipboard via OSC 52.
func (p *Panel) CopyTranscript() tea.Cmd {
	text := p.widget.Transcript()
	return func() tea.Msg {
		if text == "" {
			return CopiedMsg{Empty: true}
		}
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return CopiedMsg{}
	}
}

// Refresh re-renders the message list from the widget log. Icon placeholders
// are materialized after each message is rendered.
func (p *Panel) Refresh() {
	width := p.contentWidth()
	icons := p.widget.Icons()

	var lines []string
	for i, entry := range p.widget.Messages() {
		if i > 0 {
			lines = append(lines, "")
		}
		rendered := icons.Materialize(renderEntry(entry))
		lines = append(lines, renderMarkdown(rendered, width, entryStyle(entry.Role))...)
	}
	if _, ok := p.widget.Typing(); ok {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		typing := icons.Materialize(butler.IconBot + " " + typingLabel)
		lines = append(lines, styles.TypingStyle.Render(utils.TruncateToWidth(typing, width)))
	}

	p.lines = lines
	if p.follow || p.scrollY > p.maxScroll() {
		p.scrollY = p.maxScroll()
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
}

// Lines returns the rendered message lines.
func (p *Panel) Lines() []string { return p.lines }

func renderEntry(entry butler.Entry) string {
	if entry.Role == ai.RoleUser {
		return butler.IconUser + " " + entry.Content
	}
	return butler.IconBot + " " + entry.Content
}

func entryStyle(role string) lipgloss.Style {
	if role == ai.RoleUser {
		return styles.UserMessageStyle
	}
	return styles.BotMessageStyle
}

// View renders the panel, or "" while the widget is closed.
func (p *Panel) View() string {
	if !p.widget.Visible() {
		return ""
	}
	p.Refresh()

	contentWidth := p.contentWidth()
	contentHeight := p.contentHeight()
	chips := p.renderQuickReplies(contentWidth)

	lines := make([]string, 0, contentHeight)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(utils.TruncateToWidth(panelTitle, contentWidth)), contentWidth))

	viewportHeight := p.viewportHeight()
	end := p.scrollY + viewportHeight
	if end > len(p.lines) {
		end = len(p.lines)
	}
	for i := p.scrollY; i < end; i++ {
		lines = append(lines, utils.PadStyled(p.lines[i], contentWidth))
	}
	for len(lines) < 1+viewportHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	lines = append(lines, chips...)
	lines = append(lines, strings.Repeat("─", contentWidth))

	p.textarea.SetWidth(contentWidth)
	for i, line := range strings.Split(p.textarea.View(), "\n") {
		if i >= textareaHeight {
			break
		}
		lines = append(lines, utils.PadStyled(line, contentWidth))
	}
	lines = append(lines, utils.PadStyled(styles.FooterStyle.Render(utils.TruncateToWidth(footerHint, contentWidth)), contentWidth))
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	boxWidth := p.width
	if boxWidth < 1 {
		boxWidth = 1
	}
	return styles.ButlerBoxStyle.
		Width(boxWidth).
		Padding(panelPaddingV, panelPaddingH).
		Render(strings.Join(lines, "\n"))
}

// renderQuickReplies lays the chips out on one line, wrapping when they do
// not fit. It returns nil while the replies are hidden.
func (p *Panel) renderQuickReplies(width int) []string {
	replies := p.widget.QuickReplies()
	if len(replies) == 0 {
		return nil
	}

	var rows []string
	var current []string
	currentWidth := 0
	for i, reply := range replies {
		chip := styles.ChipStyle.Render(reply.Text)
		if p.focused == FocusQuickReplies && i == p.selected {
			chip = styles.ChipSelectedStyle.Render(reply.Text)
		}
		w := lipgloss.Width(chip)
		if currentWidth > 0 && currentWidth+1+w > width {
			rows = append(rows, utils.PadStyled(strings.Join(current, " "), width))
			current, currentWidth = nil, 0
		}
		if currentWidth > 0 {
			currentWidth++
		}
		current = append(current, chip)
		currentWidth += w
	}
	if len(current) > 0 {
		rows = append(rows, utils.PadStyled(strings.Join(current, " "), width))
	}
	return rows
}

func (p *Panel) contentWidth() int {
	width := p.width - 2*(panelBorderSize+panelPaddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (p *Panel) contentHeight() int {
	height := p.height - 2*(panelBorderSize+panelPaddingV)
	if height < 1 {
		return 1
	}
	return height
}

// viewportHeight is what is left for messages after the title, the quick
// replies, the separator, the textarea and the footer.
func (p *Panel) viewportHeight() int {
	chrome := 1 + 1 + textareaHeight + 1
	if len(p.widget.QuickReplies()) > 0 {
		chrome += len(p.renderQuickReplies(p.contentWidth()))
	}
	h := p.contentHeight() - chrome
	if h < 1 {
		return 1
	}
	return h
}

func (p *Panel) maxScroll() int {
	max := len(p.lines) - p.viewportHeight()
	if max < 0 {
		return 0
	}
	return max
}
