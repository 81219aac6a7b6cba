// Package result shows multi-line slash command output in a centered box.
package result

import (
	"strings"

	"airbutler/pkg/ui/components/utils"
	"airbutler/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	maxPanelWidth  = 64
	maxPanelHeight = 24
	// border + vertical padding + title + blank line + footer
	panelChrome = 2 + 2 + 2 + 1
)

// ResultPanel displays command execution results
type ResultPanel struct {
	title   string
	visible bool
	width   int
	height  int
	scrollY int
	lines   []string
}

// NewResultPanel creates a new result panel
func NewResultPanel() *ResultPanel {
	return &ResultPanel{}
}

// Show displays the result panel with content
func (rp *ResultPanel) Show(title, content string) {
	rp.title = title
	rp.visible = true
	rp.scrollY = 0
	rp.lines = strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// Hide hides the result panel
func (rp *ResultPanel) Hide() {
	rp.visible = false
}

// IsVisible returns whether the panel is visible
func (rp *ResultPanel) IsVisible() bool {
	return rp.visible
}

// Title returns the shown title.
func (rp *ResultPanel) Title() string {
	return rp.title
}

// SetSize sets the screen dimensions the panel is centered in.
func (rp *ResultPanel) SetSize(width, height int) {
	rp.width = width
	rp.height = height
}

// ResultPanelCloseMsg is sent when the result panel is closed
type ResultPanelCloseMsg struct{}

// Update handles keyboard input for the result panel
func (rp *ResultPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	maxScroll := len(rp.lines) - rp.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}

	switch msg.String() {
	case "esc", "enter", "q":
		rp.Hide()
		return func() tea.Msg {
			return ResultPanelCloseMsg{}
		}

	case "up":
		if rp.scrollY > 0 {
			rp.scrollY--
		}

	case "down":
		if rp.scrollY < maxScroll {
			rp.scrollY++
		}

	case "pgup":
		rp.scrollY -= 10
		if rp.scrollY < 0 {
			rp.scrollY = 0
		}

	case "pgdown":
		rp.scrollY += 10
		if rp.scrollY > maxScroll {
			rp.scrollY = maxScroll
		}
	}

	return nil
}

func (rp *ResultPanel) panelSize() (int, int) {
	w := rp.width - 4
	if w > maxPanelWidth {
		w = maxPanelWidth
	}
	h := rp.height - 2
	if h > maxPanelHeight {
		h = maxPanelHeight
	}
	return w, h
}

func (rp *ResultPanel) visibleLines() int {
	_, h := rp.panelSize()
	n := h - panelChrome
	if n < 3 {
		n = 3
	}
	return n
}

// View renders the result panel
func (rp *ResultPanel) View() string {
	if !rp.visible {
		return ""
	}

	panelWidth, _ := rp.panelSize()
	contentWidth := panelWidth - 6
	if contentWidth < 1 {
		contentWidth = 1
	}

	var sb strings.Builder
	sb.WriteString(styles.TitleStyle.Render(utils.TruncateToWidth(rp.title, contentWidth)))
	sb.WriteString("\n\n")

	visible := rp.visibleLines()
	end := rp.scrollY + visible
	if end > len(rp.lines) {
		end = len(rp.lines)
	}
	for i := rp.scrollY; i < end; i++ {
		sb.WriteString(styles.TextStyle.Render(utils.TruncateToWidth(rp.lines[i], contentWidth)))
		sb.WriteString("\n")
	}

	if len(rp.lines) > visible {
		sb.WriteString(styles.FooterStyle.Render("↑↓ 滚动 • "))
	}
	sb.WriteString(styles.FooterStyle.Render("Esc/q 关闭"))

	return styles.BoxStyle.Width(panelWidth).Render(sb.String())
}
