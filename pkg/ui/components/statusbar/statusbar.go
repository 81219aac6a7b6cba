// Package statusbar renders the one-line bar at the bottom of the page view.
package statusbar

import (
	"fmt"
	"strings"

	"airbutler/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const (
	prefix         = "[airbutler]"
	minGap         = 2
	contentPadding = 2
)

// StatusBarView shows the current section (or a message) on the left and the
// gateway, scroll position and butler hint on the right.
type StatusBarView struct {
	section  string
	message  string
	provider string
	percent  int
	butler   bool
	butlerOn bool
	width    int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetSection updates the section title under the top of the viewport.
func (s *StatusBarView) SetSection(title string) {
	s.section = strings.TrimSpace(title)
}

// SetMessage sets a temporary message. It replaces the section while set.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetProvider updates the chat gateway label.
func (s *StatusBarView) SetProvider(name string) {
	s.provider = strings.TrimSpace(name)
}

// SetScroll records how far down the page the viewport is, in percent.
func (s *StatusBarView) SetScroll(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.percent = percent
}

// SetButler records whether the page has a butler and whether it is open.
func (s *StatusBarView) SetButler(available, open bool) {
	s.butler = available
	s.butlerOn = open
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

func (s *StatusBarView) rightContent() string {
	provider := s.provider
	if provider == "" {
		provider = "local"
	}
	hint := "管家不可用"
	switch {
	case s.butler && s.butlerOn:
		hint = "Esc 关闭管家"
	case s.butler:
		hint = "Ctrl+B 打开管家"
	}
	return fmt.Sprintf("%s | %d%% | %s", provider, s.percent, hint)
}

// Render returns the styled status bar string, exactly width cells wide.
func (s *StatusBarView) Render() string {
	rightContent := s.rightContent()
	rightWidth := ansi.StringWidth(rightContent)

	innerWidth := s.width - contentPadding
	if innerWidth < 0 {
		innerWidth = 0
	}

	innerContent := ""
	if innerWidth > 0 && rightWidth > innerWidth {
		innerContent = ansi.Truncate(rightContent, innerWidth, "")
	} else if innerWidth > 0 {
		leftText := s.section
		if s.message != "" {
			leftText = s.message
		}

		leftContent := prefix
		leftAvailable := innerWidth - rightWidth - minGap
		if leftAvailable < 0 {
			leftAvailable = 0
		}

		prefixWidth := ansi.StringWidth(prefix)
		if leftAvailable >= prefixWidth+1 {
			bodyWidth := leftAvailable - prefixWidth - 1
			if bodyWidth > 0 && leftText != "" {
				leftContent = prefix + " " + ansi.Truncate(leftText, bodyWidth, "…")
			}
		} else if leftAvailable < prefixWidth {
			leftContent = ansi.Truncate(prefix, leftAvailable, "")
		}

		gap := innerWidth - ansi.StringWidth(leftContent) - rightWidth
		if gap < 0 {
			gap = 0
		}
		innerContent = leftContent + strings.Repeat(" ", gap) + rightContent
	}

	if w := ansi.StringWidth(innerContent); w < innerWidth {
		innerContent += strings.Repeat(" ", innerWidth-w)
	} else if w > innerWidth {
		innerContent = ansi.Truncate(innerContent, innerWidth, "")
	}

	full := innerContent
	if s.width >= contentPadding {
		full = " " + innerContent + " "
	}
	return styles.StatusBarStyle.Render(full)
}
