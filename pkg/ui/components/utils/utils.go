// Package utils holds width helpers shared by the UI components. Widths are
// terminal cells, so CJK text counts two per rune.
package utils

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateToWidth cuts plain text to width cells, ending in an ellipsis when
// there is room for one.
func TruncateToWidth(text string, width int) string {
	switch {
	case width <= 0:
		return ""
	case width <= len(ellipsis):
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// PadPlain right-pads plain text with spaces to width.
func PadPlain(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.FillRight(text, width)
}

// PadStyled right-pads text that may carry ANSI styling.
func PadStyled(text string, width int) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// ClipBlock keeps at most h lines of a styled block, each cut to w cells.
func ClipBlock(block string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	lines := strings.Split(block, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > w {
			lines[i] = ansi.Truncate(line, w, "")
		}
	}
	return strings.Join(lines, "\n")
}
