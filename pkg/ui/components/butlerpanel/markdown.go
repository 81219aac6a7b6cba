package butlerpanel

import (
	"strings"

	"airbutler/pkg/ui/components/utils"
	"airbutler/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

type markdownToken struct {
	text string
	bold bool
}

// renderMarkdown wraps a message body to width. It understands **bold**
// spans, fenced code and <br> line breaks, which is all the shop endpoint
// ever sends back.
func renderMarkdown(content string, width int, base lipgloss.Style) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = sanitizeContent(normalized)
	normalized = strings.ReplaceAll(normalized, "<br>", "\n")
	normalized = strings.ReplaceAll(normalized, "<br/>", "\n")
	normalized = strings.ReplaceAll(normalized, "<br />", "\n")

	var rendered []string
	inCode := false
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			rendered = append(rendered, renderCodeLine(line, width)...)
			continue
		}
		rendered = append(rendered, renderMarkdownLine(line, width, base)...)
	}

	if len(rendered) == 0 {
		return []string{""}
	}
	return rendered
}

func renderMarkdownLine(line string, width int, base lipgloss.Style) []string {
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}
	tokens := tokenizeBoldWords(line)
	if len(tokens) == 0 {
		return []string{""}
	}
	return wrapTokens(tokens, width, base)
}

func renderCodeLine(line string, width int) []string {
	if width <= 0 {
		return []string{line}
	}
	parts := splitByWidth(line, width)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, codeStyle.Render(utils.PadPlain(part, width)))
	}
	return lines
}

func tokenizeBoldWords(line string) []markdownToken {
	var tokens []markdownToken
	bold := false

	for len(line) > 0 {
		idx := strings.Index(line, "**")
		segment := line
		if idx >= 0 {
			segment = line[:idx]
		}
		for _, word := range strings.Fields(segment) {
			tokens = append(tokens, markdownToken{text: word, bold: bold})
		}
		if idx < 0 {
			break
		}
		bold = !bold
		line = line[idx+2:]
	}

	return tokens
}

func wrapTokens(tokens []markdownToken, width int, base lipgloss.Style) []string {
	if width <= 0 {
		return []string{""}
	}

	var lines []string
	var lineTokens []markdownToken
	lineWidth := 0

	flush := func() {
		lines = append(lines, renderTokenLine(lineTokens, base))
		lineTokens = nil
		lineWidth = 0
	}

	for _, token := range tokens {
		for _, part := range splitByWidth(token.text, width) {
			partWidth := runewidth.StringWidth(part)
			if lineWidth > 0 && lineWidth+1+partWidth > width {
				flush()
			}
			if lineWidth > 0 {
				lineWidth++
			}
			lineTokens = append(lineTokens, markdownToken{text: part, bold: token.bold})
			lineWidth += partWidth
		}
	}
	if len(lineTokens) > 0 {
		flush()
	}

	return lines
}

func renderTokenLine(tokens []markdownToken, base lipgloss.Style) string {
	var sb strings.Builder
	for i, token := range tokens {
		if i > 0 {
			sb.WriteString(base.Render(" "))
		}
		if token.bold {
			sb.WriteString(base.Bold(true).Render(token.text))
		} else {
			sb.WriteString(base.Render(token.text))
		}
	}
	return sb.String()
}

// splitByWidth cuts text into chunks no wider than width. CJK text has no
// spaces, so this is what actually wraps most butler replies.
func splitByWidth(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += rw
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

func sanitizeContent(content string) string {
	if content == "" {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var codeStyle = lipgloss.NewStyle().
	Foreground(styles.ColorText).
	Background(styles.ColorInfo)
