// Package viewport renders the scrollable product page and drives the page
// observers from the scroll position.
package viewport

import (
	"log/slog"
	"strings"

	"airbutler/pkg/page"
	"airbutler/pkg/ui/components/utils"
	"airbutler/pkg/ui/styles"
	fmtutil "airbutler/pkg/utils"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// ScrollResult reports what a scroll changed on the page.
type ScrollResult struct {
	Revealed         []*page.Section
	Loaded           []*page.Image
	NavShadow        bool
	NavShadowChanged bool
}

// PageViewport wraps Bubble Tea's viewport for displaying the page document.
type PageViewport struct {
	Viewport  viewport.Model
	doc       *page.Document
	revealer  *page.Revealer
	lazy      *page.LazyImageLoader
	locale    string
	width     int
	navShadow bool
	ready     bool
}

// NewPageViewport creates a viewport over doc. Prices and dates are formatted
// for locale.
func NewPageViewport(doc *page.Document, locale string) PageViewport {
	if locale == "" {
		locale = fmtutil.DefaultLocale
	}
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	return PageViewport{
		Viewport: vp,
		doc:      doc,
		revealer: page.NewRevealer(doc),
		lazy:     page.NewLazyImageLoader(doc),
		locale:   locale,
	}
}

// Document returns the page being shown.
func (v *PageViewport) Document() *page.Document { return v.doc }

// SetSize updates the viewport dimensions, lays the page out again and runs
// the observers once, like a page load.
func (v *PageViewport) SetSize(width, height int) ScrollResult {
	v.width = width
	v.Viewport.SetWidth(width)
	v.Viewport.SetHeight(height)
	v.ready = true
	v.refresh()
	return v.Sync()
}

// Sync checks the observers against the current scroll position.
func (v *PageViewport) Sync() ScrollResult {
	if !v.ready {
		return ScrollResult{}
	}

	vp := page.Viewport{Top: v.Viewport.YOffset(), Height: v.Viewport.Height()}
	res := ScrollResult{Revealed: v.revealer.Check(vp)}
	v.lazy.Check(vp)
	res.Loaded = v.lazy.Loaded()

	shadow := v.revealer.OnScroll(vp.Top)
	res.NavShadowChanged = shadow != v.navShadow
	res.NavShadow = shadow
	v.navShadow = shadow

	for _, s := range res.Revealed {
		slog.Debug("page_section_revealed", "section", s.ID, "top", s.Top)
	}
	for _, img := range res.Loaded {
		slog.Debug("page_image_loaded", "src", img.Src)
	}
	if len(res.Revealed) > 0 || len(res.Loaded) > 0 {
		v.refresh()
	}
	return res
}

// Update handles viewport updates (scrolling, etc)
func (v *PageViewport) Update(msg tea.Msg) (tea.Cmd, ScrollResult) {
	before := v.Viewport.YOffset()
	var cmd tea.Cmd
	v.Viewport, cmd = v.Viewport.Update(msg)
	if v.Viewport.YOffset() == before {
		return cmd, ScrollResult{}
	}
	return cmd, v.Sync()
}

// Scrolling helpers

// ScrollUp scrolls the viewport up
func (v *PageViewport) ScrollUp() ScrollResult {
	v.Viewport.ScrollUp(1)
	return v.Sync()
}

// ScrollDown scrolls the viewport down
func (v *PageViewport) ScrollDown() ScrollResult {
	v.Viewport.ScrollDown(1)
	return v.Sync()
}

// PageUp scrolls up one page
func (v *PageViewport) PageUp() ScrollResult {
	v.Viewport.PageUp()
	return v.Sync()
}

// PageDown scrolls down one page
func (v *PageViewport) PageDown() ScrollResult {
	v.Viewport.PageDown()
	return v.Sync()
}

// GotoTop scrolls to the top of the page
func (v *PageViewport) GotoTop() ScrollResult {
	v.Viewport.GotoTop()
	return v.Sync()
}

// GotoBottom scrolls to the end of the page
func (v *PageViewport) GotoBottom() ScrollResult {
	v.Viewport.GotoBottom()
	return v.Sync()
}

// ScrollPercent returns the scroll position as 0-100.
func (v *PageViewport) ScrollPercent() int {
	if v.Viewport.TotalLineCount() <= v.Viewport.Height() {
		return 100
	}
	return int(v.Viewport.ScrollPercent() * 100)
}

// CurrentSection returns the title of the section at the top of the view.
func (v *PageViewport) CurrentSection() string {
	top := v.Viewport.YOffset()
	title := ""
	for _, s := range v.doc.Sections {
		if s.Top > top {
			break
		}
		title = s.Title
	}
	if title == "" {
		return v.doc.Title
	}
	return title
}

// NavShadow reports whether the nav currently carries its scroll shadow.
func (v *PageViewport) NavShadow() bool { return v.navShadow }

// View renders the viewport
func (v *PageViewport) View() string {
	if !v.ready {
		return "Loading..."
	}
	return v.Viewport.View()
}

// NavView renders the navigation bar, or "" when the page has none.
func (v *PageViewport) NavView() string {
	nav := v.doc.Nav
	if nav == nil {
		return ""
	}
	style := styles.NavStyle
	if nav.Has(page.NavShadowClass) {
		style = styles.NavShadowStyle
	}
	line := utils.TruncateToWidth(strings.Join(nav.Items, "  "), max(v.width-2, 0))
	return utils.PadStyled(style.Render(line), v.width)
}

func (v *PageViewport) refresh() {
	offset := v.Viewport.YOffset()
	v.Viewport.SetContentLines(v.render())
	v.Viewport.SetYOffset(offset)
}

// render lays the document out as lines and records each section's and
// image's position. Hidden and revealed sections take the same number of
// rows so positions never move.
func (v *PageViewport) render() []string {
	width := v.width
	if width < 1 {
		width = 1
	}

	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add(styles.TitleStyle.Render(utils.TruncateToWidth(v.doc.Title, width)))
	if v.doc.Tagline != "" {
		add(styles.TextMutedStyle.Render(utils.TruncateToWidth(v.doc.Tagline, width)))
	}
	add("")

	for _, s := range v.doc.Sections {
		top := len(lines)
		titleStyle, bodyStyle := styles.SectionTitleStyle, styles.TextStyle
		if s.AnimateOnScroll && !s.Has(page.RevealClass) {
			titleStyle, bodyStyle = styles.SectionHiddenStyle, styles.SectionHiddenStyle
		}

		add(titleStyle.Render(utils.TruncateToWidth("■ "+s.Title, width)))
		for _, line := range wrapText(s.Body, width) {
			add(bodyStyle.Render(line))
		}
		for _, p := range s.Products {
			add(v.productLine(p, width))
			if p.Summary != "" {
				add(styles.TextMutedStyle.Render(utils.TruncateToWidth("   "+p.Summary, width)))
			}
		}
		for _, a := range s.Articles {
			add(v.articleLine(a, width))
		}
		for _, img := range s.Images {
			img.SetBounds(len(lines), 1)
			add(imageLine(img, width))
		}

		s.SetBounds(top, len(lines)-top)
		add("")
	}

	return lines
}

func (v *PageViewport) productLine(p page.Product, width int) string {
	name := utils.TruncateToWidth("• "+p.Name, width)
	line := styles.TextBoldStyle.Render(name)
	price := fmtutil.FormatPriceIn(p.Price, v.locale)
	if ansi.StringWidth(name)+2+ansi.StringWidth(price) > width {
		return line
	}
	line += "  " + styles.PriceStyle.Render(price)
	if p.OriginalPrice > p.Price {
		orig := fmtutil.FormatPriceIn(p.OriginalPrice, v.locale)
		if ansi.StringWidth(ansi.Strip(line))+1+ansi.StringWidth(orig) <= width {
			line += " " + styles.OriginalPriceStyle.Render(orig)
		}
	}
	return line
}

func (v *PageViewport) articleLine(a page.Article, width int) string {
	date := a.Published
	if t, err := fmtutil.ParseDate(a.Published); err == nil {
		date = fmtutil.FormatDateIn(t, v.locale)
	}
	text := "• " + a.Title
	if date != "" {
		text += "  " + date
	}
	return styles.TextStyle.Render(utils.TruncateToWidth(text, width))
}

func imageLine(img *page.Image, width int) string {
	if img.Deferred() {
		return styles.PlaceholderStyle.Render(utils.TruncateToWidth("[图片] "+img.Alt, width))
	}
	return styles.TextMutedStyle.Render(utils.TruncateToWidth("[图片] "+img.Src, width))
}

func wrapText(body string, width int) []string {
	body = strings.TrimRight(body, "\n")
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(body, "\n") {
		out = append(out, strings.Split(ansi.Wrap(line, width, ""), "\n")...)
	}
	return out
}
