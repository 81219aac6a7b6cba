package ui

import (
	"airbutler/pkg/ui/render"
)

const (
	panelMaxWidth  = 48
	panelMaxHeight = 22
	overlayMargin  = 1
)

// LayoutManager handles the overall UI layout: an optional nav line, the page,
// the status bar, and the floating butler elements above them.
type LayoutManager struct {
	width  int
	height int
	hasNav bool
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager(hasNav bool) *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
		hasNav: hasNav,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}

// PageTop is the first screen row of the page viewport.
func (lm *LayoutManager) PageTop() int {
	if lm.hasNav {
		return 1
	}
	return 0
}

// PageHeight returns the height available for the page
// (total height minus nav and status bar)
func (lm *LayoutManager) PageHeight() int {
	return render.ViewportHeight(lm.height, lm.hasNav)
}

// PanelRect is where the open butler panel floats: bottom-right, above the
// status bar, never over the nav.
func (lm *LayoutManager) PanelRect() (x, y, w, h int) {
	maxH := panelMaxHeight
	if avail := lm.PageHeight(); maxH > avail {
		maxH = avail
	}
	return render.AnchorBottomRight(panelMaxWidth, maxH, lm.width, lm.height-1, overlayMargin, 0)
}

// FABRect is where the closed butler button sits.
func (lm *LayoutManager) FABRect(fabWidth int) (x, y, w, h int) {
	return render.AnchorBottomRight(fabWidth, 1, lm.width, lm.height-1, overlayMargin+1, 1)
}

// ToastRect stacks toasts in the top-right corner below the nav.
func (lm *LayoutManager) ToastRect(w, h int) (int, int, int, int) {
	return render.AnchorTopRight(w, h, lm.width, lm.height-1, overlayMargin, lm.PageTop())
}
