package ui

import (
	"airbutler/pkg/ui/components/utils"
	"airbutler/pkg/ui/render"

	"charm.land/lipgloss/v2"
)

// addOverlayLayer centers view on the screen at z.
func addOverlayLayer(layers []*lipgloss.Layer, view string, screenW, screenH, z int) []*lipgloss.Layer {
	if view == "" {
		return layers
	}
	x, y, w, h := render.CenterRect(lipgloss.Width(view), lipgloss.Height(view), screenW, screenH)
	return addLayerAt(layers, view, x, y, w, h, z)
}

// addLayerAt places view at (x, y), clipped to w by h cells.
func addLayerAt(layers []*lipgloss.Layer, view string, x, y, w, h, z int) []*lipgloss.Layer {
	if view == "" || w <= 0 || h <= 0 {
		return layers
	}
	return append(layers, lipgloss.NewLayer(utils.ClipBlock(view, w, h)).X(x).Y(y).Z(z))
}
