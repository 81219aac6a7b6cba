package page

// PixelsPerRow converts CSS pixel values to terminal rows.
const PixelsPerRow = 16

// PixelsToRows rounds a pixel length to whole rows.
func PixelsToRows(px int) int {
	return (px + PixelsPerRow/2) / PixelsPerRow
}

// Target is anything with a laid-out position.
type Target interface {
	Bounds() (top, height int)
}

// Viewport is the visible window of the page, in rows.
type Viewport struct {
	Top    int
	Height int
}

// ObserverOptions mirrors the subset of IntersectionObserver options in use.
type ObserverOptions struct {
	// Threshold is the visible fraction at which a target counts as
	// intersecting. Zero means any overlap.
	Threshold float64
	// RootMarginBottom shrinks the viewport from the bottom, in rows.
	RootMarginBottom int
}

// IntersectionEntry reports one target's visibility in a check.
type IntersectionEntry struct {
	Target Target
	Ratio  float64
}

// IntersectionObserver reports which observed targets intersect the viewport.
type IntersectionObserver struct {
	opts     ObserverOptions
	targets  []Target
	callback func(entries []IntersectionEntry, o *IntersectionObserver)
}

// NewIntersectionObserver creates an observer that calls cb from Check with
// the targets currently intersecting.
func NewIntersectionObserver(cb func([]IntersectionEntry, *IntersectionObserver), opts ObserverOptions) *IntersectionObserver {
	return &IntersectionObserver{opts: opts, callback: cb}
}

func (o *IntersectionObserver) Observe(t Target) {
	for _, existing := range o.targets {
		if existing == t {
			return
		}
	}
	o.targets = append(o.targets, t)
}

func (o *IntersectionObserver) Unobserve(t Target) {
	for i, existing := range o.targets {
		if existing == t {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			return
		}
	}
}

// Observed returns how many targets are still watched.
func (o *IntersectionObserver) Observed() int {
	return len(o.targets)
}

// Check evaluates all targets against vp. The callback may unobserve targets.
func (o *IntersectionObserver) Check(vp Viewport) {
	rootTop := vp.Top
	rootBottom := vp.Top + vp.Height - o.opts.RootMarginBottom
	if rootBottom <= rootTop {
		return
	}

	var entries []IntersectionEntry
	for _, t := range o.targets {
		ratio, ok := o.intersect(t, rootTop, rootBottom)
		if ok {
			entries = append(entries, IntersectionEntry{Target: t, Ratio: ratio})
		}
	}
	if len(entries) > 0 && o.callback != nil {
		o.callback(entries, o)
	}
}

func (o *IntersectionObserver) intersect(t Target, rootTop, rootBottom int) (float64, bool) {
	top, height := t.Bounds()
	if height <= 0 {
		// Zero-height elements intersect when their edge lies inside the root.
		if top >= rootTop && top < rootBottom {
			return 1, true
		}
		return 0, false
	}

	overlap := min(top+height, rootBottom) - max(top, rootTop)
	if overlap <= 0 {
		return 0, false
	}
	ratio := float64(overlap) / float64(height)
	return ratio, ratio >= o.opts.Threshold
}
