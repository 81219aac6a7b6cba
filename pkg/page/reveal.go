package page

const (
	// RevealClass marks a section that has played its entrance animation.
	RevealClass = "animate-fade-in"
	// NavShadowClass is set on the nav while the page is scrolled.
	NavShadowClass = "shadow-md"

	revealThreshold   = 0.1
	revealMarginPx    = 50
	navShadowOffsetPx = 50
)

// Revealer adds RevealClass to animate-on-scroll sections the first time each
// enters the viewport, and toggles the nav shadow on scroll.
type Revealer struct {
	observer *IntersectionObserver
	nav      *Nav
	revealed []*Section
}

// NewRevealer observes every section marked animate_on_scroll.
func NewRevealer(doc *Document) *Revealer {
	r := &Revealer{nav: doc.Nav}
	r.observer = NewIntersectionObserver(r.onIntersect, ObserverOptions{
		Threshold:        revealThreshold,
		RootMarginBottom: PixelsToRows(revealMarginPx),
	})
	for _, s := range doc.Sections {
		if s.AnimateOnScroll {
			r.observer.Observe(s)
		}
	}
	return r
}

func (r *Revealer) onIntersect(entries []IntersectionEntry, o *IntersectionObserver) {
	for _, e := range entries {
		s, ok := e.Target.(*Section)
		if !ok {
			continue
		}
		s.Add(RevealClass)
		r.revealed = append(r.revealed, s)
		o.Unobserve(s)
	}
}

// Check reveals sections visible in vp and returns the newly revealed ones.
func (r *Revealer) Check(vp Viewport) []*Section {
	r.revealed = r.revealed[:0]
	r.observer.Check(vp)
	if len(r.revealed) == 0 {
		return nil
	}
	out := make([]*Section, len(r.revealed))
	copy(out, r.revealed)
	return out
}

// Pending returns how many sections have not been revealed yet.
func (r *Revealer) Pending() int {
	return r.observer.Observed()
}

// OnScroll updates the nav shadow for a scroll offset in rows and reports
// whether the shadow is on. Without a nav it does nothing.
func (r *Revealer) OnScroll(offsetRows int) bool {
	if r.nav == nil {
		return false
	}
	if offsetRows*PixelsPerRow > navShadowOffsetPx {
		r.nav.Add(NavShadowClass)
	} else {
		r.nav.Remove(NavShadowClass)
	}
	return r.nav.Has(NavShadowClass)
}
