package page

// LazyImageLoader promotes an image's DataSrc to Src the first time it comes
// near the viewport.
type LazyImageLoader struct {
	observer *IntersectionObserver
	loaded   []*Image
}

// NewLazyImageLoader observes every deferred image in doc.
func NewLazyImageLoader(doc *Document) *LazyImageLoader {
	l := &LazyImageLoader{}
	l.observer = NewIntersectionObserver(l.onIntersect, ObserverOptions{})
	for _, img := range doc.Images() {
		if img.Deferred() {
			l.observer.Observe(img)
		}
	}
	return l
}

func (l *LazyImageLoader) onIntersect(entries []IntersectionEntry, o *IntersectionObserver) {
	for _, e := range entries {
		img, ok := e.Target.(*Image)
		if !ok {
			continue
		}
		img.Src = img.DataSrc
		img.DataSrc = ""
		l.loaded = append(l.loaded, img)
		o.Unobserve(img)
	}
}

// Check loads images intersecting vp.
func (l *LazyImageLoader) Check(vp Viewport) {
	l.loaded = l.loaded[:0]
	l.observer.Check(vp)
}

// Loaded returns the images promoted by the last Check.
func (l *LazyImageLoader) Loaded() []*Image {
	out := make([]*Image, len(l.loaded))
	copy(out, l.loaded)
	return out
}

// Pending returns how many images are still deferred.
func (l *LazyImageLoader) Pending() int {
	return l.observer.Observed()
}
