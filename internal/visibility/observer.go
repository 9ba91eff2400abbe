// Package visibility reports which page section is in view.
//
// Sections register a Target with an Observer and receive Entries whenever
// their intersection with the viewport changes. Displayed wraps that in the
// handle a section component holds for its lifetime.
package visibility

// Target is an observable element. Bounds reports false while the element
// is not laid out.
type Target interface {
	Bounds() (Rect, bool)
}

// Subscription identifies one Observe call. The zero value is never issued.
type Subscription uint64

// Entry describes a target's intersection with the viewport.
type Entry struct {
	Target       Target
	Bounds       Rect
	Root         Rect
	Intersection Rect
	// Ratio is the visible fraction of the target.
	Ratio float64
	// Coverage is the visible height over the smaller of target and viewport
	// height. A section taller than the screen that fills it has coverage 1.
	Coverage       float64
	IsIntersecting bool
	// Dominant is set when Coverage reaches the observer threshold.
	Dominant bool
}

// Callback receives entries for one subscription.
type Callback func(Entry)

// Observer is the intersection capability sections depend on.
type Observer interface {
	Observe(t Target, cb Callback) Subscription
	Unobserve(s Subscription)
}
