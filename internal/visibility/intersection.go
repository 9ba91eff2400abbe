package visibility

import (
	"cmp"
	"slices"
	"sync"
)

// DefaultThreshold is the coverage at which a section becomes dominant.
const DefaultThreshold = 0.5

// RootFunc returns the current viewport rectangle in document coordinates.
type RootFunc func() Rect

// IntersectionObserver computes target/viewport intersections whenever the
// owner signals a geometry change through Check. It never polls.
type IntersectionObserver struct {
	root      RootFunc
	threshold float64

	mu   sync.Mutex
	next Subscription
	subs map[Subscription]*observation
}

type observation struct {
	target Target
	cb     Callback

	seen         bool
	intersecting bool
	dominant     bool
}

// IntersectionOption configures an IntersectionObserver.
type IntersectionOption func(*IntersectionObserver)

// WithThreshold overrides DefaultThreshold. Values outside (0, 1] are ignored.
func WithThreshold(t float64) IntersectionOption {
	return func(o *IntersectionObserver) {
		if t > 0 && t <= 1 {
			o.threshold = t
		}
	}
}

// NewIntersectionObserver returns an observer measuring against root.
func NewIntersectionObserver(root RootFunc, opts ...IntersectionOption) *IntersectionObserver {
	o := &IntersectionObserver{
		root:      root,
		threshold: DefaultThreshold,
		subs:      make(map[Subscription]*observation),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Observe starts watching t. The initial state is delivered right away if t
// is laid out. A nil target yields the zero Subscription and no callbacks.
func (o *IntersectionObserver) Observe(t Target, cb Callback) Subscription {
	if t == nil || cb == nil {
		return 0
	}
	o.mu.Lock()
	o.next++
	sub := o.next
	obs := &observation{target: t, cb: cb}
	o.subs[sub] = obs
	root := o.root()
	entry, deliver := o.measure(obs, root)
	o.mu.Unlock()

	if deliver {
		cb(entry)
	}
	return sub
}

// Unobserve stops watching. Unknown or zero subscriptions are ignored.
func (o *IntersectionObserver) Unobserve(s Subscription) {
	o.mu.Lock()
	delete(o.subs, s)
	o.mu.Unlock()
}

// Disconnect drops every subscription.
func (o *IntersectionObserver) Disconnect() {
	o.mu.Lock()
	clear(o.subs)
	o.mu.Unlock()
}

// Len returns the number of live subscriptions.
func (o *IntersectionObserver) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// Check re-measures every target against the current root and delivers an
// entry to each subscription whose intersecting or dominant state changed.
// Callbacks run after the lock is released and may call Observe/Unobserve.
//
// Entries are delivered in subscription order, except that targets becoming
// dominant go last, least visible first. A consumer that keeps the latest
// report therefore settles on the most visible section, and on the earliest
// registered one when several are equally visible.
func (o *IntersectionObserver) Check() {
	o.mu.Lock()
	root := o.root()
	var out []delivery
	for sub, obs := range o.subs {
		if entry, ok := o.measure(obs, root); ok {
			out = append(out, delivery{sub, obs.cb, entry})
		}
	}
	o.mu.Unlock()

	slices.SortFunc(out, compareDelivery)
	for _, d := range out {
		d.cb(d.entry)
	}
}

type delivery struct {
	sub   Subscription
	cb    Callback
	entry Entry
}

func compareDelivery(a, b delivery) int {
	switch {
	case a.entry.Dominant && !b.entry.Dominant:
		return 1
	case !a.entry.Dominant && b.entry.Dominant:
		return -1
	case a.entry.Dominant:
		if c := cmp.Compare(a.entry.Intersection.Height, b.entry.Intersection.Height); c != 0 {
			return c
		}
		return cmp.Compare(b.sub, a.sub)
	}
	return cmp.Compare(a.sub, b.sub)
}

// measure updates obs and reports whether its state changed. Callers hold o.mu.
func (o *IntersectionObserver) measure(obs *observation, root Rect) (Entry, bool) {
	bounds, ok := obs.target.Bounds()
	if !ok {
		return Entry{}, false
	}
	e := Entry{Target: obs.target, Bounds: bounds, Root: root}
	e.Intersection = bounds.Intersect(root)
	if !e.Intersection.Empty() {
		e.IsIntersecting = true
		if !bounds.Empty() {
			e.Ratio = (e.Intersection.Width * e.Intersection.Height) / (bounds.Width * bounds.Height)
		}
		if span := min(bounds.Height, root.Height); span > 0 {
			e.Coverage = e.Intersection.Height / span
		}
		e.Dominant = e.Coverage >= o.threshold
	}

	changed := !obs.seen || e.IsIntersecting != obs.intersecting || e.Dominant != obs.dominant
	obs.seen = true
	obs.intersecting = e.IsIntersecting
	obs.dominant = e.Dominant
	return e, changed
}
