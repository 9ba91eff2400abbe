// Package header implements the site header: adaptive navigation, the
// scroll progress indicator and active section highlighting.
//
// A Header never touches a browser directly. It is handed a Viewport and a
// Router, and reads the active section through Sections, so the same code
// renders the first page load and drives a live session.
package header

// Header is the navigation component. It is not safe for concurrent use; the
// owner serialises calls, matching the single event loop it models.
type Header struct {
	vp       Viewport
	router   Router
	sections Sections

	showScroll bool
	onChange   func()

	menu    MenuState
	percent float64
	remove  func()
}

// Option configures a Header.
type Option func(*Header)

// WithProgress shows the scroll progress bar.
func WithProgress(show bool) Option {
	return func(h *Header) { h.showScroll = show }
}

// WithOnChange registers fn to be called after any state change that needs
// a re-render.
func WithOnChange(fn func()) Option {
	return func(h *Header) { h.onChange = fn }
}

// New returns a closed, unmounted header.
func New(vp Viewport, router Router, sections Sections, opts ...Option) *Header {
	h := &Header{vp: vp, router: router, sections: sections}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount subscribes to scroll events. Mounting twice is a no-op.
func (h *Header) Mount() {
	if h.remove != nil {
		return
	}
	h.remove = h.vp.OnScroll(h.handleScroll)
}

// Unmount removes the scroll subscription. It is safe to call more than once.
func (h *Header) Unmount() {
	if h.remove == nil {
		return
	}
	h.remove()
	h.remove = nil
}

// Mounted reports whether the scroll subscription is active.
func (h *Header) Mounted() bool { return h.remove != nil }

func (h *Header) handleScroll() {
	if h.remove == nil {
		return
	}
	h.percent = ScrollPercent(h.vp.Metrics())
	h.changed()
}

// ScrollPercent is the value computed on the last scroll event.
func (h *Header) ScrollPercent() float64 { return h.percent }

// ScrollPercentText is ScrollPercent with two decimals.
func (h *Header) ScrollPercentText() string { return FormatPercent(h.percent) }

// IsSelected reports whether the item with id is highlighted. An explicit
// URL fragment wins; without one the active section decides.
func (h *Header) IsSelected(id string) bool {
	frag := h.vp.Fragment()
	if frag == "" && h.sections.Active().ID == id {
		return true
	}
	return frag == "#"+id
}

// Select handles a click on item: the menu closes, the router navigates, the
// active section moves to item, and leaving the single page resets scroll.
func (h *Header) Select(item MenuItem) {
	h.menu = Transition(h.menu, EventSelect)
	h.router.Navigate(item.Route)
	h.sections.SetActive(ActiveSection{ID: item.ID, ScrollTo: item.Anchor()})
	if !item.Anchor() {
		h.vp.ScrollTo(0, 0)
	}
	h.changed()
}

// ToggleMenu flips the mobile menu.
func (h *Header) ToggleMenu() {
	h.menu = Transition(h.menu, EventToggle)
	h.changed()
}

// Menu returns the current menu state.
func (h *Header) Menu() MenuState { return h.menu }

// Layout is derived from the current viewport width.
func (h *Header) Layout() Layout { return LayoutFor(h.vp.Size().Width) }

// NavHidden reports whether navigation is hidden and out of the tab order.
func (h *Header) NavHidden() bool { return NavHidden(h.vp.Size().Width, h.menu) }

func (h *Header) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}
