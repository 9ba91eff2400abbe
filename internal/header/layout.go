package header

// MobileBreakpoint is the widest viewport, in CSS pixels, rendered with the
// mobile layout.
const MobileBreakpoint = 736

// Layout is the rendering branch selected by viewport width.
type Layout int

const (
	Desktop Layout = iota
	Mobile
)

func (l Layout) String() string {
	if l == Mobile {
		return "mobile"
	}
	return "desktop"
}

// LayoutFor returns the layout for a viewport width.
func LayoutFor(width int) Layout {
	if width <= MobileBreakpoint {
		return Mobile
	}
	return Desktop
}

// NavHidden reports whether the navigation is hidden from view and from
// keyboard focus. Only a closed menu in the mobile layout hides it.
func NavHidden(width int, s MenuState) bool {
	return LayoutFor(width) == Mobile && s == MenuClosed
}
