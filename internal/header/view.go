package header

import "slices"

// View is the render model consumed by the header template.
type View struct {
	Items []ItemView

	MenuOpen bool
	// NavHidden sets aria-hidden on the nav and removes items from the tab order.
	NavHidden bool
	// MobileBarHidden sets aria-hidden on the mobile title bar in the desktop layout.
	MobileBarHidden bool
	Layout          string

	// Breadcrumb is the active section shown next to the logo on mobile;
	// empty means home.
	Breadcrumb    string
	ScrollPercent string
	ProgressWidth string
}

// ItemView is one rendered navigation button.
type ItemView struct {
	ID    string
	Route string
	// Href is the no-script link target: "/#about" for in-page sections.
	Href    string
	Home    bool
	Current bool
	// TabIndex is "-1" when the item must not receive focus, otherwise "".
	TabIndex string
}

// SameShape reports whether v and o render the same markup apart from the
// scroll progress.
func (v View) SameShape(o View) bool {
	return v.MenuOpen == o.MenuOpen &&
		v.NavHidden == o.NavHidden &&
		v.MobileBarHidden == o.MobileBarHidden &&
		v.Layout == o.Layout &&
		v.Breadcrumb == o.Breadcrumb &&
		slices.Equal(v.Items, o.Items)
}

// View snapshots the header for rendering.
func (h *Header) View() View {
	size := h.vp.Size()
	hidden := NavHidden(size.Width, h.menu)
	v := View{
		MenuOpen:        h.menu == MenuOpen,
		NavHidden:       hidden,
		MobileBarHidden: LayoutFor(size.Width) == Desktop,
		Layout:          LayoutFor(size.Width).String(),
		ScrollPercent:   h.ScrollPercentText(),
		ProgressWidth:   progressWidth(h.percent, h.showScroll),
		Items:           make([]ItemView, 0, len(MenuItems)),
	}
	if id := h.sections.Active().ID; id != "home" {
		v.Breadcrumb = id
	}
	for _, item := range MenuItems {
		iv := ItemView{
			ID:      item.ID,
			Route:   item.Route,
			Href:    item.Route,
			Home:    item.ID == "home",
			Current: h.IsSelected(item.ID),
		}
		if item.Anchor() && !iv.Home {
			iv.Href = RootRoute + "#" + item.ID
		}
		if hidden {
			iv.TabIndex = "-1"
		}
		v.Items = append(v.Items, iv)
	}
	return v
}
