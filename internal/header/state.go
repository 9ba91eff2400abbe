package header

// MenuState is the open/closed state of the mobile menu.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (s MenuState) String() string {
	if s == MenuOpen {
		return "open"
	}
	return "closed"
}

// MenuEvent drives Transition.
type MenuEvent int

const (
	// EventToggle is the mobile menu button.
	EventToggle MenuEvent = iota
	// EventSelect is a click on any navigation item.
	EventSelect
)

// Transition returns the menu state after ev.
func Transition(s MenuState, ev MenuEvent) MenuState {
	switch ev {
	case EventToggle:
		if s == MenuOpen {
			return MenuClosed
		}
		return MenuOpen
	case EventSelect:
		return MenuClosed
	}
	return s
}
