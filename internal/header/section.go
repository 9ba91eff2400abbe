package header

// ActiveSection is the navigation entry currently considered selected.
// ScrollTo asks the page to bring the section into view.
type ActiveSection struct {
	ID       string `json:"id"`
	ScrollTo bool   `json:"scrollTo"`
}

// Sections gives the header read access to the active section owned by the
// page controller, plus the setter it uses on navigation.
type Sections interface {
	Active() ActiveSection
	SetActive(ActiveSection)
}
