package header

// Size is the viewport size in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport is the window and document state the header reads and drives.
// In production it mirrors a browser tab; tests use an in-memory fake.
type Viewport interface {
	Size() Size
	Metrics() Metrics
	// Fragment is the URL fragment including the leading '#', or "".
	Fragment() string
	ScrollTo(x, y int)
	// OnScroll registers fn for scroll events and returns a function that
	// removes it.
	OnScroll(fn func()) (remove func())
}

// Router navigates to a path.
type Router interface {
	Navigate(path string)
}

// RouterFunc adapts an ordinary function to Router.
type RouterFunc func(path string)

func (f RouterFunc) Navigate(path string) { f(path) }
