package header

// Static is a Viewport with fixed geometry. It never emits scroll events and
// ignores ScrollTo. The server uses it to render the first page load.
type Static struct {
	Width, Height int
	Scroll        Metrics
	Hash          string
}

func (s Static) Size() Size                    { return Size{Width: s.Width, Height: s.Height} }
func (s Static) Metrics() Metrics              { return s.Scroll }
func (s Static) Fragment() string              { return s.Hash }
func (Static) ScrollTo(int, int)               {}
func (Static) OnScroll(func()) (remove func()) { return func() {} }
