package live

import (
	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/visibility"
)

// browser mirrors the state of one tab as last reported by its client
// script. It satisfies header.Viewport and header.Router; commands that
// change the tab are queued through send.
type browser struct {
	size    header.Size
	metrics header.Metrics
	hash    string
	path    string
	rects   map[string]visibility.Rect

	// anchor is the fragment the next cross-page navigation carries, so the
	// new page opens at the clicked section.
	anchor string

	subs map[int]func()
	next int

	send func(Command)
}

func newBrowser(send func(Command)) *browser {
	return &browser{
		rects: make(map[string]visibility.Rect),
		subs:  make(map[int]func()),
		send:  send,
	}
}

func (b *browser) Size() header.Size       { return b.size }
func (b *browser) Metrics() header.Metrics { return b.metrics }
func (b *browser) Fragment() string        { return b.hash }

func (b *browser) ScrollTo(x, y int) {
	b.metrics.ScrollTop = float64(y)
	b.send(Command{Type: CommandScrollTo, X: x, Y: y})
}

func (b *browser) OnScroll(fn func()) (remove func()) {
	b.next++
	id := b.next
	b.subs[id] = fn
	return func() { delete(b.subs, id) }
}

// Navigate pushes path. The fragment is dropped, as history.pushState does,
// unless the tab is leaving another page for an anchor on path.
func (b *browser) Navigate(path string) {
	target := path
	if b.anchor != "" && b.path != path {
		target += b.anchor
	}
	b.anchor = ""
	b.path = path
	b.hash = ""
	b.send(Command{Type: CommandNavigate, Path: target})
}

func (b *browser) scrolled() {
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

func (b *browser) resize(width, height int) {
	if width > 0 {
		b.size = header.Size{Width: width, Height: height}
	}
}

func (b *browser) layout(sections []SectionRect) {
	if sections == nil {
		return
	}
	clear(b.rects)
	for _, s := range sections {
		b.rects[s.ID] = s.Rect
	}
}

// root is the visible part of the document.
func (b *browser) root() visibility.Rect {
	h := b.metrics.ClientHeight
	if h <= 0 {
		h = float64(b.size.Height)
	}
	return visibility.Rect{Y: b.metrics.ScrollTop, Width: float64(b.size.Width), Height: h}
}

func (b *browser) target(id string) visibility.Target {
	return sectionTarget{b: b, id: id}
}

type sectionTarget struct {
	b  *browser
	id string
}

// Bounds reports false until the client has sent the section's layout.
func (t sectionTarget) Bounds() (visibility.Rect, bool) {
	r, ok := t.b.rects[t.id]
	return r, ok
}
