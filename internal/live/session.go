// Package live runs the server side of a browser tab. The client script
// mirrors scroll, resize, hash and click events over a websocket; the session
// feeds them to the same header, page and visibility components used for the
// first render, and sends back header updates and navigation commands.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/page"
	"github.com/goyney/irigoyen.dev/internal/visibility"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	outboxSize     = 32
)

// Renderer turns a header snapshot into the HTML sent on render.
type Renderer func(header.View) (string, error)

// Recorder stores section impressions.
type Recorder interface {
	RecordImpression(ctx context.Context, sessionID, section string) error
}

// Session owns one tab's header, page controller and observer. All of them
// are touched only by the goroutine running Run.
type Session struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	render Renderer
	rec    Recorder

	browser *browser
	obs     *visibility.IntersectionObserver
	page    *page.Page
	header  *header.Header
	mounted bool
	dirty   bool
	// shown is the last view sent as HTML; nil forces a full render.
	shown *header.View

	out      chan Command
	done     chan struct{}
	stopOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, logger *slog.Logger, render Renderer, rec Recorder) *Session {
	s := &Session{
		id:     id,
		conn:   conn,
		logger: logger.With("session", id),
		render: render,
		rec:    rec,
		out:    make(chan Command, outboxSize),
		done:   make(chan struct{}),
	}
	s.browser = newBrowser(s.send)
	s.obs = visibility.NewIntersectionObserver(s.browser.root)
	s.page = page.New(s.obs, page.WithOnChange(s.activeChanged))
	s.header = header.New(s.browser, s.browser, s.page,
		header.WithProgress(true),
		header.WithOnChange(func() { s.dirty = true }),
	)
	return s
}

// ID is the session's UUID.
func (s *Session) ID() string { return s.id }

// Run reads events until the connection closes or ctx is done, then
// unmounts every component.
func (s *Session) Run(ctx context.Context) error {
	defer s.teardown()
	go s.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.stop()
		case <-s.done:
		}
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("reading event: %w", err)
			}
			return nil
		}
		var e Event
		if err := json.Unmarshal(msg, &e); err != nil {
			s.logger.Debug("live.event.invalid", "err", err)
			continue
		}
		if err := s.Handle(ctx, e); err != nil {
			s.logger.Debug("live.event.rejected", "type", e.Type, "err", err)
		}
	}
}

// Handle applies one event and queues the resulting commands. It is exported
// for driving a session without a socket.
func (s *Session) Handle(ctx context.Context, e Event) error {
	b := s.browser
	switch e.Type {
	case EventMount:
		b.resize(e.Width, e.Height)
		b.metrics = e.Metrics
		b.hash = e.Hash
		b.path = e.Path
		b.layout(e.Sections)
		s.mount()
	case EventScroll:
		b.resize(e.Width, e.Height)
		b.metrics = e.Metrics
		b.scrolled()
		s.obs.Check()
	case EventResize:
		b.resize(e.Width, e.Height)
		if e.ScrollHeight > 0 {
			b.metrics = e.Metrics
		}
		b.layout(e.Sections)
		s.obs.Check()
		s.dirty = true
	case EventHash:
		b.hash = e.Hash
		s.dirty = true
	case EventClick:
		item, ok := header.Lookup(e.ID)
		if !ok {
			return fmt.Errorf("unknown menu item %q", e.ID)
		}
		if item.Anchor() && item.ID != page.HeroID {
			b.anchor = "#" + item.ID
		}
		s.header.Select(item)
	case EventToggle:
		s.header.ToggleMenu()
	case EventLayout:
		b.layout(e.Sections)
		s.obs.Check()
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if s.dirty {
		s.flush()
	}
	return ctx.Err()
}

func (s *Session) mount() {
	if s.mounted {
		s.page.Unmount()
	} else {
		s.header.Mount()
		s.mounted = true
	}
	if a := page.InitialActive(s.browser.path); a != s.page.Active() {
		s.page.SetActive(a)
	}
	s.page.Mount(s.browser.target)
	s.shown = nil
	s.dirty = true
}

func (s *Session) activeChanged(a header.ActiveSection) {
	s.dirty = true
	if a.ScrollTo {
		s.send(Command{Type: CommandScrollIntoView, ID: a.ID})
		return
	}
	if s.rec == nil || !page.IsSection(a.ID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rec.RecordImpression(ctx, s.id, a.ID); err != nil {
		s.logger.Error("live.impression", "section", a.ID, "err", err)
	}
}

// flush sends the header. Scrolling that only moves the progress bar sends
// a progress command so the tab keeps its header element and focus.
func (s *Session) flush() {
	s.dirty = false
	v := s.header.View()
	if s.shown != nil && v.SameShape(*s.shown) {
		if v.ProgressWidth == s.shown.ProgressWidth && v.ScrollPercent == s.shown.ScrollPercent {
			return
		}
		s.shown.ScrollPercent, s.shown.ProgressWidth = v.ScrollPercent, v.ProgressWidth
		s.send(Command{Type: CommandProgress, Progress: v.ScrollPercent, Width: v.ProgressWidth})
		return
	}
	c := Command{Type: CommandRender, Progress: v.ScrollPercent, Width: v.ProgressWidth}
	if s.render != nil {
		html, err := s.render(v)
		if err != nil {
			s.logger.Error("live.render", "err", err)
			return
		}
		c.HTML = html
	}
	s.shown = &v
	s.send(c)
}

// send queues c, blocking while the outbox is full. It gives up once the
// session stops.
func (s *Session) send(c Command) {
	select {
	case s.out <- c:
	case <-s.done:
	}
}

// Notify queues c without blocking and reports whether it was accepted. It
// is safe to call from any goroutine.
func (s *Session) Notify(c Command) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- c:
		return true
	default:
		return false
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case c := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(c); err != nil {
				s.logger.Debug("live.write", "err", err)
				s.stop()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.stop()
				return
			}
		}
	}
}

// stop ends the session's goroutines. Safe from any goroutine.
func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// teardown runs on the Run goroutine after the read loop exits.
func (s *Session) teardown() {
	s.stop()
	s.header.Unmount()
	s.page.Unmount()
	if n := s.obs.Len(); n != 0 {
		s.logger.Warn("live.teardown.leak", "subscriptions", n)
	}
	s.obs.Disconnect()
}
