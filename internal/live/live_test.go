package live

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/page"
	"github.com/goyney/irigoyen.dev/internal/visibility"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// renderStub encodes the parts of the view the tests assert on as
// "layout|current|menu|progress".
func renderStub(v header.View) (string, error) {
	var current []string
	for _, it := range v.Items {
		if it.Current {
			current = append(current, it.ID)
		}
	}
	menu := "closed"
	if v.MenuOpen {
		menu = "open"
	}
	return strings.Join([]string{v.Layout, strings.Join(current, ","), menu, v.ProgressWidth}, "|"), nil
}

type recorder struct {
	mu       sync.Mutex
	sections []string
}

func (r *recorder) RecordImpression(_ context.Context, _, section string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = append(r.sections, section)
	return nil
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sections...)
}

// stacked lays every section out 800px tall, one after another.
func stacked(width float64) []SectionRect {
	out := make([]SectionRect, 0, len(page.SectionIDs))
	for i, id := range page.SectionIDs {
		out = append(out, SectionRect{ID: id, Rect: visibility.Rect{Y: float64(i) * 800, Width: width, Height: 800}})
	}
	return out
}

func mountEvent(width int) Event {
	return Event{
		Type:     EventMount,
		Width:    width,
		Height:   800,
		Metrics:  header.Metrics{ScrollTop: 0, ScrollHeight: 5600, ClientHeight: 800},
		Path:     "/",
		Sections: stacked(float64(width)),
	}
}

func newTestSession(rec Recorder) *Session {
	return newSession("test", nil, discard, renderStub, rec)
}

// drain returns every queued command.
func drain(s *Session) []Command {
	var out []Command
	for {
		select {
		case c := <-s.out:
			out = append(out, c)
		default:
			return out
		}
	}
}

func types(cmds []Command) string {
	var ts []string
	for _, c := range cmds {
		ts = append(ts, c.Type)
	}
	return strings.Join(ts, ",")
}

func lastRender(t *testing.T, cmds []Command) string {
	t.Helper()
	for i := len(cmds) - 1; i >= 0; i-- {
		if cmds[i].Type == CommandRender {
			return cmds[i].HTML
		}
	}
	t.Fatalf("no render in %s", types(cmds))
	return ""
}

func TestMountRendersHeader(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	if err := s.Handle(ctx, mountEvent(1280)); err != nil {
		t.Fatalf("Handle(mount) error: %v", err)
	}
	if !s.header.Mounted() {
		t.Error("header not mounted")
	}
	if got := s.obs.Len(); got != len(page.SectionIDs) {
		t.Errorf("observed sections = %d, want %d", got, len(page.SectionIDs))
	}
	if got := lastRender(t, drain(s)); got != "desktop|home|closed|0.00%" {
		t.Errorf("render = %q", got)
	}
}

func TestScrollUpdatesProgressAndActive(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(rec)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(1280))
	drain(s)

	// Scroll range is 5600-800 = 4800; 1600 is one third of it.
	s.Handle(ctx, Event{Type: EventScroll, Width: 1280, Height: 800,
		Metrics: header.Metrics{ScrollTop: 1600, ScrollHeight: 5600, ClientHeight: 800}})
	cmds := drain(s)
	if got := lastRender(t, cmds); got != "desktop|resume|closed|33.33%" {
		t.Errorf("render = %q", got)
	}
	if got := cmds[len(cmds)-1]; got.Progress != "33.33" || got.Width != "33.33%" {
		t.Errorf("progress = %q width = %q, want 33.33", got.Progress, got.Width)
	}
	if got := rec.got(); len(got) != 1 || got[0] != "resume" {
		t.Errorf("impressions = %v, want [resume]", got)
	}
}

func TestScrollWithinSectionSendsProgressOnly(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(1280))
	drain(s)

	// The hero stays dominant up to 400px of scroll.
	for _, top := range []float64{50, 100, 150, 200, 250} {
		s.Handle(ctx, Event{Type: EventScroll, Width: 1280, Height: 800,
			Metrics: header.Metrics{ScrollTop: top, ScrollHeight: 5600, ClientHeight: 800}})
	}
	cmds := drain(s)
	if got := types(cmds); got != "progress,progress,progress,progress,progress" {
		t.Fatalf("commands = %s", got)
	}
	last := cmds[len(cmds)-1]
	if last.HTML != "" || last.Progress != "5.21" || last.Width != "5.21%" {
		t.Errorf("last = %+v", last)
	}

	s.Handle(ctx, Event{Type: EventScroll, Width: 1280, Height: 800,
		Metrics: header.Metrics{ScrollTop: 250, ScrollHeight: 5600, ClientHeight: 800}})
	if cmds := drain(s); len(cmds) != 0 {
		t.Errorf("unchanged scroll sent %s", types(cmds))
	}

	s.Handle(ctx, Event{Type: EventToggle})
	if got := types(drain(s)); got != "render" {
		t.Errorf("toggle sent %s, want render", got)
	}
}

func TestHashSelectsItem(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(1280))
	drain(s)

	s.Handle(ctx, Event{Type: EventHash, Hash: "#talks"})
	if got := lastRender(t, drain(s)); got != "desktop|talks|closed|0.00%" {
		t.Errorf("render = %q", got)
	}

	// The hero's scroll links point at #about.
	s.Handle(ctx, Event{Type: EventHash, Hash: "#about"})
	if got := lastRender(t, drain(s)); got != "desktop|about|closed|0.00%" {
		t.Errorf("render after #about = %q", got)
	}
}

func TestClickAnchor(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(rec)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(1280))
	drain(s)

	if err := s.Handle(ctx, Event{Type: EventClick, ID: "contact"}); err != nil {
		t.Fatal(err)
	}
	cmds := drain(s)
	if got := types(cmds); got != "navigate,scrollIntoView,render" {
		t.Fatalf("commands = %s", got)
	}
	if cmds[0].Path != "/" || cmds[1].ID != "contact" {
		t.Errorf("commands = %+v", cmds)
	}
	if got := s.page.Active(); got != (header.ActiveSection{ID: "contact", ScrollTo: true}) {
		t.Errorf("active = %+v", got)
	}
	if len(rec.got()) != 0 {
		t.Error("menu clicks must not count as impressions")
	}
}

func TestClickAnchorFromBlog(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.Handle(ctx, Event{Type: EventMount, Width: 1280, Height: 800, Path: "/blog/"})
	drain(s)

	if err := s.Handle(ctx, Event{Type: EventClick, ID: "about"}); err != nil {
		t.Fatal(err)
	}
	cmds := drain(s)
	if len(cmds) == 0 || cmds[0].Type != CommandNavigate || cmds[0].Path != "/#about" {
		t.Fatalf("commands = %+v, want navigate to /#about first", cmds)
	}
	if got := s.page.Active(); got.ID != "about" {
		t.Errorf("active = %+v", got)
	}

	// Home from the blog needs no fragment; the page opens at the top.
	s.Handle(ctx, Event{Type: EventMount, Width: 1280, Height: 800, Path: "/blog/"})
	drain(s)
	s.Handle(ctx, Event{Type: EventClick, ID: "home"})
	if cmds := drain(s); len(cmds) == 0 || cmds[0].Path != "/" {
		t.Errorf("home click = %+v", cmds)
	}
}

func TestClickBlog(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(1280))
	drain(s)

	s.Handle(ctx, Event{Type: EventClick, ID: "blog"})
	cmds := drain(s)
	if got := types(cmds); got != "navigate,scrollTo,render" {
		t.Fatalf("commands = %s", got)
	}
	if cmds[0].Path != "/blog/" || cmds[1].X != 0 || cmds[1].Y != 0 {
		t.Errorf("commands = %+v", cmds)
	}
}

func TestClickUnknown(t *testing.T) {
	s := newTestSession(nil)
	if err := s.Handle(context.Background(), Event{Type: EventClick, ID: "nope"}); err == nil {
		t.Error("expected error")
	}
	if err := s.Handle(context.Background(), Event{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestMobileMenu(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.Handle(ctx, mountEvent(375))
	if got := lastRender(t, drain(s)); got != "mobile|home|closed|0.00%" {
		t.Errorf("render = %q", got)
	}

	s.Handle(ctx, Event{Type: EventToggle})
	if got := lastRender(t, drain(s)); got != "mobile|home|open|0.00%" {
		t.Errorf("after toggle = %q", got)
	}

	s.Handle(ctx, Event{Type: EventClick, ID: "about"})
	if got := lastRender(t, drain(s)); got != "mobile|about|closed|0.00%" {
		t.Errorf("after select = %q", got)
	}

	s.Handle(ctx, Event{Type: EventResize, Width: 1280, Height: 800, Sections: stacked(1280)})
	if got := lastRender(t, drain(s)); !strings.HasPrefix(got, "desktop|") {
		t.Errorf("after resize = %q", got)
	}
}

func TestBlogMount(t *testing.T) {
	s := newTestSession(nil)
	s.Handle(context.Background(), Event{Type: EventMount, Width: 1280, Height: 800, Path: "/blog/hello"})
	if got := lastRender(t, drain(s)); got != "desktop|blog|closed|0.00%" {
		t.Errorf("render = %q", got)
	}
}

func TestTeardownDetaches(t *testing.T) {
	s := newTestSession(nil)
	s.Handle(context.Background(), mountEvent(1280))
	s.teardown()
	if s.header.Mounted() {
		t.Error("header still mounted")
	}
	if s.obs.Len() != 0 {
		t.Errorf("observer still has %d subscriptions", s.obs.Len())
	}
	for _, sec := range s.page.Sections() {
		if sec.Mounted() {
			t.Errorf("section %s still attached", sec.ID())
		}
	}
	if s.Notify(Command{Type: CommandReload}) {
		t.Error("stopped session accepted a command")
	}
}

func TestHubOverWebsocket(t *testing.T) {
	rec := &recorder{}
	hub := NewHub(WithLogger(discard), WithRenderer(renderStub), WithRecorder(rec))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(mountEvent(1280)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var c Command
	if err := conn.ReadJSON(&c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.Type != CommandRender || c.HTML != "desktop|home|closed|0.00%" {
		t.Errorf("first command = %+v", c)
	}

	if hub.Len() != 1 {
		t.Errorf("Len() = %d, want 1", hub.Len())
	}
	if n := hub.Broadcast(Command{Type: CommandReload}); n != 1 {
		t.Errorf("Broadcast() = %d, want 1", n)
	}
	if err := conn.ReadJSON(&c); err != nil || c.Type != CommandReload {
		t.Errorf("after broadcast got %+v, %v", c, err)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	deadline := time.Now().Add(5 * time.Second)
	for hub.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Len() != 0 {
		t.Error("session not removed after close")
	}
}
