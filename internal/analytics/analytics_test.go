package analytics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "site.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()
	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestHashIP(t *testing.T) {
	s := newTestStore(t)
	a, b := s.HashIP("10.0.0.1"), s.HashIP("10.0.0.1")
	if a != b {
		t.Error("hash not stable within a process")
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
	if a == s.HashIP("10.0.0.2") {
		t.Error("different IPs share a hash")
	}
	other := newTestStore(t)
	if other.HashIP("10.0.0.1") == a {
		t.Error("salt not per store")
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.Add(-30 * 24 * time.Hour) }
	if err := s.TrackVisit(ctx, "1.1.1.1", "ua", "/"); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return now.Add(-2 * 24 * time.Hour) }
	if err := s.TrackVisit(ctx, "1.1.1.1", "ua", "/blog/"); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return now }
	if err := s.TrackVisit(ctx, "2.2.2.2", "ua", "/"); err != nil {
		t.Fatal(err)
	}
	for _, sec := range []string{"home", "about", "about"} {
		if err := s.RecordImpression(ctx, "sess", sec); err != nil {
			t.Fatal(err)
		}
	}
	id, err := s.SaveMessage(ctx, Message{Name: "Ann", Email: "ann@example.com", Body: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MarkDelivered(ctx, id); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if st.TotalVisitors != 3 || st.UniqueVisitors != 2 {
		t.Errorf("total/unique = %d/%d, want 3/2", st.TotalVisitors, st.UniqueVisitors)
	}
	if st.VisitorsToday != 1 || st.VisitorsThisWeek != 2 {
		t.Errorf("today/week = %d/%d, want 1/2", st.VisitorsToday, st.VisitorsThisWeek)
	}
	if len(st.Sections) != 2 || st.Sections[0] != (SectionCount{Section: "about", Views: 2}) {
		t.Errorf("sections = %+v", st.Sections)
	}
	if len(st.Messages) != 1 || !st.Messages[0].Delivered || st.Messages[0].Name != "Ann" {
		t.Errorf("messages = %+v", st.Messages)
	}
	if len(st.RecentVisitors) != 3 || st.RecentVisitors[0].Path != "/" {
		t.Errorf("recent visitors = %+v", st.RecentVisitors)
	}
}

func TestSectionCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if got, err := s.sectionCounts(ctx); err != nil || len(got) != 0 {
		t.Fatalf("empty sectionCounts() = %v, %v", got, err)
	}
	for _, sec := range []string{"talks", "resume", "talks"} {
		s.RecordImpression(ctx, "sess", sec)
	}
	got, err := s.sectionCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []SectionCount{{"talks", 2}, {"resume", 1}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sectionCounts() = %+v, want %+v", got, want)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.sectionCounts(cancelled); err == nil {
		t.Error("sectionCounts() with cancelled context returned nil error")
	}
	if _, err := s.Stats(cancelled); err == nil {
		t.Error("Stats() with cancelled context returned nil error")
	}
}

func TestCleanup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	s.TrackVisit(ctx, "1.1.1.1", "ua", "/")
	s.RecordImpression(ctx, "old", "home")
	s.SaveMessage(ctx, Message{Name: "Old", Email: "o@example.com", Body: "kept"})
	s.now = func() time.Time { return now }
	s.TrackVisit(ctx, "1.1.1.1", "ua", "/")

	n, err := s.Cleanup(ctx, 365*24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	st, _ := s.Stats(ctx)
	if st.TotalVisitors != 1 || len(st.Messages) != 1 {
		t.Errorf("after cleanup visitors=%d messages=%d", st.TotalVisitors, len(st.Messages))
	}
}

func TestShouldTrack(t *testing.T) {
	tests := map[string]bool{
		"/":               true,
		"/blog/":          true,
		"/blog/hello":     true,
		"/static/app.css": false,
		"/admin/login":    false,
		"/ws":             false,
		"/privacy":        false,
		"/robots.txt":     false,
		"/Inter.woff2":    false,
	}
	for path, want := range tests {
		if got := ShouldTrack(path); got != want {
			t.Errorf("ShouldTrack(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	r := gin.New()
	r.Use(s.Middleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/static/app.css", ok)

	do := func(path string, dnt bool) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	do("/", false)
	do("/", true)
	do("/static/app.css", false)
	do("/missing", false)
	s.Wait()

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalVisitors != 1 {
		t.Errorf("TotalVisitors = %d, want 1", st.TotalVisitors)
	}
}
