package assets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestOutputName(t *testing.T) {
	data := []byte("body{}")
	hashed := OutputName("icons/favicon-48x48.PNG", data)
	if !regexp.MustCompile(`^[0-9a-f]{20}\.png$`).MatchString(hashed) {
		t.Errorf("OutputName(png) = %q, want contenthash name", hashed)
	}
	if OutputName("icons/other.png", data) != hashed {
		t.Error("same content should hash to the same name")
	}
	for _, font := range []string{"fonts/Inter.woff", "fonts/Inter.woff2"} {
		if got := OutputName(font, data); got != filepath.Base(font) {
			t.Errorf("OutputName(%q) = %q, want original name", font, got)
		}
	}
	if IsFont("fonts/Inter.ttf") {
		t.Error("ttf treated as preloadable font")
	}
}

func TestClassIdent(t *testing.T) {
	if got := ClassIdent("", "components/header/header.module.css", "current"); got != "components-header-header__current" {
		t.Errorf("debug ident = %q", got)
	}
	if got := ClassIdent("", "site.css", "nav"); got != "site__nav" {
		t.Errorf("debug ident = %q", got)
	}

	a := ClassIdent("build-1", "header.module.css", "current")
	b := ClassIdent("build-2", "header.module.css", "current")
	c := ClassIdent("build-1", "header.module.css", "open")
	if len(a) != 5 {
		t.Errorf("release ident %q, want 5 chars", a)
	}
	if a != b {
		t.Error("release ident should not depend on the build id value")
	}
	if a == c {
		t.Error("different locals share an ident")
	}
	if !regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9-]{4}$`).MatchString(a) {
		t.Errorf("release ident %q is not a valid class name", a)
	}
}

func TestScopeCSS(t *testing.T) {
	src := `/* .comment { } */
.header .current, .header > .open { background: url(logo.png); margin: 0.5em; }
@media (max-width: 736px) {
  .header { display: none; }
}
`
	out, classes := ScopeCSS(src, "", "header.module.css")
	for _, local := range []string{"header", "current", "open"} {
		if classes[local] != "header__"+local {
			t.Errorf("classes[%q] = %q", local, classes[local])
		}
	}
	if _, ok := classes["png"]; ok {
		t.Error("url() value rewritten as class")
	}
	if _, ok := classes["5em"]; ok {
		t.Error("number rewritten as class")
	}
	for _, want := range []string{
		".header__header .header__current, .header__header > .header__open {",
		"url(logo.png)",
		"margin: 0.5em",
		"@media (max-width: 736px) {",
		"  .header__header { display: none; }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuild(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"robots.txt":              "User-agent: *",
		"favicon.ico":             "ico",
		"icons/favicon-48x48.png": "png-bytes",
		"fonts/Inter.woff2":       "font-bytes",
		"css/header.module.css":   ".nav { color: red; }",
		"css/site.css":            ".plain { color: blue; }",
	})

	var log bytes.Buffer
	m, err := Build(context.Background(), Options{
		SourceDir: src,
		OutputDir: out,
		Reporter:  &LineReporter{W: &log},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for _, name := range []string{"robots.txt", "favicon.ico"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("copied file %s missing: %v", name, err)
		}
		if name == "robots.txt" && string(data) != "User-agent: *" {
			t.Errorf("robots.txt not copied verbatim: %q", data)
		}
	}
	if len(m.Copied) != 2 {
		t.Errorf("Copied = %v", m.Copied)
	}

	if m.Files["fonts/Inter.woff2"] != "Inter.woff2" {
		t.Errorf("font emitted as %q", m.Files["fonts/Inter.woff2"])
	}
	if len(m.Preload) != 1 || m.Preload[0] != "Inter.woff2" {
		t.Errorf("Preload = %v", m.Preload)
	}
	png := m.Files["icons/favicon-48x48.png"]
	if png != ContentHash([]byte("png-bytes"))+".png" {
		t.Errorf("png emitted as %q", png)
	}
	if _, err := os.Stat(filepath.Join(out, png)); err != nil {
		t.Errorf("hashed file not written: %v", err)
	}

	if m.Class("css/header.module.css", "nav") != "css-header__nav" {
		t.Errorf("scoped class = %q", m.Class("css/header.module.css", "nav"))
	}
	if _, ok := m.Classes["css/site.css"]; ok {
		t.Error("global stylesheet was scoped")
	}
	if m.Version != "dev" {
		t.Errorf("Version = %q, want dev", m.Version)
	}

	read, err := ReadManifest(out)
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if read.URL("icons/favicon-48x48.png") != "/"+png {
		t.Errorf("URL = %q", read.URL("icons/favicon-48x48.png"))
	}
	if read.URL("missing.png") != "/static/missing.png" {
		t.Errorf("fallback URL = %q", read.URL("missing.png"))
	}
	for _, want := range []string{
		"[1/6] favicon.ico (copied)\n",
		"css/header.module.css -> ",
		".css (scoped)\n",
		"fonts/Inter.woff2 -> Inter.woff2 (font)\n",
		"icons/favicon-48x48.png -> " + png + " (hashed)\n",
		"[6/6] ",
		"assets dev: 2 copied, 4 fingerprinted, 1 scoped stylesheets, 1 fonts\n",
	} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("reporter output missing %q:\n%s", want, log.String())
		}
	}
}

func TestBuildReleaseNaming(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"css/a.module.css": ".nav{}"})
	m, err := Build(context.Background(), Options{SourceDir: src, OutputDir: out, BuildID: "abc"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if m.Version != "abc" {
		t.Errorf("Version = %q", m.Version)
	}
	if id := m.Class("css/a.module.css", "nav"); len(id) != 5 {
		t.Errorf("release class = %q", id)
	}
}

func TestBuildCancelled(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, Options{SourceDir: src, OutputDir: t.TempDir()}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestNilManifest(t *testing.T) {
	var m *Manifest
	if m.URL("x.png") != "/static/x.png" || m.Class("a.css", "b") != "b" {
		t.Error("nil manifest should fall back")
	}
}
