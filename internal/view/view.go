// Package view renders the site's HTML from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/goyney/irigoyen.dev/internal/assets"
	"github.com/goyney/irigoyen.dev/internal/header"
)

//go:embed tpl/*.tmpl tpl/partials/*.tmpl tpl/pages/*.tmpl
var tplFS embed.FS

// HeaderStylesheet is the scoped stylesheet used by the header partial.
const HeaderStylesheet = "css/header.module.css"

// Options configures a Renderer.
type Options struct {
	// Manifest resolves asset URLs and scoped class names; nil serves the
	// unbuilt sources.
	Manifest *assets.Manifest
	BaseURL  string
	Version  string
	SiteName string
}

// Renderer executes page and partial templates. Templates are parsed once;
// a Renderer is safe for concurrent use.
type Renderer struct {
	opts     Options
	partials *template.Template
	pages    map[string]*template.Template
}

// New parses every embedded template.
func New(opts Options) (*Renderer, error) {
	if opts.SiteName == "" {
		opts.SiteName = "irigoyen.dev"
	}
	r := &Renderer{opts: opts, pages: make(map[string]*template.Template)}

	base := template.New("root").Funcs(sprig.HtmlFuncMap()).Funcs(r.funcs())
	if _, err := base.ParseFS(tplFS, "tpl/base.tmpl", "tpl/partials/*.tmpl"); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.partials = base

	names, err := fs.Glob(tplFS, "tpl/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for _, p := range names {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning templates: %w", err)
		}
		if _, err := t.ParseFS(tplFS, p); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		r.pages[strings.TrimSuffix(path.Base(p), ".tmpl")] = t
	}
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	m := r.opts.Manifest
	return template.FuncMap{
		"asset":    m.URL,
		"class":    m.Class,
		"siteName": func() string { return r.opts.SiteName },
		"safe":     func(s string) template.HTML { return template.HTML(s) },
	}
}

// Meta builds the head metadata for a page at path.
func (r *Renderer) Meta(title, path string) Meta {
	meta := Meta{
		Title:   title,
		Path:    path,
		BaseURL: strings.TrimSuffix(r.opts.BaseURL, "/"),
		Version: r.opts.Version,
	}
	if meta.Version == "" {
		meta.Version = "dev"
	}
	if r.opts.Manifest != nil {
		meta.Preload = r.opts.Manifest.Preload
	}
	return meta
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// Partial writes a template defined under tpl/partials.
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	if err := r.partials.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering partial %s: %w", name, err)
	}
	return nil
}

// Header renders the header partial for v. Live sessions send the result to
// the browser on every state change.
func (r *Renderer) Header(v header.View) (string, error) {
	var buf bytes.Buffer
	if err := r.Partial(&buf, "header", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
