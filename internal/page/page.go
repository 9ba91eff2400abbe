// Package page is the single-page controller. It owns the active section,
// hands the header read access plus a setter, and wires every section to
// the visibility observer.
package page

import (
	"strings"

	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/visibility"
)

// Page is not safe for concurrent use.
type Page struct {
	active   header.ActiveSection
	onChange func(header.ActiveSection)

	hero     *Hero
	sections []*Section
}

// Option configures a Page.
type Option func(*Page)

// WithInitial sets the starting active section.
func WithInitial(s header.ActiveSection) Option {
	return func(p *Page) { p.active = s }
}

// WithOnChange is called after every active section change.
func WithOnChange(fn func(header.ActiveSection)) Option {
	return func(p *Page) { p.onChange = fn }
}

// New builds the controller and its sections. The active section starts at
// the hero.
func New(obs visibility.Observer, opts ...Option) *Page {
	p := &Page{active: header.ActiveSection{ID: HeroID}}
	for _, opt := range opts {
		opt(p)
	}
	p.hero = NewHero(obs, p.ReportVisibility)
	p.sections = append(p.sections, p.hero.Section)
	for _, id := range SectionIDs[1:] {
		p.sections = append(p.sections, NewSection(obs, id, p.ReportVisibility))
	}
	return p
}

// Active implements header.Sections.
func (p *Page) Active() header.ActiveSection { return p.active }

// SetActive implements header.Sections.
func (p *Page) SetActive(s header.ActiveSection) {
	p.active = s
	if p.onChange != nil {
		p.onChange(s)
	}
}

// ReportVisibility is the callback sections invoke when they become the
// dominant visible section. Repeated reports for the active id are dropped.
func (p *Page) ReportVisibility(id string) {
	if p.active.ID == id {
		return
	}
	p.SetActive(header.ActiveSection{ID: id})
}

// Hero returns the landing section.
func (p *Page) Hero() *Hero { return p.hero }

// Sections returns every section in document order.
func (p *Page) Sections() []*Section { return p.sections }

// Mount attaches each section to the element returned by lookup.
func (p *Page) Mount(lookup func(id string) visibility.Target) {
	for _, s := range p.sections {
		s.Mount(lookup(s.ID()))
	}
}

// Unmount detaches every section.
func (p *Page) Unmount() {
	for _, s := range p.sections {
		s.Unmount()
	}
}

// InitialActive is the active section for a fresh load of path: the blog
// entry under /blog/, otherwise the hero.
func InitialActive(path string) header.ActiveSection {
	if strings.HasPrefix(path, header.BlogRoute) {
		return header.ActiveSection{ID: "blog"}
	}
	return header.ActiveSection{ID: HeroID}
}

// IsSection reports whether id names an in-page section.
func IsSection(id string) bool {
	for _, s := range SectionIDs {
		if s == id {
			return true
		}
	}
	return false
}
