package page

import "github.com/goyney/irigoyen.dev/internal/visibility"

// HeroID is the landing section identifier.
const HeroID = "home"

// SectionIDs lists the in-page sections in document order.
var SectionIDs = []string{HeroID, "about", "resume", "projects", "talks", "philanthropy", "contact"}

// Section is a page section that reports its own visibility.
type Section struct {
	ref *visibility.Ref
}

// NewSection registers section id for visibility reporting through report.
func NewSection(obs visibility.Observer, id string, report func(id string)) *Section {
	return &Section{ref: visibility.Displayed(obs, id, report)}
}

func (s *Section) ID() string { return s.ref.ID() }

// Mount attaches the rendered element. A nil target is tolerated.
func (s *Section) Mount(t visibility.Target) { s.ref.Attach(t) }

// Unmount releases the observation.
func (s *Section) Unmount() { s.ref.Detach() }

// Mounted reports whether the section is being observed.
func (s *Section) Mounted() bool { return s.ref.Attached() }

// Hero is the landing section. It has no state of its own beyond its
// visibility registration under HeroID.
type Hero struct {
	*Section
}

// NewHero returns the landing section wired to report.
func NewHero(obs visibility.Observer, report func(id string)) *Hero {
	return &Hero{Section: NewSection(obs, HeroID, report)}
}
