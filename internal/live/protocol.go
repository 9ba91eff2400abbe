package live

import (
	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/visibility"
)

// Browser to server event types.
const (
	EventMount  = "mount"
	EventScroll = "scroll"
	EventResize = "resize"
	EventHash   = "hash"
	EventClick  = "click"
	EventToggle = "toggle"
	EventLayout = "layout"
)

// Server to browser command types.
const (
	CommandRender         = "render"
	CommandProgress       = "progress"
	CommandNavigate       = "navigate"
	CommandScrollTo       = "scrollTo"
	CommandScrollIntoView = "scrollIntoView"
	CommandReload         = "reload"
)

// Event is a message from the client script. Fields not used by Type are
// left zero.
type Event struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	header.Metrics
	Hash string `json:"hash,omitempty"`
	Path string `json:"path,omitempty"`
	// ID is the clicked menu item.
	ID string `json:"id,omitempty"`
	// Sections carries element geometry in document coordinates. A nil
	// slice leaves the known layout unchanged.
	Sections []SectionRect `json:"sections,omitempty"`
}

// SectionRect is the laid-out box of one page section.
type SectionRect struct {
	ID string `json:"id"`
	visibility.Rect
}

// Command is a message to the client script.
type Command struct {
	Type string `json:"type"`
	// HTML replaces the header element on render.
	HTML string `json:"html,omitempty"`
	// Progress is the scroll percent ("33.33") and Width the progress bar
	// style width ("33.33%"). Both ride on render and progress.
	Progress string `json:"progress,omitempty"`
	Width    string `json:"width,omitempty"`
	Path     string `json:"path,omitempty"`
	ID       string `json:"id,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
}
