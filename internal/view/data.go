package view

import (
	"github.com/goyney/irigoyen.dev/internal/analytics"
	"github.com/goyney/irigoyen.dev/internal/content"
	"github.com/goyney/irigoyen.dev/internal/header"
)

// Meta is rendered into <head>.
type Meta struct {
	Title   string
	Path    string
	BaseURL string
	Version string
	// Preload lists font files emitted by the asset build.
	Preload []string
	// Live loads the client script that opens a live session.
	Live bool
}

// Page wraps the shared chrome and page-specific Content. A zero Header
// renders no navigation.
type Page[T any] struct {
	Meta    Meta
	Header  header.View
	Content T
}

type Index struct {
	Site *content.Site
}

type Blog struct {
	Site  *content.Site
	Posts []*content.Post
}

type Post struct {
	Site *content.Site
	Post *content.Post
}

// ContactResult is shown after a contact form submission.
type ContactResult struct {
	OK      bool
	Message string
}

type Login struct {
	Error string
}

type Dashboard struct {
	User  string
	Stats *analytics.Stats
}

type Error struct {
	Status  int
	Message string
}
