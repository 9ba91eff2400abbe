// Package content loads the portfolio copy and blog posts.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// Site is everything rendered on the single page.
type Site struct {
	Name         string    `yaml:"name"`
	Domain       string    `yaml:"domain"`
	Hero         Hero      `yaml:"hero"`
	About        About     `yaml:"about"`
	Resume       Resume    `yaml:"resume"`
	Projects     []Project `yaml:"projects"`
	Talks        []Talk    `yaml:"talks"`
	Philanthropy []Cause   `yaml:"philanthropy"`
	Contact      Contact   `yaml:"contact"`
}

type Hero struct {
	Headline string `yaml:"headline"`
	// Tagline may contain <em> markup.
	Tagline string `yaml:"tagline"`
	Social  []Link `yaml:"social"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

type About struct {
	Paragraphs []string `yaml:"paragraphs"`
	Skills     []string `yaml:"skills"`
}

type Resume struct {
	Jobs      []Job    `yaml:"jobs"`
	Education []School `yaml:"education"`
}

type Job struct {
	Title    string   `yaml:"title"`
	Company  string   `yaml:"company"`
	Start    string   `yaml:"start"`
	End      string   `yaml:"end"`
	Location string   `yaml:"location"`
	Bullets  []string `yaml:"bullets"`
}

type School struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
}

type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Tags        []string `yaml:"tags"`
}

type Talk struct {
	Title string `yaml:"title"`
	Event string `yaml:"event"`
	Date  string `yaml:"date"`
	URL   string `yaml:"url"`
}

type Cause struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

type Contact struct {
	Intro string `yaml:"intro"`
	Email string `yaml:"email"`
	Links []Link `yaml:"links"`
}

// Default returns the embedded site content.
func Default() (*Site, error) {
	return Parse(defaultYAML)
}

// Parse decodes site content.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing site content: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("site content: name is required")
	}
	return &s, nil
}

// LoadSite reads dir/content.yml, falling back to the embedded default when
// the file does not exist.
func LoadSite(dir string) (*Site, error) {
	path := filepath.Join(dir, "content.yml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}
