package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// ErrPostNotFound is returned by Store.Post for unknown slugs.
var ErrPostNotFound = errors.New("post not found")

// Post is a rendered blog entry.
type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Summary string
	Tags    []string
	Draft   bool
	HTML    template.HTML
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	Draft   bool     `yaml:"draft"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// ParsePost splits YAML front matter from the markdown body and renders it.
// The slug is the file name without extension.
func ParsePost(name string, data []byte) (*Post, error) {
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var meta frontMatter
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return nil, fmt.Errorf("%s: front matter: %w", name, err)
		}
	}
	slug := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	p := &Post{
		Slug:    slug,
		Title:   meta.Title,
		Summary: meta.Summary,
		Tags:    meta.Tags,
		Draft:   meta.Draft,
	}
	if p.Title == "" {
		p.Title = slug
	}
	if meta.Date != "" {
		d, err := time.Parse("2006-01-02", meta.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: date %q: %w", name, meta.Date, err)
		}
		p.Date = d
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("%s: rendering markdown: %w", name, err)
	}
	p.HTML = template.HTML(buf.String())
	return p, nil
}

func splitFrontMatter(data []byte) (fm, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, data, nil
	}
	rest := data[4:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, errors.New("unterminated front matter")
	}
	fm = rest[:end]
	body = rest[end+4:]
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, body, nil
}

// LoadPosts renders every *.md file in dir, newest first. A missing
// directory yields no posts. Drafts are skipped unless drafts is set.
func LoadPosts(dir string, drafts bool) ([]*Post, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blog dir: %w", err)
	}
	var posts []*Post
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading post: %w", err)
		}
		p, err := ParsePost(e.Name(), data)
		if err != nil {
			return nil, err
		}
		if p.Draft && !drafts {
			continue
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}
