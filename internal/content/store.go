package content

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Store holds the current content and reloads it on demand.
type Store struct {
	dir    string
	drafts bool

	mu    sync.RWMutex
	site  *Site
	posts []*Post
}

// NewStore loads content from dir. Blog posts live in dir/blog.
func NewStore(dir string, drafts bool) (*Store, error) {
	s := &Store{dir: dir, drafts: drafts}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads content and posts. On error the previous content stays.
func (s *Store) Reload() error {
	site, err := LoadSite(s.dir)
	if err != nil {
		return err
	}
	posts, err := LoadPosts(filepath.Join(s.dir, "blog"), s.drafts)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}
	s.mu.Lock()
	s.site, s.posts = site, posts
	s.mu.Unlock()
	return nil
}

// Dir is the content root.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *Store) Posts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts
}

// Post returns the post with slug or ErrPostNotFound.
func (s *Store) Post(slug string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}
