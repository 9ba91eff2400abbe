// Package assets is the build pipeline for static files: verbatim copies,
// content-hashed file names, font preloading and scoped CSS class names.
package assets

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures Build.
type Options struct {
	// SourceDir holds the assets. Files directly inside it are copied to the
	// output root unchanged; files in subdirectories are fingerprinted.
	SourceDir string
	OutputDir string
	// BuildID selects release naming for CSS classes and stamps the manifest.
	BuildID  string
	Reporter Reporter
}

// Build emits every asset and writes the manifest.
func Build(ctx context.Context, opts Options) (*Manifest, error) {
	if opts.SourceDir == "" || opts.OutputDir == "" {
		return nil, fmt.Errorf("source and output directories are required")
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}
	version := opts.BuildID
	if version == "" {
		version = "dev"
	}

	fsys := os.DirFS(opts.SourceDir)
	copies, err := doublestar.Glob(fsys, "*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", opts.SourceDir, err)
	}
	bundled, err := doublestar.Glob(fsys, "*/**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", opts.SourceDir, err)
	}
	sort.Strings(copies)
	sort.Strings(bundled)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	m := NewManifest(version)
	rep.Begin(len(copies) + len(bundled))

	for _, name := range copies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := writeFile(opts.OutputDir, name, data); err != nil {
			return nil, err
		}
		m.Copied = append(m.Copied, name)
		rep.Emitted(Emitted{Source: name, Output: name, Kind: KindCopied})
	}

	for _, name := range bundled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		kind := KindHashed
		if strings.HasSuffix(name, ".module.css") {
			scoped, classes := ScopeCSS(string(data), opts.BuildID, name)
			data = []byte(scoped)
			m.Classes[name] = classes
			kind = KindScoped
		}
		out := OutputName(name, data)
		if err := writeFile(opts.OutputDir, out, data); err != nil {
			return nil, err
		}
		m.Files[name] = out
		if IsFont(out) {
			m.Preload = append(m.Preload, out)
			kind = KindFont
		}
		rep.Emitted(Emitted{Source: name, Output: out, Kind: kind})
	}

	if err := m.write(opts.OutputDir); err != nil {
		return nil, err
	}
	rep.Done(m)
	return m, nil
}

func writeFile(dir, name string, data []byte) error {
	dst := filepath.Join(dir, filepath.FromSlash(path.Base(name)))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
