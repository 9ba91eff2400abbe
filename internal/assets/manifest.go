package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
)

// ManifestFile is written at the root of the build output.
const ManifestFile = "manifest.json"

// Manifest maps logical asset names to emitted files and scoped CSS classes.
type Manifest struct {
	Version string `json:"version"`
	// Files maps a source path relative to the asset root ("icons/logo.png")
	// to its emitted name ("3f9c...e1.png").
	Files map[string]string `json:"files"`
	// Classes maps stylesheet -> local class -> scoped ident.
	Classes map[string]map[string]string `json:"classes"`
	// Copied lists files copied verbatim to the output root.
	Copied []string `json:"copied"`
	// Preload lists emitted font files.
	Preload []string `json:"preload"`
}

// NewManifest returns an empty manifest for version.
func NewManifest(version string) *Manifest {
	return &Manifest{
		Version: version,
		Files:   make(map[string]string),
		Classes: make(map[string]map[string]string),
	}
}

// URL resolves a logical asset to its public path. Emitted files live at
// the site root. Unknown names resolve under /static/ so templates keep
// working against the unbuilt source tree.
func (m *Manifest) URL(name string) string {
	if m != nil {
		if out, ok := m.Files[name]; ok {
			return "/" + out
		}
	}
	return path.Join("/static", name)
}

// Class resolves a local class in stylesheet file. Unknown classes are
// returned unchanged.
func (m *Manifest) Class(file, local string) string {
	if m != nil {
		if id, ok := m.Classes[file][local]; ok {
			return id
		}
	}
	return local
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(path.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m := NewManifest("")
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return m, nil
}

func (m *Manifest) write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
