// Package config loads an icarus.yaml project file: the module search
// path list an Importer resolves locators against, plus the target
// architecture's pointer size and alignment that struct layout
// completion needs. It plays the same project-level role the teacher's
// internal/units search-path handling plays for DWScript's uses clause,
// generalized to Icarus's Importer-driven module resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/icarus-lang/icarus/internal/types"
)

// Project is the decoded form of icarus.yaml.
type Project struct {
	// SearchPaths lists directories an Importer resolves module locators
	// against, in order; earlier entries win.
	SearchPaths []string `yaml:"search_paths"`

	// Architecture supplies the pointer size and maximum alignment struct
	// layout completion (internal/types.Struct.CompleteLayout) uses. Zero
	// values fall back to types.DefaultArchitecture.
	Architecture struct {
		PointerSize int64 `yaml:"pointer_size"`
		MaxAlign    int64 `yaml:"max_align"`
	} `yaml:"architecture"`
}

// Default returns a Project with no search paths and the default
// architecture, for callers that have no icarus.yaml.
func Default() *Project {
	return &Project{}
}

// Load reads and decodes the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, sp := range p.SearchPaths {
		if !filepath.IsAbs(sp) {
			p.SearchPaths[i] = filepath.Join(base, sp)
		}
	}
	return &p, nil
}

// ArchitectureOrDefault returns the decoded Architecture, substituting
// types.DefaultArchitecture's fields for any left unset.
func (p *Project) ArchitectureOrDefault() types.Architecture {
	arch := types.DefaultArchitecture
	if p.Architecture.PointerSize != 0 {
		arch.PointerSize = p.Architecture.PointerSize
	}
	if p.Architecture.MaxAlign != 0 {
		arch.MaxAlign = p.Architecture.MaxAlign
	}
	return arch
}
