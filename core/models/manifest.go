package models

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/c12i/scaffolding/core/naming"
)

// ZomeManifest describes one named code unit of the target project. The
// engine passes it through to templates without interpreting it.
type ZomeManifest struct {
	Name         string           `yaml:"name" json:"name"`
	Hash         string           `yaml:"hash,omitempty" json:"hash,omitempty"`
	Path         string           `yaml:"path,omitempty" json:"path,omitempty"`
	Dependencies []ZomeDependency `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

type ZomeDependency struct {
	Name string `yaml:"name" json:"name"`
}

// PackageName is the Go package name generated code for the zome lives in.
func (z ZomeManifest) PackageName() string {
	return naming.ToSnake(z.Name)
}

// DnaManifest is the role manifest (dna.yaml) listing a DNA's zomes.
type DnaManifest struct {
	ManifestVersion string `yaml:"manifest_version"`
	Name            string `yaml:"name"`
	Integrity       struct {
		Zomes []ZomeManifest `yaml:"zomes"`
	} `yaml:"integrity"`
	Coordinator struct {
		Zomes []ZomeManifest `yaml:"zomes"`
	} `yaml:"coordinator"`
}

func ParseDnaManifest(data []byte) (*DnaManifest, error) {
	var m DnaManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse dna manifest: %w", err)
	}
	return &m, nil
}

// CoordinatorZome finds a coordinator zome by name.
func (m *DnaManifest) CoordinatorZome(name string) (ZomeManifest, bool) {
	for _, z := range m.Coordinator.Zomes {
		if z.Name == name {
			return z, true
		}
	}
	return ZomeManifest{}, false
}

// IntegrityZomeFor returns the integrity zome a coordinator depends on, or
// the first integrity zome when the coordinator names none.
func (m *DnaManifest) IntegrityZomeFor(coordinator ZomeManifest) (ZomeManifest, bool) {
	for _, dep := range coordinator.Dependencies {
		for _, z := range m.Integrity.Zomes {
			if z.Name == dep.Name {
				return z, true
			}
		}
	}
	if len(m.Integrity.Zomes) > 0 {
		return m.Integrity.Zomes[0], true
	}
	return ZomeManifest{}, false
}
