package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// File represents the structure of the .lockguard.yaml configuration file.
type File struct {
	Checks     []string               `yaml:"checks"`
	Integrity  *IntegrityDTO          `yaml:"integrity"`
	Cache      *CacheDTO              `yaml:"cache"`
	Registries *RegistriesDTO         `yaml:"registries"`
	Flavor     []FlavorDTO            `yaml:"flavor"`
	Versions   map[string]VersionList `yaml:"versions"`
	Specifiers *SpecifiersDTO         `yaml:"specifiers"`
	Shrinkwrap *ShrinkwrapDTO         `yaml:"shrinkwrap"`
	Virtual    *VirtualDTO            `yaml:"virtual"`
	Network    *NetworkDTO            `yaml:"network"`
}

// IntegrityDTO configures the integrity check.
type IntegrityDTO struct {
	Algorithms            []string `yaml:"algorithms"`
	Concurrency           int      `yaml:"concurrency"`
	DeriveMissingResolved *bool    `yaml:"deriveMissingResolved"`
}

// CacheDTO configures the artifact cache.
type CacheDTO struct {
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

// RegistriesDTO configures the registry check.
type RegistriesDTO struct {
	Allowed  []string               `yaml:"allowed"`
	Packages map[string]PatternsDTO `yaml:"packages"`
	Mirrors  map[string]string      `yaml:"mirrors"`
}

// PatternsDTO is either `true`, marking the default registry, or a list of
// package name globs.
type PatternsDTO struct {
	Default  bool
	Patterns []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PatternsDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&p.Default)
	case yaml.SequenceNode:
		return value.Decode(&p.Patterns)
	default:
		return zerr.With(zerr.New("expected `true` or a list of package patterns"), "line", value.Line)
	}
}

// FlavorDTO allows a package manager, optionally restricted to some of its
// lockfile names. A bare string is shorthand for the manager's default lockfile.
type FlavorDTO struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlavorDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Name = value.Value
		return nil
	}
	type plain FlavorDTO
	return value.Decode((*plain)(f))
}

// VersionList is one version or a list of versions. Values keep their source
// text so that 9.0 stays "9.0" rather than becoming 9.
type VersionList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *VersionList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*v = VersionList{value.Value}
	case yaml.SequenceNode:
		out := make(VersionList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return zerr.With(zerr.New("expected a version"), "line", item.Line)
			}
			out = append(out, item.Value)
		}
		*v = out
	default:
		return zerr.With(zerr.New("expected a version or a list of versions"), "line", value.Line)
	}
	return nil
}

// SpecifiersDTO configures the non-registry specifier check.
type SpecifiersDTO struct {
	Ignore []IgnoredSpecifierDTO `yaml:"ignore"`
}

// IgnoredSpecifierDTO allows one non-registry dependency.
type IgnoredSpecifierDTO struct {
	Specifier   string `yaml:"specifier"`
	Explanation string `yaml:"explanation"`
}

// ShrinkwrapDTO configures the shrinkwrap check.
type ShrinkwrapDTO struct {
	Ignore []string `yaml:"ignore"`
}

// VirtualDTO configures lockfile-less audits.
type VirtualDTO struct {
	Enabled *bool `yaml:"enabled"`
}

// NetworkDTO configures downloads.
type NetworkDTO struct {
	Offline  bool   `yaml:"offline"`
	Timeout  string `yaml:"timeout"`
	Registry string `yaml:"registry"`
}
