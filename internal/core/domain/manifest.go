package domain

// ProjectManifest is the subset of package.json the audit reads.
type ProjectManifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
}

// DirectNames returns the names listed in any of the manifest's dependency fields.
func (m *ProjectManifest) DirectNames() map[string]struct{} {
	if m == nil {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{})
	for _, deps := range []map[string]string{
		m.Dependencies,
		m.DevDependencies,
		m.OptionalDependencies,
		m.PeerDependencies,
	} {
		for name := range deps {
			out[name] = struct{}{}
		}
	}
	return out
}

// PackageManifest is the registry metadata of one published version.
type PackageManifest struct {
	Name          string
	Version       string
	Bins          map[string]string
	HasShrinkwrap bool
}
