package domain

import "strings"

// UnknownVersion is the version recorded when a lockfile omits one.
const UnknownVersion = "unknown"

// LockEntry is one dependency occurrence in a lockfile.
// Resolved and Integrity are empty when the lockfile does not record them.
type LockEntry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved,omitzero"`
	Integrity string `json:"integrity,omitzero"`
	Line      int    `json:"line"`
	IsDirect  bool   `json:"isDirect"`
}

// HasResolved reports whether the entry records an artifact location.
func (e LockEntry) HasResolved() bool {
	return e.Resolved != ""
}

// HasIntegrity reports whether the entry records an integrity hash.
func (e LockEntry) HasIntegrity() bool {
	return e.Integrity != ""
}

// IsRemote reports whether the resolved location is an HTTP(S) URL.
// Any other resolved value is a non-registry specifier and is never verified.
func (e LockEntry) IsRemote() bool {
	return IsHTTPURL(e.Resolved)
}

// ID returns "name@version".
func (e LockEntry) ID() string {
	return e.Name + "@" + e.Version
}

// EntryDraft carries the optional fields a parser managed to read.
// Nil means the field was absent from the document.
type EntryDraft struct {
	Name      string
	Version   *string
	Resolved  *string
	Integrity *string
	Line      int
	IsDirect  bool
}

// Materialize applies the default for every absent field.
// It returns false when the draft has no name and must be dropped.
func (d EntryDraft) Materialize() (LockEntry, bool) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return LockEntry{}, false
	}
	return LockEntry{
		Name:      name,
		Version:   orDefault(d.Version, UnknownVersion),
		Resolved:  orDefault(d.Resolved, ""),
		Integrity: orDefault(d.Integrity, ""),
		Line:      d.Line,
		IsDirect:  d.IsDirect,
	}, true
}

// Some returns a pointer to s, or nil when s is empty.
func Some(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// VirtualPackageInfo is a package discovered by resolving a manifest
// instead of reading a lockfile.
type VirtualPackageInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved,omitzero"`
	Integrity string `json:"integrity,omitzero"`
	IsDirect  bool   `json:"isDirect"`
}

// Entry lifts the package into a LockEntry. Virtual entries have no source line.
func (v VirtualPackageInfo) Entry() LockEntry {
	return LockEntry{
		Name:      v.Name,
		Version:   v.Version,
		Resolved:  v.Resolved,
		Integrity: v.Integrity,
		Line:      0,
		IsDirect:  v.IsDirect,
	}
}
