package lockfile

import (
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// parsePnpm reads the packages section of pnpm-lock.yaml. Line numbers come
// from the YAML node of each package key.
func parsePnpm(content []byte) ([]domain.EntryDraft, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}

	packages := lookup(root, "packages")
	if packages == nil || packages.Kind != yaml.MappingNode {
		return nil, nil
	}

	direct := pnpmDirect(root)
	drafts := make([]domain.EntryDraft, 0, len(packages.Content)/2)
	for i := 0; i+1 < len(packages.Content); i += 2 {
		key, pkg := packages.Content[i], deref(packages.Content[i+1])
		name, version := pnpmNameVersion(key.Value)
		if version == nil {
			version = optString(scalar(pkg, "version"))
		}
		resolution := lookup(pkg, "resolution")
		_, isDirect := direct[name]
		drafts = append(drafts, domain.EntryDraft{
			Name:      name,
			Version:   version,
			Resolved:  optString(scalar(resolution, "tarball")),
			Integrity: optString(scalar(resolution, "integrity")),
			Line:      key.Line,
			IsDirect:  isDirect,
		})
	}
	return drafts, nil
}

// pnpmDirect collects the root importer's dependency names. Lockfiles older
// than importers list them at the top level.
func pnpmDirect(root *yaml.Node) map[string]struct{} {
	project := root
	if importers := lookup(root, "importers"); importers != nil {
		project = lookup(importers, ".")
	}
	out := make(map[string]struct{})
	for _, field := range dependencyFields {
		deps := lookup(project, field)
		if deps == nil || deps.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(deps.Content); i += 2 {
			out[deps.Content[i].Value] = struct{}{}
		}
	}
	return out
}

// pnpmNameVersion splits a package key. It understands "/name@1.0.0(peer@2.0.0)"
// (v6+), "name@1.0.0" (v9) and "/name/1.0.0_peer@2.0.0" (v5).
// The version is nil when the key has no version suffix.
func pnpmNameVersion(key string) (string, *string) {
	key = strings.TrimPrefix(strings.Trim(key, `'"`), "/")
	if i := strings.IndexByte(key, '('); i > 0 {
		key = key[:i]
	}

	segments := strings.Split(key, "/")
	nameSegments := 1
	if strings.HasPrefix(key, "@") {
		nameSegments = 2
	}
	if len(segments) == nameSegments+1 && segments[nameSegments] != "" && isDigit(segments[nameSegments][0]) {
		version, _, _ := strings.Cut(segments[nameSegments], "_")
		return strings.Join(segments[:nameSegments], "/"), domain.Some(version)
	}

	if name, version := cutSpecifier(key); version != "" {
		return name, domain.Some(version)
	}
	return key, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// lookup returns the value of key in a mapping node, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// scalar returns the scalar value of key as an any, so it composes with optString.
func scalar(n *yaml.Node, key string) any {
	v := lookup(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return nil
	}
	return v.Value
}
