package lockfile

import (
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

const installPrefix = "node_modules/"

// dependencyFields are the manifest maps that name direct dependencies.
var dependencyFields = []string{"dependencies", "devDependencies", "optionalDependencies", "peerDependencies"}

func parseNpm(content []byte) ([]domain.EntryDraft, error) {
	doc, err := decodeObject(content)
	if err != nil {
		return nil, err
	}
	lines, err := keyLines(content)
	if err != nil {
		return nil, err
	}

	if packages := object(doc["packages"]); packages != nil {
		return npmPackages(packages, lines), nil
	}

	var drafts []domain.EntryDraft
	walkNpmDependencies(object(doc["dependencies"]), []string{"dependencies"}, lines, &drafts)
	return drafts, nil
}

// npmPackages reads the flat map written by lockfileVersion 2 and 3.
func npmPackages(packages map[string]any, lines map[string]int) []domain.EntryDraft {
	root := object(packages[""])
	direct := make(map[string]struct{})
	for _, field := range dependencyFields {
		for name := range object(root[field]) {
			direct[name] = struct{}{}
		}
	}

	drafts := make([]domain.EntryDraft, 0, len(packages))
	for key, raw := range packages {
		if key == "" || !strings.HasPrefix(key, installPrefix) {
			continue
		}
		pkg := object(raw)
		if isTrue(pkg["link"]) {
			continue
		}
		name := npmNameFromPath(key)
		_, isDirect := direct[name]
		drafts = append(drafts, domain.EntryDraft{
			Name:      name,
			Version:   optString(pkg["version"]),
			Resolved:  optString(pkg["resolved"]),
			Integrity: optString(pkg["integrity"]),
			Line:      lines[keyPath("packages", key)],
			IsDirect:  isDirect,
		})
	}
	return drafts
}

// walkNpmDependencies reads the nested tree written by lockfileVersion 1.
// A node is emitted before its children.
func walkNpmDependencies(deps map[string]any, path []string, lines map[string]int, out *[]domain.EntryDraft) {
	for name, raw := range deps {
		dep := object(raw)
		keys := append(append([]string(nil), path...), name)
		*out = append(*out, domain.EntryDraft{
			Name:      name,
			Version:   optString(dep["version"]),
			Resolved:  optString(dep["resolved"]),
			Integrity: optString(dep["integrity"]),
			Line:      lines[keyPath(keys...)],
		})
		if children := object(dep["dependencies"]); children != nil {
			walkNpmDependencies(children, append(keys, "dependencies"), lines, out)
		}
	}
}

// npmNameFromPath returns the package name installed at a node_modules path.
func npmNameFromPath(key string) string {
	if i := strings.LastIndex(key, installPrefix); i >= 0 {
		return key[i+len(installPrefix):]
	}
	return key
}
