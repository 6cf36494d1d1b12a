package policy

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/lockguard/internal/core/domain"
)

// ignoreSpec is a parsed "name", "name@*" or "name@<range>" entry.
type ignoreSpec struct {
	name       string
	constraint *semver.Constraints
}

func parseIgnoreSpec(spec string) (ignoreSpec, error) {
	spec = strings.TrimSpace(spec)
	name, rng := spec, ""
	if i := strings.LastIndex(spec, "@"); i > 0 {
		name, rng = spec[:i], spec[i+1:]
	}
	if name == "" || name == "@" || strings.HasSuffix(name, "/") {
		return ignoreSpec{}, domain.ErrInvalidIgnoreSpec
	}
	if rng == "" || rng == "*" || rng == "latest" {
		return ignoreSpec{name: name}, nil
	}
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return ignoreSpec{}, domain.ErrInvalidIgnoreSpec
	}
	return ignoreSpec{name: name, constraint: c}, nil
}

func (s ignoreSpec) matches(name, version string) bool {
	if s.name != name {
		return false
	}
	if s.constraint == nil {
		return true
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return s.constraint.Check(v)
}

// Shrinkwrap reports packages whose published release ships an
// npm-shrinkwrap.json, which pins their own dependency tree. An invalid ignore
// spec is reported instead of running the check.
func Shrinkwrap(ctx context.Context, lookup ManifestLookup, ignore []string, in Input) []domain.Finding {
	specs := make([]ignoreSpec, 0, len(ignore))
	for _, raw := range ignore {
		spec, err := parseIgnoreSpec(raw)
		if err != nil {
			return []domain.Finding{finding(domain.CheckShrinkwrap, domain.SeverityError, in, 0, "",
				"invalid ignore entry `"+raw+"`: "+err.Error())}
		}
		specs = append(specs, spec)
	}

	manifests := lookup.fetchAll(ctx, in.Entries)

	var findings []domain.Finding
	reported := make(map[string]struct{})
	for _, e := range in.Entries {
		m, ok := manifests[e.ID()]
		if !ok || !m.HasShrinkwrap {
			continue
		}
		if _, dup := reported[e.ID()]; dup {
			continue
		}
		reported[e.ID()] = struct{}{}
		if isIgnored(specs, e.Name, e.Version) {
			continue
		}
		findings = append(findings, finding(domain.CheckShrinkwrap, domain.SeverityError, in, e.Line, e.ID(),
			"package includes an npm-shrinkwrap.json"))
	}
	return findings
}

func isIgnored(specs []ignoreSpec, name, version string) bool {
	for _, s := range specs {
		if s.matches(name, version) {
			return true
		}
	}
	return false
}
