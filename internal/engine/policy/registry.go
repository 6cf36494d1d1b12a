package policy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/lockguard/internal/core/domain"
)

// Registry reports entries resolved from registries the configuration does not
// allow. Entries without a recorded URL are ignored.
//
// In list mode each distinct registry is reported once, at its first line.
// In package mode every package must come from the registry whose patterns
// match its name, or from the default registry when none match.
func Registry(cfg domain.RegistryConfig, in Input) []domain.Finding {
	if cfg.PackageMode() {
		return packageRegistries(cfg, in)
	}
	return listRegistries(cfg.Allowed, in)
}

func listRegistries(configured []domain.RegistryURL, in Input) []domain.Finding {
	allowed := make([]domain.RegistryURL, len(configured))
	allowedNames := make([]string, len(configured))
	for i, r := range configured {
		allowed[i] = domain.NormalizeRegistry(string(r))
		allowedNames[i] = string(allowed[i])
	}

	var findings []domain.Finding
	seen := make(map[domain.RegistryURL]struct{})
	for _, e := range in.Entries {
		registry, ok := entryRegistry(e)
		if !ok {
			continue
		}
		if _, dup := seen[registry]; dup {
			continue
		}
		seen[registry] = struct{}{}
		if slices.Contains(allowed, registry) {
			continue
		}
		findings = append(findings, finding(domain.CheckRegistry, domain.SeverityError, in, e.Line, e.ID(),
			fmt.Sprintf("disallowed registry %q, allowed: %s", registry, strings.Join(allowedNames, ", "))))
	}
	return findings
}

func packageRegistries(cfg domain.RegistryConfig, in Input) []domain.Finding {
	registries := make([]domain.RegistryURL, 0, len(cfg.Packages))
	for r := range cfg.Packages {
		registries = append(registries, r)
	}
	slices.Sort(registries)

	var findings []domain.Finding
	for _, e := range in.Entries {
		registry, ok := entryRegistry(e)
		if !ok {
			continue
		}

		var matches []string
		for _, r := range registries {
			if matchesAny(e.Name, cfg.Packages[r]) {
				matches = append(matches, string(domain.NormalizeRegistry(string(r))))
			}
		}

		if len(matches) > 1 {
			findings = append(findings, finding(domain.CheckRegistry, domain.SeverityError, in, e.Line, e.ID(),
				fmt.Sprintf("package matches multiple registry patterns: %s", strings.Join(matches, ", "))))
			continue
		}

		expected := domain.NormalizeRegistry(string(cfg.Default))
		if len(matches) == 1 {
			expected = domain.RegistryURL(matches[0])
		}

		switch {
		case expected == "":
			findings = append(findings, finding(domain.CheckRegistry, domain.SeverityError, in, e.Line, e.ID(),
				fmt.Sprintf("disallowed registry %q, expected none (no pattern matched)", registry)))
		case registry != expected:
			findings = append(findings, finding(domain.CheckRegistry, domain.SeverityError, in, e.Line, e.ID(),
				fmt.Sprintf("disallowed registry %q, expected %q", registry, expected)))
		}
	}
	return findings
}

func entryRegistry(e domain.LockEntry) (domain.RegistryURL, bool) {
	if !e.IsRemote() {
		return "", false
	}
	registry, ok := domain.ExtractRegistry(e.Resolved)
	if !ok {
		return "", false
	}
	return domain.NormalizeRegistry(string(registry)), true
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
