package policy

import (
	"regexp"
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

var specifierKinds = []struct {
	pattern *regexp.Regexp
	kind    string
}{
	{regexp.MustCompile(`^git(\+(https?|ssh))?://`), "git URL"},
	{regexp.MustCompile(`^github:`), "GitHub shorthand"},
	{regexp.MustCompile(`^https?://github\.com/[^/]+/[^/]+/tarball/`), "GitHub tarball URL"},
	{regexp.MustCompile(`^https?://codeload\.github\.com/`), "GitHub codeload URL"},
	{regexp.MustCompile(`^file:`), "file path"},
}

// Specifiers reports dependencies pulled from somewhere other than a registry,
// and registry downloads over plain HTTP. Ignore entries silence the former,
// never the latter.
func Specifiers(cfg domain.SpecifierConfig, in Input) []domain.Finding {
	var findings []domain.Finding
	for _, e := range in.Entries {
		if !e.HasResolved() {
			continue
		}

		if strings.HasPrefix(e.Resolved, "http://") {
			if _, ok := domain.ExtractRegistry(e.Resolved); ok {
				findings = append(findings, finding(domain.CheckSpecifiers, domain.SeverityError, in, e.Line, e.ID(),
					"uses insecure HTTP registry: "+e.Resolved))
				continue
			}
		}

		if domain.IsRegistryTarballURL(e.Resolved) || ignored(cfg.Ignore, e.Resolved) {
			continue
		}

		findings = append(findings, finding(domain.CheckSpecifiers, domain.SeverityWarning, in, e.Line, e.ID(),
			"uses "+SpecifierKind(e.Resolved)+": "+e.Resolved))
	}
	return findings
}

// SpecifierKind classifies a non-registry resolved value.
func SpecifierKind(resolved string) string {
	for _, k := range specifierKinds {
		if k.pattern.MatchString(resolved) {
			return k.kind
		}
	}
	if domain.IsHTTPURL(resolved) {
		return "tarball URL"
	}
	return "non-registry specifier"
}

func ignored(ignore []domain.IgnoredSpecifier, resolved string) bool {
	for _, entry := range ignore {
		if entry.Specifier != "" && strings.Contains(resolved, entry.Specifier) {
			return true
		}
	}
	return false
}
