package domain

import (
	"net/url"
	"strings"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org/"

// RegistryURL is a normalized scheme://host[/path-prefix] with no trailing slash.
type RegistryURL string

// tarballSeparator marks the start of the tarball path in npm registry URLs:
// {registry}/{package}/-/{package}-{version}.tgz.
const tarballSeparator = "/-/"

// knownMirrors maps hosts that serve byte-identical copies of a canonical registry.
var knownMirrors = map[string]string{
	"registry.yarnpkg.com": "registry.npmjs.org",
}

// ExtractRegistry derives the registry that published a resolved tarball URL.
// Scoped and unscoped packages on the same path-mounted registry map to the same value.
// It returns false when the URL cannot be parsed.
func ExtractRegistry(resolved string) (RegistryURL, bool) {
	u, err := url.Parse(strings.TrimSpace(resolved))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	origin := u.Scheme + "://" + strings.ToLower(u.Host)

	path := u.EscapedPath()
	idx := strings.Index(path, tarballSeparator)
	if idx == -1 {
		return RegistryURL(origin), true
	}

	beforeTarball := path[:idx]
	lastSlash := strings.LastIndex(beforeTarball, "/")
	if lastSlash == -1 {
		return RegistryURL(origin), true
	}

	registryPath := beforeTarball[:lastSlash]
	if scopeSlash := strings.LastIndex(registryPath, "/"); scopeSlash != -1 &&
		strings.HasPrefix(registryPath[scopeSlash+1:], "@") {
		registryPath = registryPath[:scopeSlash]
	}

	return RegistryURL(origin + registryPath), true
}

// NormalizeRegistry strips exactly one trailing slash and lowercases the scheme and host.
func NormalizeRegistry(registry string) RegistryURL {
	registry = strings.TrimSuffix(registry, "/")
	scheme, rest, ok := strings.Cut(registry, "://")
	if !ok {
		return RegistryURL(registry)
	}
	host, path, hasPath := strings.Cut(rest, "/")
	normalized := strings.ToLower(scheme) + "://" + strings.ToLower(host)
	if hasPath {
		normalized += "/" + path
	}
	return RegistryURL(normalized)
}

// IsHTTPURL reports whether s is an http:// or https:// URL.
func IsHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsRegistryTarballURL reports whether s looks like a registry tarball URL.
func IsRegistryTarballURL(s string) bool {
	return IsHTTPURL(s) && strings.Contains(s, tarballSeparator)
}

// CanonicalMirrorURL rewrites a URL on a known mirror host to its canonical host.
// It returns false when the host is not a known mirror.
func CanonicalMirrorURL(raw string, mirrors map[string]string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Host)
	canonical, ok := mirrors[host]
	if !ok {
		canonical, ok = knownMirrors[host]
	}
	if !ok || canonical == host {
		return "", false
	}
	u.Host = canonical
	return u.String(), true
}

// DefaultTarballURL builds the conventional tarball URL for name@version on a registry.
func DefaultTarballURL(registry RegistryURL, name, version string) string {
	base := name
	if i := strings.LastIndex(name, "/"); i != -1 {
		base = name[i+1:]
	}
	return string(NormalizeRegistry(string(registry))) + "/" + name + tarballSeparator + base + "-" + version + ".tgz"
}
