// Package npmregistry reads package metadata from npm-compatible registries.
package npmregistry

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"

	"go.trai.ch/lockguard/internal/adapters/httpfetch"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestFetcher = (*Client)(nil)

// abbreviatedAccept requests the install-only packument, which omits readmes and
// per-version history.
const abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

// Client fetches packuments and version manifests.
// Packuments are memoized per registry and name for the lifetime of the client.
type Client struct {
	http *httpfetch.Client

	mu         sync.Mutex
	packuments map[string]*packument
}

// NewClient creates a Client on top of an HTTP client.
func NewClient(http *httpfetch.Client) *Client {
	return &Client{
		http:       http,
		packuments: make(map[string]*packument),
	}
}

type packument struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]*versionDoc `json:"versions"`
}

type versionDoc struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Bin                  json.RawMessage   `json:"bin"`
	HasShrinkwrap        bool              `json:"_hasShrinkwrap"`
	Dist                 struct {
		Tarball   string `json:"tarball"`
		Integrity string `json:"integrity"`
		Shasum    string `json:"shasum"`
	} `json:"dist"`
}

// Manifest returns the published metadata of name@version.
func (c *Client) Manifest(
	ctx context.Context,
	registry domain.RegistryURL,
	name, version string,
) (*domain.PackageManifest, error) {
	var doc versionDoc
	target := packageURL(registry, name) + "/" + url.PathEscape(version)
	if err := c.http.GetJSON(ctx, target, nil, &doc); err != nil {
		return nil, zerr.With(zerr.With(err, "package", name), "version", version)
	}

	bins, err := parseBins(name, doc.Bin)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid bin field"), "package", name)
	}
	return &domain.PackageManifest{
		Name:          name,
		Version:       version,
		Bins:          bins,
		HasShrinkwrap: doc.HasShrinkwrap,
	}, nil
}

func (c *Client) packument(ctx context.Context, registry domain.RegistryURL, name string) (*packument, error) {
	key := string(registry) + "|" + name

	c.mu.Lock()
	cached, ok := c.packuments[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var doc packument
	headers := map[string]string{"Accept": abbreviatedAccept}
	if err := c.http.GetJSON(ctx, packageURL(registry, name), headers, &doc); err != nil {
		return nil, zerr.With(err, "package", name)
	}

	c.mu.Lock()
	c.packuments[key] = &doc
	c.mu.Unlock()
	return &doc, nil
}

// packageURL escapes the scope separator the way the npm CLI does: @scope%2Fname.
func packageURL(registry domain.RegistryURL, name string) string {
	return string(domain.NormalizeRegistry(string(registry))) + "/" + url.PathEscape(name)
}

// parseBins accepts both forms of the bin field. A string names a single
// executable called after the unscoped package name.
func parseBins(name string, raw json.RawMessage) (map[string]string, error) {
	bins := map[string]string{}
	if len(raw) == 0 || string(raw) == "null" {
		return bins, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single != "" {
			bins[unscoped(name)] = single
		}
		return bins, nil
	}

	var many map[string]string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	for bin, target := range many {
		if bin != "" {
			bins[bin] = target
		}
	}
	return bins, nil
}

func unscoped(name string) string {
	if i := strings.LastIndex(name, "/"); i != -1 {
		return name[i+1:]
	}
	return name
}
