package npmregistry

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.GraphBuilder = (*GraphBuilder)(nil)

const (
	// MaxNodes bounds the number of packages a single resolution may visit.
	MaxNodes = 5000

	// defaultConcurrency bounds parallel packument requests per level.
	defaultConcurrency = 16

	defaultRootName = "root"
)

// GraphBuilder resolves a project manifest against registry packuments.
// It is not an installer: every name resolves to a single version, the first
// one reached in breadth-first order.
type GraphBuilder struct {
	client      *Client
	workspace   ports.Workspace
	logger      ports.Logger
	concurrency int
}

// NewGraphBuilder creates a GraphBuilder.
func NewGraphBuilder(client *Client, workspace ports.Workspace, logger ports.Logger) *GraphBuilder {
	return &GraphBuilder{
		client:      client,
		workspace:   workspace,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// request is one unresolved dependency edge.
type request struct {
	parent string
	name   string
	spec   string
}

// Build reads the manifest in dir and walks its dependencies breadth first.
func (b *GraphBuilder) Build(
	ctx context.Context,
	dir string,
	registry domain.RegistryURL,
) (*domain.DependencyGraph, error) {
	manifest, err := b.workspace.ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	rootName := manifest.Name
	if rootName == "" {
		rootName = defaultRootName
	}
	graph := domain.NewDependencyGraph(rootName)
	root := graph.RootKey()

	var level []request
	for _, deps := range []map[string]string{
		manifest.Dependencies,
		manifest.DevDependencies,
		manifest.OptionalDependencies,
	} {
		level = append(level, requests(root, deps)...)
	}

	resolved := make(map[string]string)
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docs := b.fetchLevel(ctx, registry, level)

		var next []request
		for _, req := range level {
			if err := graph.Link(req.parent, domain.NewInternedString(req.name)); err != nil {
				return nil, err
			}
			if _, seen := resolved[req.name]; seen {
				continue
			}

			node, deps, ok := b.resolve(req, docs)
			if !ok {
				resolved[req.name] = ""
				continue
			}
			key := graph.AddNode(node)
			resolved[req.name] = key
			if graph.Len() > MaxNodes {
				return nil, zerr.With(domain.ErrGraphTooLarge, "limit", MaxNodes)
			}
			next = append(next, requests(key, deps)...)
		}
		level = next
	}
	return graph, nil
}

// fetchLevel downloads the packuments a level needs. Failures are logged and
// leave the package out of the graph.
func (b *GraphBuilder) fetchLevel(
	ctx context.Context,
	registry domain.RegistryURL,
	level []request,
) map[string]*packument {
	var (
		mu   sync.Mutex
		docs = make(map[string]*packument)
		seen = make(map[string]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, req := range level {
		name, _, ok := registrySpec(req.name, req.spec)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		g.Go(func() error {
			doc, err := b.client.packument(gctx, registry, name)
			if err != nil {
				b.logger.Warn("could not fetch packument for " + name + ": " + err.Error())
				return nil
			}
			mu.Lock()
			docs[name] = doc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return docs
}

// resolve picks the version a request installs. Non-registry specs become
// leaves whose resolved value is the specifier itself.
func (b *GraphBuilder) resolve(req request, docs map[string]*packument) (domain.GraphNode, map[string]string, bool) {
	target, rng, ok := registrySpec(req.name, req.spec)
	if !ok {
		return domain.GraphNode{
			Name:     domain.NewInternedString(req.name),
			Version:  domain.UnknownVersion,
			Resolved: req.spec,
		}, nil, true
	}

	doc, ok := docs[target]
	if !ok {
		return domain.GraphNode{}, nil, false
	}
	version, err := pickVersion(doc, rng)
	if err != nil {
		b.logger.Warn("could not resolve " + req.name + "@" + req.spec + ": " + err.Error())
		return domain.GraphNode{}, nil, false
	}

	v := doc.Versions[version]
	deps := make(map[string]string, len(v.Dependencies)+len(v.OptionalDependencies))
	for name, spec := range v.Dependencies {
		deps[name] = spec
	}
	for name, spec := range v.OptionalDependencies {
		deps[name] = spec
	}

	return domain.GraphNode{
		Name:      domain.NewInternedString(req.name),
		Version:   version,
		Resolved:  v.Dist.Tarball,
		Integrity: distIntegrity(v.Dist.Integrity, v.Dist.Shasum),
	}, deps, true
}

func requests(parent string, deps map[string]string) []request {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]request, 0, len(names))
	for _, name := range names {
		out = append(out, request{parent: parent, name: name, spec: deps[name]})
	}
	return out
}

var nonRegistryPrefixes = []string{
	"file:", "link:", "workspace:", "portal:", "patch:",
	"git:", "git+", "github:", "gitlab:", "bitbucket:", "gist:",
	"http://", "https://",
}

// registrySpec returns the package name and range a spec resolves on the
// registry, following npm: aliases. It returns false for specs that are not
// served by a registry.
func registrySpec(name, spec string) (string, string, bool) {
	spec = strings.TrimSpace(spec)
	if alias, ok := strings.CutPrefix(spec, "npm:"); ok {
		i := strings.LastIndex(alias, "@")
		if i <= 0 {
			return alias, "", true
		}
		return alias[:i], alias[i+1:], true
	}
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(spec, prefix) {
			return "", "", false
		}
	}
	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") || strings.HasPrefix(spec, "~/") {
		return "", "", false
	}
	// user/repo GitHub shorthand
	if strings.Contains(spec, "/") {
		return "", "", false
	}
	return name, spec, true
}

// pickVersion follows npm's choice: a dist-tag by name, the latest tag when it
// satisfies the range, otherwise the highest satisfying version.
func pickVersion(doc *packument, rng string) (string, error) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		rng = "latest"
	}
	if tagged, ok := doc.DistTags[rng]; ok {
		if _, exists := doc.Versions[tagged]; exists {
			return tagged, nil
		}
	}

	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return "", zerr.With(domain.ErrNoVersionSatisfies, "range", rng)
	}

	if latest, ok := doc.DistTags["latest"]; ok {
		if v, err := semver.NewVersion(latest); err == nil && constraint.Check(v) {
			if _, exists := doc.Versions[latest]; exists {
				return latest, nil
			}
		}
	}

	var best *semver.Version
	var bestRaw string
	for raw := range doc.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil || !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	if best == nil {
		return "", zerr.With(domain.ErrNoVersionSatisfies, "range", rng)
	}
	return bestRaw, nil
}

// distIntegrity prefers the SRI string and falls back to the legacy hex sha1.
func distIntegrity(integrity, shasum string) string {
	if integrity != "" {
		return integrity
	}
	sum, err := hex.DecodeString(shasum)
	if err != nil || len(sum) == 0 {
		return ""
	}
	return string(domain.AlgorithmSHA1) + "-" + base64.StdEncoding.EncodeToString(sum)
}
