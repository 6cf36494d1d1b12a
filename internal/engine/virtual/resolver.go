// Package virtual derives a lock entry list from a project manifest when no
// lockfile exists.
package virtual

import (
	"cmp"
	"context"
	"slices"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
)

// Resolver turns a resolved dependency graph into package records.
type Resolver struct {
	builder  ports.GraphBuilder
	logger   ports.Logger
	registry domain.RegistryURL
}

// NewResolver creates a Resolver that resolves against the public npm registry.
func NewResolver(builder ports.GraphBuilder, logger ports.Logger) *Resolver {
	return &Resolver{
		builder:  builder,
		logger:   logger,
		registry: domain.NormalizeRegistry(domain.DefaultRegistry),
	}
}

// WithRegistry returns a copy of the resolver that resolves against registry.
func (r *Resolver) WithRegistry(registry domain.RegistryURL) *Resolver {
	clone := *r
	if registry != "" {
		clone.registry = registry
	}
	return &clone
}

// Resolve lists every package in the install graph of the manifest in dir,
// sorted by name and version. Resolution failures are logged and yield an
// empty list.
func (r *Resolver) Resolve(ctx context.Context, dir string) []domain.VirtualPackageInfo {
	graph, err := r.builder.Build(ctx, dir, r.registry)
	if err != nil {
		r.logger.Warn("could not resolve dependencies of " + dir + ": " + err.Error())
		return []domain.VirtualPackageInfo{}
	}

	direct := graph.DirectNames()
	out := make([]domain.VirtualPackageInfo, 0, graph.Len())
	for node := range graph.Inventory() {
		if node.IsRoot {
			continue
		}
		name := node.Name.String()
		if name == "" {
			continue
		}
		_, isDirect := direct[name]
		out = append(out, domain.VirtualPackageInfo{
			Name:      name,
			Version:   cmp.Or(node.Version, domain.UnknownVersion),
			Resolved:  node.Resolved,
			Integrity: node.Integrity,
			IsDirect:  isDirect,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.VirtualPackageInfo) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Version, b.Version))
	})
	return out
}

// Entries resolves dir and lifts every package into a LockEntry.
func (r *Resolver) Entries(ctx context.Context, dir string) []domain.LockEntry {
	pkgs := r.Resolve(ctx, dir)
	entries := make([]domain.LockEntry, len(pkgs))
	for i, pkg := range pkgs {
		entries[i] = pkg.Entry()
	}
	return entries
}
