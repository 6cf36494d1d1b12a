package policy

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// ManifestLookup fetches published manifests for registry entries.
type ManifestLookup struct {
	Fetcher     ports.ManifestFetcher
	Registry    domain.RegistryURL
	Concurrency int
	Logger      ports.Logger
}

// fetchAll returns the manifest of every distinct registry entry, keyed by ID.
// Entries whose manifest cannot be fetched are logged and omitted.
func (l ManifestLookup) fetchAll(ctx context.Context, entries []domain.LockEntry) map[string]*domain.PackageManifest {
	var (
		mu  sync.Mutex
		out = make(map[string]*domain.PackageManifest)
		g   errgroup.Group
	)
	g.SetLimit(max(l.Concurrency, 1))

	seen := make(map[string]struct{})
	for _, e := range entries {
		if !isPublished(e) {
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			continue
		}
		seen[e.ID()] = struct{}{}

		g.Go(func() error {
			m, err := l.Fetcher.Manifest(ctx, l.Registry, e.Name, e.Version)
			if err != nil {
				l.Logger.Warn("could not fetch manifest of " + e.ID() + ": " + err.Error())
				return nil
			}
			mu.Lock()
			out[e.ID()] = m
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// isPublished reports whether the entry names a registry release.
func isPublished(e domain.LockEntry) bool {
	if e.Version == domain.UnknownVersion {
		return false
	}
	return !e.HasResolved() || domain.IsRegistryTarballURL(e.Resolved)
}

// Binaries reports executable names installed by more than one package.
// When exactly one provider is a direct dependency it wins the link, and the
// finding names it.
func Binaries(ctx context.Context, lookup ManifestLookup, in Input) []domain.Finding {
	manifests := lookup.fetchAll(ctx, in.Entries)

	providers := make(map[string][]domain.LockEntry)
	seen := make(map[string]struct{})
	for _, e := range in.Entries {
		m, ok := manifests[e.ID()]
		if !ok {
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			continue
		}
		seen[e.ID()] = struct{}{}
		for bin := range m.Bins {
			providers[bin] = append(providers[bin], e)
		}
	}

	bins := make([]string, 0, len(providers))
	for bin, list := range providers {
		if len(list) > 1 {
			bins = append(bins, bin)
		}
	}
	slices.Sort(bins)

	findings := make([]domain.Finding, 0, len(bins))
	for _, bin := range bins {
		list := providers[bin]
		first := list[0]

		var direct []domain.LockEntry
		for _, p := range list {
			if p.IsDirect {
				direct = append(direct, p)
			}
		}

		if len(direct) == 1 {
			active := direct[0]
			var others []string
			for _, p := range list {
				if p.ID() != active.ID() {
					others = append(others, p.ID())
				}
			}
			findings = append(findings, finding(domain.CheckBinaries, domain.SeverityError, in, first.Line, active.ID(),
				fmt.Sprintf("binary %q is provided by %d packages, active: %s (direct dependency), also provided by: %s",
					bin, len(list), active.ID(), strings.Join(others, ", "))))
			continue
		}

		ids := make([]string, len(list))
		for i, p := range list {
			ids[i] = p.ID()
		}
		findings = append(findings, finding(domain.CheckBinaries, domain.SeverityError, in, first.Line, first.ID(),
			fmt.Sprintf("binary %q is provided by multiple packages: %s", bin, strings.Join(ids, ", "))))
	}
	return findings
}
