package ports

import (
	"context"

	"go.trai.ch/lockguard/internal/core/domain"
)

// GraphBuilder resolves a project manifest into an install graph.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type GraphBuilder interface {
	// Build returns the graph rooted at the manifest in dir, resolving ranges against registry.
	Build(ctx context.Context, dir string, registry domain.RegistryURL) (*domain.DependencyGraph, error)
}

// ManifestFetcher reads published package metadata from a registry.
type ManifestFetcher interface {
	// Manifest returns the metadata of name@version published on registry.
	Manifest(ctx context.Context, registry domain.RegistryURL, name, version string) (*domain.PackageManifest, error)
}
