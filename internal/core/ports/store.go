package ports

import (
	"context"

	"go.trai.ch/lockguard/internal/core/domain"
)

// ArtifactCache is a content store for package tarballs keyed by URL.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactCache interface {
	// Get returns the cached bytes for url, or domain.ErrCacheMiss.
	Get(ctx context.Context, url string) ([]byte, error)

	// Put stores data under url.
	Put(ctx context.Context, url string, data []byte) error
}

// ArtifactFetcher downloads package tarballs.
type ArtifactFetcher interface {
	// Fetch returns the body of url.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CacheOpener opens the artifact cache selected by a cache configuration.
type CacheOpener interface {
	Open(cfg domain.CacheConfig) ArtifactCache
}
