package cas

import (
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
)

var _ ports.CacheOpener = Opener{}

// Opener selects the cache strategy for an audit.
type Opener struct{}

// Open returns an in-memory cache when caching is disabled, and the npm cache
// layout rooted at cfg.Dir (or npm's default location) otherwise.
func (Opener) Open(cfg domain.CacheConfig) ports.ArtifactCache {
	if cfg.Disabled {
		return NewMemory()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = domain.DefaultCacheDir()
	}
	return NewLayout(dir)
}
