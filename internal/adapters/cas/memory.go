package cas

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactCache = (*Memory)(nil)

// Memory is a process-local artifact cache. It is used when the on-disk cache is
// disabled, so a run still downloads each artifact at most once.
type Memory struct {
	mu    sync.RWMutex
	items map[uint64][]byte
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[uint64][]byte)}
}

// Get returns a copy of the bytes stored for url.
func (m *Memory) Get(_ context.Context, url string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.items[memoryKey(url)]
	m.mu.RUnlock()
	if !ok {
		return nil, zerr.With(domain.ErrCacheMiss, "url", url)
	}
	return slices.Clone(data), nil
}

// Put stores a copy of data under url.
func (m *Memory) Put(_ context.Context, url string, data []byte) error {
	m.mu.Lock()
	m.items[memoryKey(url)] = slices.Clone(data)
	m.mu.Unlock()
	return nil
}

// Len returns the number of cached artifacts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func memoryKey(url string) uint64 {
	url, _, _ = strings.Cut(url, "#")
	return xxhash.Sum64String(url)
}
