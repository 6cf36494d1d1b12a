package domain

import (
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = ".lockguard.yaml"

	// ManifestFileName is the name of the project manifest.
	ManifestFileName = "package.json"

	// CacheIndexDir is the index directory of npm's content-addressable cache.
	CacheIndexDir = "index-v5"

	// CacheContentDir is the content directory of npm's content-addressable cache.
	CacheContentDir = "content-v2"

	// CacheKeyNamespace prefixes every request-cache key written by npm's fetcher.
	CacheKeyNamespace = "make-fetch-happen:request-cache:"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCacheDir returns the directory npm uses for its artifact cache.
// It honors npm_config_cache and falls back to ~/.npm/_cacache.
func DefaultCacheDir() string {
	if dir := os.Getenv("npm_config_cache"); dir != "" {
		return filepath.Join(dir, "_cacache")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".npm", "_cacache")
	}
	return filepath.Join(home, ".npm", "_cacache")
}
