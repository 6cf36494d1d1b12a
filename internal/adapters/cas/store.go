// Package cas implements content-addressable artifact stores.
package cas

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // cacache hashes index lines with sha1
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactCache = (*Layout)(nil)

// Layout reads and writes npm's content-addressable cache (_cacache).
//
// Index entries live in index-v5/<h[0:2]>/<h[2:4]>/<h[4:]>, where h is the sha256
// of the request-cache key. Each line is "<sha1(json)>\t<json>". Content lives in
// content-v2/<algorithm>/<x[0:2]>/<x[2:4]>/<x[4:]>, where x is the hex digest of
// the content's own integrity.
type Layout struct {
	root string
	now  func() time.Time
}

// NewLayout creates a Layout rooted at dir, typically ~/.npm/_cacache.
func NewLayout(dir string) *Layout {
	return &Layout{root: filepath.Clean(dir), now: time.Now}
}

type indexRecord struct {
	Key       string         `json:"key"`
	Integrity *string        `json:"integrity"`
	Time      int64          `json:"time"`
	Size      int            `json:"size"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Get returns the artifact cached for url. Missing, unreadable and corrupt
// entries all yield domain.ErrCacheMiss.
func (l *Layout) Get(_ context.Context, url string) ([]byte, error) {
	key := cacheKey(url)

	//nolint:gosec // Path is built from the cache root and a hex digest
	data, err := os.ReadFile(l.bucketPath(key))
	if err != nil {
		return nil, zerr.With(domain.ErrCacheMiss, "url", url)
	}

	record, ok := findRecord(data, key)
	if !ok || record.Integrity == nil {
		return nil, zerr.With(domain.ErrCacheMiss, "url", url)
	}

	path, ok := l.contentPath(*record.Integrity)
	if !ok {
		return nil, zerr.With(domain.ErrCacheMiss, "url", url)
	}

	//nolint:gosec // Path is built from the cache root and a hex digest
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(domain.ErrCacheMiss, "url", url)
	}
	return content, nil
}

// Put writes data to the content store and appends an index record for url.
func (l *Layout) Put(_ context.Context, url string, data []byte) error {
	integrity := domain.ComputeIntegrity(domain.AlgorithmSHA512, data)
	contentPath, ok := l.contentPath(integrity.String())
	if !ok {
		return zerr.With(domain.ErrCacheWriteFailed, "url", url)
	}

	if _, err := os.Stat(contentPath); errors.Is(err, fs.ErrNotExist) {
		if err := writeAtomic(contentPath, data); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "url", url)
		}
	}

	key := cacheKey(url)
	value := integrity.String()
	line, err := indexLine(indexRecord{
		Key:       key,
		Integrity: &value,
		Time:      l.now().UnixMilli(),
		Size:      len(data),
		Metadata:  map[string]any{"url": url},
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	bucket := l.bucketPath(key)
	if err := os.MkdirAll(filepath.Dir(bucket), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	//nolint:gosec // Path is built from the cache root and a hex digest
	f, err := os.OpenFile(bucket, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// cacheKey is the key npm's fetcher uses for a tarball request. Fragments are
// never sent over the wire and are not part of the key.
func cacheKey(url string) string {
	url, _, _ = strings.Cut(url, "#")
	return domain.CacheKeyNamespace + url
}

func (l *Layout) bucketPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(l.root, domain.CacheIndexDir, h[0:2], h[2:4], h[4:])
}

// contentPath resolves the first parseable hash of an integrity value.
// Index records may hold several space-separated hashes.
func (l *Layout) contentPath(integrity string) (string, bool) {
	for _, candidate := range strings.Fields(integrity) {
		parsed, ok := domain.ParseIntegrity(candidate)
		if !ok {
			continue
		}
		h, err := parsed.Hex()
		if err != nil || len(h) < 5 {
			continue
		}
		return filepath.Join(l.root, domain.CacheContentDir, string(parsed.Algorithm), h[0:2], h[2:4], h[4:]), true
	}
	return "", false
}

// findRecord scans a bucket and returns the last valid record for key.
// Lines whose checksum does not match their JSON are skipped.
func findRecord(bucket []byte, key string) (indexRecord, bool) {
	var (
		found  indexRecord
		exists bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(bucket))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		sum, payload, ok := strings.Cut(scanner.Text(), "\t")
		if !ok || sum != sha1Hex(payload) {
			continue
		}
		var record indexRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			continue
		}
		if record.Key == key {
			found, exists = record, true
		}
	}
	return found, exists
}

func indexLine(record indexRecord) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return []byte("\n" + sha1Hex(string(payload)) + "\t" + string(payload)), nil
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// writeAtomic writes through a temp file in the target directory and renames it
// into place, so concurrent readers never see a partial artifact.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
