// Package bunlockb decodes bun's binary lockfile by delegating to the bun CLI,
// which prints a bun.lockb as a yarn v1 lockfile when asked to run it.
package bunlockb

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockbDecoder = (*Decoder)(nil)

// Decoder implements ports.LockbDecoder. Decoded text is memoized by content
// hash, so parsing and version detection of one file run bun once.
type Decoder struct {
	runner  ports.CommandRunner
	tempDir string

	mu      sync.Mutex
	decoded map[uint64]string
}

// NewDecoder creates a Decoder. tempDir may be empty for the system default.
func NewDecoder(runner ports.CommandRunner, tempDir string) *Decoder {
	return &Decoder{
		runner:  runner,
		tempDir: tempDir,
		decoded: make(map[uint64]string),
	}
}

// Decode returns the yarn-equivalent text of a bun.lockb.
func (d *Decoder) Decode(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	key := xxhash.Sum64(data)
	d.mu.Lock()
	text, ok := d.decoded[key]
	d.mu.Unlock()
	if ok {
		return text, nil
	}

	dir, err := os.MkdirTemp(d.tempDir, "lockguard-lockb-")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrLockbDecodeFailed.Error())
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, domain.FormatBunBinary.FileName())
	if err := os.WriteFile(path, data, domain.PrivateFilePerm); err != nil {
		return "", zerr.Wrap(err, domain.ErrLockbDecodeFailed.Error())
	}

	out, err := d.runner.Run(ctx, "bun", path)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrLockbDecodeFailed.Error())
	}

	text = string(out)
	d.mu.Lock()
	d.decoded[key] = text
	d.mu.Unlock()
	return text, nil
}
