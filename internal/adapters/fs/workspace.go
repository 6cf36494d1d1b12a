package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Workspace = (*Workspace)(nil)

// Workspace reads lockfiles and manifests from the local file system.
type Workspace struct {
	walker *Walker
}

// NewWorkspace creates a Workspace that discovers projects with walker.
func NewWorkspace(walker *Walker) *Workspace {
	return &Workspace{walker: walker}
}

// Locate lists the lockfiles in dir in detection order. A file that cannot be
// opened is treated as absent.
func (w *Workspace) Locate(dir string) []domain.Lockfile {
	var found []domain.Lockfile
	for _, format := range domain.AllFormats() {
		path := filepath.Join(dir, format.FileName())
		if !readableFile(path) {
			continue
		}
		found = append(found, domain.Lockfile{Path: path, Format: format})
	}
	return found
}

// ReadLockfile returns the content of lf.
func (w *Workspace) ReadLockfile(lf domain.Lockfile) ([]byte, error) {
	data, err := os.ReadFile(lf.Path) //nolint:gosec // Path comes from Locate
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", lf.Path)
	}
	return data, nil
}

// ReadManifest parses the package.json in dir.
func (w *Workspace) ReadManifest(dir string) (*domain.ProjectManifest, error) {
	path := filepath.Join(dir, domain.ManifestFileName)
	data, err := os.ReadFile(path) //nolint:gosec // Path is built from the audited directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var manifest domain.ProjectManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	return &manifest, nil
}

// Projects lists root and the directories below it that contain a package.json.
func (w *Workspace) Projects(root string) []string {
	dirs := []string{filepath.Clean(root)}
	for path := range w.walker.WalkFiles(root) {
		if filepath.Base(path) != domain.ManifestFileName {
			continue
		}
		dir := filepath.Dir(path)
		if dir != dirs[0] {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs[1:])
	return dirs
}

func readableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path) //nolint:gosec // Path is built from the audited directory
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
