package ports

import "go.trai.ch/lockguard/internal/core/domain"

// Workspace gives read access to a project directory.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Locate lists the lockfiles present in dir. Unreadable files are omitted.
	Locate(dir string) []domain.Lockfile

	// ReadLockfile returns the raw content of a located lockfile.
	ReadLockfile(lf domain.Lockfile) ([]byte, error)

	// ReadManifest parses the package.json in dir.
	ReadManifest(dir string) (*domain.ProjectManifest, error)

	// Projects lists root and every directory below it that holds a
	// package.json, skipping dependency and VCS directories.
	Projects(root string) []string
}
