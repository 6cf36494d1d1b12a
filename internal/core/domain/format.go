package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies an on-disk lockfile format.
type Format int

const (
	// FormatUnknown is returned for file names that are not a recognized lockfile.
	FormatUnknown Format = iota
	// FormatNpmLock is npm's package-lock.json.
	FormatNpmLock
	// FormatNpmShrinkwrap is npm's publishable npm-shrinkwrap.json.
	FormatNpmShrinkwrap
	// FormatYarn is yarn.lock (classic and berry).
	FormatYarn
	// FormatPnpm is pnpm-lock.yaml.
	FormatPnpm
	// FormatBun is bun's text lockfile, bun.lock.
	FormatBun
	// FormatBunBinary is bun's binary lockfile, bun.lockb.
	FormatBunBinary
	// FormatVlt is vlt-lock.json.
	FormatVlt
)

// PackageManager names the tool that owns a lockfile.
type PackageManager string

const (
	// ManagerNpm is npm.
	ManagerNpm PackageManager = "npm"
	// ManagerYarn is yarn.
	ManagerYarn PackageManager = "yarn"
	// ManagerPnpm is pnpm.
	ManagerPnpm PackageManager = "pnpm"
	// ManagerBun is bun.
	ManagerBun PackageManager = "bun"
	// ManagerVlt is vlt.
	ManagerVlt PackageManager = "vlt"
)

// Capabilities describes which LockEntry fields a format records on disk.
// Checks consult this instead of hard-coding per-format exceptions.
type Capabilities struct {
	// Version reports whether entries carry a declared version.
	Version bool
	// Resolved reports whether every registry entry carries an artifact URL.
	// Formats without it record URLs only for packages off the default registry, if at all.
	Resolved bool
	// Integrity reports whether entries carry an integrity hash.
	Integrity bool
}

var formatFiles = map[Format]string{
	FormatNpmLock:       "package-lock.json",
	FormatNpmShrinkwrap: "npm-shrinkwrap.json",
	FormatYarn:          "yarn.lock",
	FormatPnpm:          "pnpm-lock.yaml",
	FormatBun:           "bun.lock",
	FormatBunBinary:     "bun.lockb",
	FormatVlt:           "vlt-lock.json",
}

// AllFormats returns every known lockfile format in detection order.
func AllFormats() []Format {
	return []Format{
		FormatNpmLock,
		FormatNpmShrinkwrap,
		FormatYarn,
		FormatPnpm,
		FormatBun,
		FormatBunBinary,
		FormatVlt,
	}
}

// DetectFormat maps a file name (or path) to its lockfile format.
func DetectFormat(fileName string) Format {
	base := filepath.Base(fileName)
	for _, f := range AllFormats() {
		if formatFiles[f] == base {
			return f
		}
	}
	return FormatUnknown
}

// FileName returns the canonical file name of the format.
func (f Format) FileName() string {
	return formatFiles[f]
}

// String returns the canonical file name, or "unknown".
func (f Format) String() string {
	if name, ok := formatFiles[f]; ok {
		return name
	}
	return "unknown"
}

// Manager returns the package manager that produces the format.
func (f Format) Manager() PackageManager {
	switch f {
	case FormatNpmLock, FormatNpmShrinkwrap:
		return ManagerNpm
	case FormatYarn:
		return ManagerYarn
	case FormatPnpm:
		return ManagerPnpm
	case FormatBun, FormatBunBinary:
		return ManagerBun
	case FormatVlt:
		return ManagerVlt
	case FormatUnknown:
		return ""
	}
	return ""
}

// IsJSON reports whether the format is a JSON document.
func (f Format) IsJSON() bool {
	switch f {
	case FormatNpmLock, FormatNpmShrinkwrap, FormatBun, FormatVlt:
		return true
	case FormatUnknown, FormatYarn, FormatPnpm, FormatBunBinary:
		return false
	}
	return false
}

// Capabilities returns the fields the format stores for each package.
func (f Format) Capabilities() Capabilities {
	switch f {
	case FormatNpmLock, FormatNpmShrinkwrap, FormatYarn, FormatBunBinary:
		return Capabilities{Version: true, Resolved: true, Integrity: true}
	case FormatPnpm, FormatBun, FormatVlt:
		return Capabilities{Version: true, Resolved: false, Integrity: true}
	case FormatUnknown:
		return Capabilities{}
	}
	return Capabilities{}
}

// CapabilitiesAt refines Capabilities for a detected lockfile version. Yarn
// berry (v2+) records a resolution and a zip checksum instead of a tarball URL
// and an integrity hash.
func (f Format) CapabilitiesAt(version string) Capabilities {
	caps := f.Capabilities()
	if f == FormatYarn && version != "" && version != "1" {
		caps.Resolved = false
		caps.Integrity = false
	}
	return caps
}

// AllManagers returns every known package manager.
func AllManagers() []PackageManager {
	return []PackageManager{ManagerNpm, ManagerYarn, ManagerPnpm, ManagerBun, ManagerVlt}
}

// ParsePackageManager converts a configured name into a PackageManager.
func ParsePackageManager(s string) (PackageManager, bool) {
	pm := PackageManager(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllManagers() {
		if pm == known {
			return pm, true
		}
	}
	return "", false
}

// Lockfiles returns the formats a package manager may write.
func (pm PackageManager) Lockfiles() []Format {
	var out []Format
	for _, f := range AllFormats() {
		if f.Manager() == pm {
			out = append(out, f)
		}
	}
	return out
}

// DefaultLockfile returns the format a package manager writes out of the box.
func (pm PackageManager) DefaultLockfile() Format {
	switch pm {
	case ManagerNpm:
		return FormatNpmLock
	case ManagerYarn:
		return FormatYarn
	case ManagerPnpm:
		return FormatPnpm
	case ManagerBun:
		return FormatBun
	case ManagerVlt:
		return FormatVlt
	}
	return FormatUnknown
}

// Lockfile is a lockfile found on disk.
type Lockfile struct {
	Path   string
	Format Format
}

// Name returns the base file name.
func (l Lockfile) Name() string {
	return filepath.Base(l.Path)
}
