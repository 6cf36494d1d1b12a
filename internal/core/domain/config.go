package domain

import (
	"runtime"
	"slices"
	"time"
)

// CheckName identifies one audit check.
type CheckName string

const (
	// CheckFlavor enforces the allowed lockfile formats.
	CheckFlavor CheckName = "flavor"
	// CheckVersion enforces lockfile format versions.
	CheckVersion CheckName = "version"
	// CheckRegistry enforces allowed registries.
	CheckRegistry CheckName = "registry"
	// CheckIntegrity verifies integrity hashes against artifacts.
	CheckIntegrity CheckName = "integrity"
	// CheckSpecifiers reports dependencies pulled from non-registry sources.
	CheckSpecifiers CheckName = "specifiers"
	// CheckBinaries reports packages that install the same executable name.
	CheckBinaries CheckName = "binaries"
	// CheckShrinkwrap reports dependencies that publish an npm-shrinkwrap.json.
	CheckShrinkwrap CheckName = "shrinkwrap"
	// CheckParse reports lockfiles that cannot be parsed. It always runs and
	// cannot be configured.
	CheckParse CheckName = "parse"
)

// AllChecks returns every check in execution order.
func AllChecks() []CheckName {
	return []CheckName{
		CheckFlavor,
		CheckVersion,
		CheckRegistry,
		CheckSpecifiers,
		CheckIntegrity,
		CheckBinaries,
		CheckShrinkwrap,
	}
}

// DefaultChecks returns the checks that run when none are configured.
// Checks that need a registry manifest per package are opt-in.
func DefaultChecks() []CheckName {
	return []CheckName{CheckFlavor, CheckVersion, CheckRegistry, CheckSpecifiers, CheckIntegrity}
}

// ParseCheckName validates a check name.
func ParseCheckName(s string) (CheckName, bool) {
	c := CheckName(s)
	if slices.Contains(AllChecks(), c) {
		return c, true
	}
	return "", false
}

// Config is the effective audit configuration.
type Config struct {
	Checks     []CheckName
	Integrity  IntegrityConfig
	Cache      CacheConfig
	Registries RegistryConfig
	Flavor     map[PackageManager][]Format
	Versions   map[PackageManager][]string
	Specifiers SpecifierConfig
	Shrinkwrap ShrinkwrapConfig
	Virtual    VirtualConfig
	Network    NetworkConfig
}

// IntegrityConfig configures the integrity check.
type IntegrityConfig struct {
	Algorithms  []Algorithm
	Concurrency int
	// DeriveMissingResolved synthesizes default-registry tarball URLs for formats
	// that do not record resolved URLs.
	DeriveMissingResolved bool
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Dir      string
	Disabled bool
}

// RegistryConfig configures the registry check.
// When Packages is set the check runs per package, otherwise per lockfile against Allowed.
type RegistryConfig struct {
	Allowed  []RegistryURL
	Packages map[RegistryURL][]string
	Default  RegistryURL
	Mirrors  map[string]string
}

// PackageMode reports whether registries are assigned per package pattern.
func (c RegistryConfig) PackageMode() bool {
	return len(c.Packages) > 0 || (c.Default != "" && len(c.Allowed) == 0)
}

// IgnoredSpecifier allows one non-registry dependency.
type IgnoredSpecifier struct {
	Specifier   string
	Explanation string
}

// SpecifierConfig configures the non-registry specifier check.
type SpecifierConfig struct {
	Ignore []IgnoredSpecifier
}

// ShrinkwrapConfig configures the shrinkwrap check.
type ShrinkwrapConfig struct {
	// Ignore holds npm-style package specs: "name", "name@*" or "name@<range>".
	Ignore []string
}

// VirtualConfig configures lockfile-less audits.
type VirtualConfig struct {
	Enabled bool
}

// NetworkConfig configures registry and artifact downloads.
type NetworkConfig struct {
	Offline  bool
	Timeout  time.Duration
	Registry RegistryURL
}

// DefaultVersions returns the expected lockfile version per package manager.
func DefaultVersions() map[PackageManager][]string {
	return map[PackageManager][]string{
		ManagerNpm:  {"3"},
		ManagerYarn: {"2"},
		ManagerPnpm: {"9.0"},
		ManagerBun:  {"1"},
		ManagerVlt:  {"0"},
	}
}

// ValidVersions returns every lockfile version a package manager has written.
func ValidVersions(pm PackageManager) []string {
	switch pm {
	case ManagerNpm:
		return []string{"1", "2", "3"}
	case ManagerYarn:
		return []string{"1", "2"}
	case ManagerPnpm:
		return []string{"5.3", "5.4", "6.0", "6.1", "7.0", "9.0"}
	case ManagerBun:
		return []string{"0", "1"}
	case ManagerVlt:
		return []string{"0"}
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Checks: DefaultChecks(),
		Integrity: IntegrityConfig{
			Algorithms:            DefaultAlgorithms(),
			Concurrency:           runtime.NumCPU() * 4,
			DeriveMissingResolved: true,
		},
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
		},
		Registries: RegistryConfig{
			Mirrors: map[string]string{},
		},
		Flavor: map[PackageManager][]Format{
			ManagerNpm: {FormatNpmLock},
		},
		Versions: DefaultVersions(),
		Virtual:  VirtualConfig{Enabled: true},
		Network: NetworkConfig{
			Timeout:  30 * time.Second,
			Registry: NormalizeRegistry(DefaultRegistry),
		},
	}
}

// Enabled reports whether the check is configured to run.
func (c *Config) Enabled(check CheckName) bool {
	return slices.Contains(c.Checks, check)
}
