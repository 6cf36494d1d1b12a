// Package config provides the configuration loader for lockguard.
package config

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// registryLookupTimeout bounds the `npm config get registry` call.
const registryLookupTimeout = 5 * time.Second

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fs     FileSystem
	runner ports.CommandRunner
	logger ports.Logger
}

// NewLoader creates a Loader. runner may be nil, in which case the npm
// registry setting is not consulted.
func NewLoader(fsys FileSystem, runner ports.CommandRunner, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, runner: runner, logger: logger}
}

// Load returns the configuration that applies to dir. The nearest
// .lockguard.yaml in dir or its parents is merged over the defaults.
func (l *Loader) Load(dir string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Network.Registry = ""

	path, found := l.findConfiguration(dir)
	if found {
		if err := l.loadFile(path, cfg); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		if len(cfg.Registries.Allowed) > 0 && len(cfg.Registries.Packages) > 0 {
			l.logger.Warn("registries.allowed is ignored in " + path + " because registries.packages is set")
		}
	}

	if cfg.Network.Registry == "" {
		cfg.Network.Registry = l.npmRegistry()
	}
	if cfg.Registries.Default == "" && !cfg.Registries.PackageMode() && len(cfg.Registries.Allowed) == 0 {
		cfg.Registries.Allowed = []domain.RegistryURL{cfg.Network.Registry}
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(dir string) (string, bool) {
	current := filepath.Clean(dir)
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := l.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func (l *Loader) loadFile(path string, cfg *domain.Config) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	appliers := []func(*File, *domain.Config) error{
		applyChecks,
		applyIntegrity,
		applyCache,
		applyRegistries,
		applyFlavor,
		applyVersions,
		applyIgnores,
		applyNetwork,
	}
	for _, apply := range appliers {
		if err := apply(&file, cfg); err != nil {
			return err
		}
	}
	return nil
}

// npmRegistry asks the npm CLI for its configured registry and falls back to
// the public registry.
func (l *Loader) npmRegistry() domain.RegistryURL {
	fallback := domain.NormalizeRegistry(domain.DefaultRegistry)
	if l.runner == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(context.Background(), registryLookupTimeout)
	defer cancel()

	out, err := l.runner.Run(ctx, "npm", "config", "get", "registry")
	if err != nil {
		return fallback
	}
	registry := strings.TrimSpace(string(out))
	if !domain.IsHTTPURL(registry) {
		return fallback
	}
	return domain.NormalizeRegistry(registry)
}

func applyChecks(file *File, cfg *domain.Config) error {
	if file.Checks == nil {
		return nil
	}
	checks := make([]domain.CheckName, 0, len(file.Checks))
	for _, name := range file.Checks {
		check, ok := domain.ParseCheckName(name)
		if !ok {
			return zerr.With(domain.ErrUnknownCheck, "check", name)
		}
		if !slices.Contains(checks, check) {
			checks = append(checks, check)
		}
	}
	cfg.Checks = checks
	return nil
}

func applyIntegrity(file *File, cfg *domain.Config) error {
	dto := file.Integrity
	if dto == nil {
		return nil
	}
	if dto.Algorithms != nil {
		algorithms, err := ParseAlgorithms(dto.Algorithms)
		if err != nil {
			return err
		}
		cfg.Integrity.Algorithms = algorithms
	}
	if dto.Concurrency > 0 {
		cfg.Integrity.Concurrency = dto.Concurrency
	}
	if dto.DeriveMissingResolved != nil {
		cfg.Integrity.DeriveMissingResolved = *dto.DeriveMissingResolved
	}
	return nil
}

// ParseAlgorithms validates algorithm names, keeping their order and dropping duplicates.
func ParseAlgorithms(names []string) ([]domain.Algorithm, error) {
	out := make([]domain.Algorithm, 0, len(names))
	for _, name := range names {
		a, ok := domain.ParseAlgorithm(strings.TrimSpace(name))
		if !ok {
			return nil, zerr.With(domain.ErrInvalidAlgorithm, "algorithm", name)
		}
		if !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func applyCache(file *File, cfg *domain.Config) error {
	if file.Cache == nil {
		return nil
	}
	if file.Cache.Dir != "" {
		cfg.Cache.Dir = file.Cache.Dir
	}
	cfg.Cache.Disabled = file.Cache.Disabled
	return nil
}

func applyRegistries(file *File, cfg *domain.Config) error {
	dto := file.Registries
	if dto == nil {
		return nil
	}

	for _, raw := range dto.Allowed {
		registry, err := parseRegistry(raw)
		if err != nil {
			return err
		}
		cfg.Registries.Allowed = append(cfg.Registries.Allowed, registry)
	}

	if len(dto.Packages) > 0 {
		cfg.Registries.Packages = make(map[domain.RegistryURL][]string, len(dto.Packages))
	}
	for raw, patterns := range dto.Packages {
		registry, err := parseRegistry(raw)
		if err != nil {
			return err
		}
		if patterns.Default {
			if cfg.Registries.Default != "" && cfg.Registries.Default != registry {
				return zerr.With(domain.ErrMultipleDefaultRegistries, "registry", raw)
			}
			cfg.Registries.Default = registry
			continue
		}
		if len(patterns.Patterns) > 0 {
			cfg.Registries.Packages[registry] = append(cfg.Registries.Packages[registry], patterns.Patterns...)
		}
	}

	for mirror, canonical := range dto.Mirrors {
		cfg.Registries.Mirrors[mirror] = canonical
	}
	return nil
}

func parseRegistry(raw string) (domain.RegistryURL, error) {
	if !domain.IsHTTPURL(raw) {
		return "", zerr.With(domain.ErrInvalidRegistryURL, "registry", raw)
	}
	return domain.NormalizeRegistry(raw), nil
}

func applyFlavor(file *File, cfg *domain.Config) error {
	if file.Flavor == nil {
		return nil
	}

	flavor := make(map[domain.PackageManager][]domain.Format, len(file.Flavor))
	for _, dto := range file.Flavor {
		pm, ok := domain.ParsePackageManager(dto.Name)
		if !ok {
			return zerr.With(domain.ErrUnknownPackageManager, "manager", dto.Name)
		}
		if len(dto.Files) == 0 {
			flavor[pm] = appendFormat(flavor[pm], pm.DefaultLockfile())
			continue
		}
		for _, name := range dto.Files {
			format := domain.DetectFormat(name)
			if format == domain.FormatUnknown || format.Manager() != pm {
				return zerr.With(zerr.With(domain.ErrUnknownFormat, "file", name), "manager", dto.Name)
			}
			flavor[pm] = appendFormat(flavor[pm], format)
		}
	}
	cfg.Flavor = flavor
	return nil
}

func appendFormat(formats []domain.Format, f domain.Format) []domain.Format {
	if slices.Contains(formats, f) {
		return formats
	}
	return append(formats, f)
}

func applyVersions(file *File, cfg *domain.Config) error {
	for name, versions := range file.Versions {
		pm, ok := domain.ParsePackageManager(name)
		if !ok {
			return zerr.With(domain.ErrUnknownPackageManager, "manager", name)
		}
		valid := domain.ValidVersions(pm)
		for _, v := range versions {
			if !slices.Contains(valid, v) {
				err := zerr.With(domain.ErrInvalidLockfileVersion, "manager", name)
				return zerr.With(zerr.With(err, "version", v), "valid", strings.Join(valid, ", "))
			}
		}
		cfg.Versions[pm] = slices.Clone(versions)
	}
	return nil
}

func applyIgnores(file *File, cfg *domain.Config) error {
	if file.Specifiers != nil {
		for _, dto := range file.Specifiers.Ignore {
			cfg.Specifiers.Ignore = append(cfg.Specifiers.Ignore, domain.IgnoredSpecifier{
				Specifier:   dto.Specifier,
				Explanation: dto.Explanation,
			})
		}
	}
	if file.Shrinkwrap != nil {
		cfg.Shrinkwrap.Ignore = append(cfg.Shrinkwrap.Ignore, file.Shrinkwrap.Ignore...)
	}
	if file.Virtual != nil && file.Virtual.Enabled != nil {
		cfg.Virtual.Enabled = *file.Virtual.Enabled
	}
	return nil
}

func applyNetwork(file *File, cfg *domain.Config) error {
	dto := file.Network
	if dto == nil {
		return nil
	}
	cfg.Network.Offline = dto.Offline
	if dto.Timeout != "" {
		timeout, err := time.ParseDuration(dto.Timeout)
		if err != nil || timeout <= 0 {
			return zerr.With(zerr.New("network.timeout must be a positive duration"), "timeout", dto.Timeout)
		}
		cfg.Network.Timeout = timeout
	}
	if dto.Registry != "" {
		registry, err := parseRegistry(dto.Registry)
		if err != nil {
			return err
		}
		cfg.Network.Registry = registry
	}
	return nil
}
