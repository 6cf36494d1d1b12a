package config_test

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/adapters/config"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const root = "/work"

func newLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockCommandRunner, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(config.NewMapFSAdapter(root, files), runner, logger), runner, logger
}

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	loader, runner, _ := newLoader(t, fstest.MapFS{})
	runner.EXPECT().Run(gomock.Any(), "npm", "config", "get", "registry").
		Return([]byte("https://npm.example.com/\n"), nil)

	cfg, err := loader.Load(root + "/app")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultChecks(), cfg.Checks)
	assert.Equal(t, domain.RegistryURL("https://npm.example.com"), cfg.Network.Registry)
	assert.Equal(t, []domain.RegistryURL{"https://npm.example.com"}, cfg.Registries.Allowed)
	assert.Equal(t, map[domain.PackageManager][]domain.Format{domain.ManagerNpm: {domain.FormatNpmLock}}, cfg.Flavor)
	assert.True(t, cfg.Virtual.Enabled)
}

func TestLoader_RegistryFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  []byte
		err  error
	}{
		{name: "npm missing", err: errors.New("executable not found")},
		{name: "undefined", out: []byte("undefined\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, runner, _ := newLoader(t, fstest.MapFS{})
			runner.EXPECT().Run(gomock.Any(), "npm", "config", "get", "registry").Return(tt.out, tt.err)

			cfg, err := loader.Load(root)
			require.NoError(t, err)
			assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), cfg.Network.Registry)
		})
	}
}

func TestLoader_NilRunner(t *testing.T) {
	t.Parallel()

	loader := config.NewLoader(config.NewMapFSAdapter(root, fstest.MapFS{}), nil, nil)
	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), cfg.Network.Registry)
}

func TestLoader_FullFile(t *testing.T) {
	t.Parallel()

	loader, _, _ := newLoader(t, fstest.MapFS{
		".lockguard.yaml": {Data: []byte(`
checks: [flavor, registry, integrity, binaries, registry]
integrity:
  algorithms: [sha512, sha384]
  concurrency: 8
  deriveMissingResolved: false
cache:
  dir: /tmp/cacache
  disabled: true
registries:
  packages:
    https://registry.npmjs.org/: true
    https://npm.pkg.github.com/: ["@acme/*"]
  mirrors:
    npm.mirror.local: registry.npmjs.org
flavor:
  - npm
  - name: yarn
    files: [yarn.lock]
versions:
  npm: 3
  pnpm: [9.0, "6.0"]
specifiers:
  ignore:
    - specifier: github:acme/tool
      explanation: internal fork
shrinkwrap:
  ignore: [legacy-pkg, "other@^1"]
virtual:
  enabled: false
network:
  offline: true
  timeout: 10s
  registry: https://npm.pkg.github.com/
`)},
	})

	cfg, err := loader.Load(root + "/packages/web")
	require.NoError(t, err)

	assert.Equal(t, []domain.CheckName{
		domain.CheckFlavor, domain.CheckRegistry, domain.CheckIntegrity, domain.CheckBinaries,
	}, cfg.Checks)
	assert.Equal(t, []domain.Algorithm{domain.AlgorithmSHA512, domain.AlgorithmSHA384}, cfg.Integrity.Algorithms)
	assert.Equal(t, 8, cfg.Integrity.Concurrency)
	assert.False(t, cfg.Integrity.DeriveMissingResolved)
	assert.Equal(t, domain.CacheConfig{Dir: "/tmp/cacache", Disabled: true}, cfg.Cache)

	assert.True(t, cfg.Registries.PackageMode())
	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), cfg.Registries.Default)
	assert.Equal(t, []string{"@acme/*"}, cfg.Registries.Packages["https://npm.pkg.github.com"])
	assert.Empty(t, cfg.Registries.Allowed)
	assert.Equal(t, "registry.npmjs.org", cfg.Registries.Mirrors["npm.mirror.local"])

	assert.Equal(t, map[domain.PackageManager][]domain.Format{
		domain.ManagerNpm:  {domain.FormatNpmLock},
		domain.ManagerYarn: {domain.FormatYarn},
	}, cfg.Flavor)
	assert.Equal(t, []string{"3"}, cfg.Versions[domain.ManagerNpm])
	assert.Equal(t, []string{"9.0", "6.0"}, cfg.Versions[domain.ManagerPnpm])
	assert.Equal(t, []string{"2"}, cfg.Versions[domain.ManagerYarn])

	assert.Equal(t, []domain.IgnoredSpecifier{{Specifier: "github:acme/tool", Explanation: "internal fork"}},
		cfg.Specifiers.Ignore)
	assert.Equal(t, []string{"legacy-pkg", "other@^1"}, cfg.Shrinkwrap.Ignore)
	assert.False(t, cfg.Virtual.Enabled)
	assert.True(t, cfg.Network.Offline)
	assert.Equal(t, 10*time.Second, cfg.Network.Timeout)
	assert.Equal(t, domain.RegistryURL("https://npm.pkg.github.com"), cfg.Network.Registry)
}

func TestLoader_NearestFileWins(t *testing.T) {
	t.Parallel()

	loader, runner, _ := newLoader(t, fstest.MapFS{
		".lockguard.yaml":     {Data: []byte("checks: [flavor]\n")},
		"app/.lockguard.yaml": {Data: []byte("checks: [version]\n")},
	})
	runner.EXPECT().Run(gomock.Any(), "npm", "config", "get", "registry").Return(nil, errors.New("no npm"))

	cfg, err := loader.Load(root + "/app")
	require.NoError(t, err)
	assert.Equal(t, []domain.CheckName{domain.CheckVersion}, cfg.Checks)
}

func TestLoader_AllowedIgnoredWarning(t *testing.T) {
	t.Parallel()

	loader, _, logger := newLoader(t, fstest.MapFS{
		".lockguard.yaml": {Data: []byte(`
registries:
  allowed: [https://registry.npmjs.org]
  packages:
    https://npm.pkg.github.com: ["@acme/*"]
network:
  registry: https://registry.npmjs.org
`)},
	})
	logger.EXPECT().Warn(gomock.Any())

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.Registries.PackageMode())
}

func TestLoader_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "checks: [flavor\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "unknown check",
			content: "checks: [lint]\n",
			wantErr: domain.ErrUnknownCheck,
		},
		{
			name:    "invalid algorithm",
			content: "integrity:\n  algorithms: [md5]\n",
			wantErr: domain.ErrInvalidAlgorithm,
		},
		{
			name:    "registry is not a url",
			content: "registries:\n  allowed: [registry.npmjs.org]\n",
			wantErr: domain.ErrInvalidRegistryURL,
		},
		{
			name: "two default registries",
			content: `registries:
  packages:
    https://a.example.com: true
    https://b.example.com: true
`,
			wantErr: domain.ErrMultipleDefaultRegistries,
		},
		{
			name:    "unknown flavor manager",
			content: "flavor: [cargo]\n",
			wantErr: domain.ErrUnknownPackageManager,
		},
		{
			name:    "lockfile of another manager",
			content: "flavor:\n  - name: npm\n    files: [yarn.lock]\n",
			wantErr: domain.ErrUnknownFormat,
		},
		{
			name:    "invalid lockfile version",
			content: "versions:\n  yarn: 3\n",
			wantErr: domain.ErrInvalidLockfileVersion,
		},
		{
			name:    "invalid package patterns",
			content: "registries:\n  packages:\n    https://a.example.com: {a: b}\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "invalid network registry",
			content: "network:\n  registry: ftp://example.com\n",
			wantErr: domain.ErrInvalidRegistryURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, _, _ := newLoader(t, fstest.MapFS{".lockguard.yaml": {Data: []byte(tt.content)}})
			cfg, err := loader.Load(root)
			require.ErrorContains(t, err, tt.wantErr.Error())
			assert.Nil(t, cfg)
		})
	}
}

func TestLoader_InvalidTimeout(t *testing.T) {
	t.Parallel()

	loader, _, _ := newLoader(t, fstest.MapFS{".lockguard.yaml": {Data: []byte("network:\n  timeout: soon\n")}})
	_, err := loader.Load(root)
	require.ErrorContains(t, err, "network.timeout must be a positive duration")
}

func TestParseAlgorithms(t *testing.T) {
	t.Parallel()

	got, err := config.ParseAlgorithms([]string{"sha512", " sha1 ", "sha512"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Algorithm{domain.AlgorithmSHA512, domain.AlgorithmSHA1}, got)

	_, err = config.ParseAlgorithms([]string{"crc32"})
	require.ErrorContains(t, err, domain.ErrInvalidAlgorithm.Error())
}

func TestMapFSAdapter(t *testing.T) {
	t.Parallel()

	fsys := config.NewMapFSAdapter(root, fstest.MapFS{"a/b.txt": {Data: []byte("hi")}})

	data, err := fsys.ReadFile(root + "/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	info, err := fsys.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = fsys.Stat("/elsewhere/a/b.txt")
	require.Error(t, err)
}
