package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/adapters/cas"
	"go.trai.ch/lockguard/internal/app"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports/mocks"
	"go.trai.ch/lockguard/internal/engine/lockfile"
	"go.trai.ch/lockguard/internal/engine/virtual"
	"go.uber.org/mock/gomock"
)

const (
	tarballA = "https://registry.npmjs.org/a/-/a-1.0.0.tgz"
	tarballB = "https://registry.npmjs.org/b/-/b-2.0.0.tgz"
)

var (
	artifactA = []byte("tarball a")
	artifactB = []byte("tarball b")
)

func sri(data []byte) string {
	return domain.ComputeIntegrity(domain.AlgorithmSHA512, data).String()
}

type harness struct {
	loader    *mocks.MockConfigLoader
	workspace *mocks.MockWorkspace
	builder   *mocks.MockGraphBuilder
	manifests *mocks.MockManifestFetcher
	artifacts *mocks.MockArtifactFetcher
	caches    *mocks.MockCacheOpener
	logger    *mocks.MockLogger
	cache     *cas.Memory
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		loader:    mocks.NewMockConfigLoader(ctrl),
		workspace: mocks.NewMockWorkspace(ctrl),
		builder:   mocks.NewMockGraphBuilder(ctrl),
		manifests: mocks.NewMockManifestFetcher(ctrl),
		artifacts: mocks.NewMockArtifactFetcher(ctrl),
		caches:    mocks.NewMockCacheOpener(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		cache:     cas.NewMemory(),
	}
	h.caches.EXPECT().Open(gomock.Any()).Return(h.cache).AnyTimes()
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	h.app = app.New(
		h.loader,
		h.workspace,
		lockfile.NewSuite(nil),
		virtual.NewResolver(h.builder, h.logger),
		h.manifests,
		h.artifacts,
		h.caches,
		nil,
		h.logger,
	)
	return h
}

func config(checks ...domain.CheckName) *domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Checks = checks
	cfg.Registries.Allowed = []domain.RegistryURL{"https://registry.npmjs.org"}
	cfg.Integrity.Concurrency = 2
	return cfg
}

func npmLockfile(integrityB string) []byte {
	return fmt.Appendf(nil, `{
  "name": "demo",
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "demo", "dependencies": {"a": "^1.0.0"}},
    "node_modules/a": {"version": "1.0.0", "resolved": %q, "integrity": %q},
    "node_modules/b": {"version": "2.0.0", "resolved": %q, "integrity": %q}
  }
}
`, tarballA, sri(artifactA), tarballB, integrityB)
}

func TestApp_Audit_Lockfile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()
	lf := domain.Lockfile{Path: filepath.Join(root, "package-lock.json"), Format: domain.FormatNpmLock}

	cfg := config(domain.CheckFlavor, domain.CheckVersion, domain.CheckRegistry, domain.CheckIntegrity)
	cfg.Network.Offline = true
	h.loader.EXPECT().Load(root).Return(cfg, nil)
	h.workspace.EXPECT().Locate(root).Return([]domain.Lockfile{lf})
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{
		Name:         "demo",
		Dependencies: map[string]string{"a": "^1.0.0"},
	}, nil)
	h.workspace.EXPECT().ReadLockfile(lf).Return(npmLockfile(sri([]byte("something else"))), nil)

	require.NoError(t, h.cache.Put(context.Background(), tarballA, artifactA))
	require.NoError(t, h.cache.Put(context.Background(), tarballB, artifactB))

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{})
	require.NoError(t, err)

	require.Len(t, rep.Lockfiles, 1)
	got := rep.Lockfiles[0]
	assert.Equal(t, "package-lock.json", got.File)
	assert.Equal(t, "npm", got.Format)
	assert.Equal(t, "3", got.Version)
	assert.Equal(t, 2, got.Entries)
	require.Len(t, got.Outcomes, 2)
	assert.Equal(t, domain.OutcomeVerified, got.Outcomes[0].Kind)
	assert.True(t, got.Outcomes[0].Entry.IsDirect)
	assert.Equal(t, domain.SourceCache, got.Outcomes[0].Source)
	assert.Equal(t, domain.OutcomeMismatch, got.Outcomes[1].Kind)

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.CheckIntegrity, rep.Findings[0].Check)
	assert.Equal(t, "b@2.0.0", rep.Findings[0].Package)
	assert.True(t, rep.Failed())
	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))
}

func TestApp_Audit_OptionsOverrideConfig(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()
	lf := domain.Lockfile{Path: filepath.Join(root, "package-lock.json"), Format: domain.FormatNpmLock}

	h.loader.EXPECT().Load(root).Return(config(domain.CheckFlavor), nil)
	h.workspace.EXPECT().Locate(root).Return([]domain.Lockfile{lf})
	h.workspace.EXPECT().ReadManifest(root).Return(nil, fmt.Errorf("read: %w", fs.ErrNotExist))
	h.workspace.EXPECT().ReadLockfile(lf).Return(npmLockfile(sri(artifactB)), nil)

	// With network disabled nothing is fetched and the uncached entry fails.
	require.NoError(t, h.cache.Put(context.Background(), tarballA, artifactA))

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{
		Checks:    []domain.CheckName{domain.CheckIntegrity},
		NoNetwork: true,
	})
	require.NoError(t, err)

	outcomes := rep.Lockfiles[0].Outcomes
	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.OutcomeVerified, outcomes[0].Kind)
	assert.Equal(t, domain.OutcomeFetchFailed, outcomes[1].Kind)
	assert.Contains(t, outcomes[1].Reason, domain.ErrNetworkDisabled.Error())
}

func TestApp_Audit_MalformedLockfile(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()
	lf := domain.Lockfile{Path: filepath.Join(root, "package-lock.json"), Format: domain.FormatNpmLock}

	h.loader.EXPECT().Load(root).Return(config(domain.CheckIntegrity), nil)
	h.workspace.EXPECT().Locate(root).Return([]domain.Lockfile{lf})
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{}, nil)
	h.workspace.EXPECT().ReadLockfile(lf).Return([]byte("{not json"), nil)

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{})
	require.NoError(t, err)

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.CheckParse, rep.Findings[0].Check)
	assert.Equal(t, "package-lock.json", rep.Findings[0].File)
	assert.Contains(t, rep.Findings[0].Message, "is malformed")
	assert.True(t, rep.Failed())
}

func TestApp_Audit_VirtualFallback(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()

	cfg := config(domain.CheckRegistry, domain.CheckIntegrity)
	cfg.Network.Registry = "https://registry.npmjs.org"
	h.loader.EXPECT().Load(root).Return(cfg, nil)
	h.workspace.EXPECT().Locate(root).Return(nil)
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{Name: "demo"}, nil)

	graph := domain.NewDependencyGraph("demo")
	graph.AddNode(domain.GraphNode{
		Name:      domain.NewInternedString("a"),
		Version:   "1.0.0",
		Resolved:  tarballA,
		Integrity: sri(artifactA),
	})
	require.NoError(t, graph.Link(graph.RootKey(), domain.NewInternedString("a")))
	h.builder.EXPECT().Build(gomock.Any(), root, domain.RegistryURL("https://registry.npmjs.org")).Return(graph, nil)
	h.artifacts.EXPECT().Fetch(gomock.Any(), tarballA).Return(artifactA, nil)

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{})
	require.NoError(t, err)

	require.Len(t, rep.Lockfiles, 1)
	assert.True(t, rep.Lockfiles[0].Virtual)
	assert.Equal(t, "virtual", rep.Lockfiles[0].File)
	require.Len(t, rep.Lockfiles[0].Outcomes, 1)
	assert.Equal(t, domain.OutcomeVerified, rep.Lockfiles[0].Outcomes[0].Kind)
	assert.Equal(t, domain.SourceNetwork, rep.Lockfiles[0].Outcomes[0].Source)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, 1, h.cache.Len(), "downloads are written through to the cache")
}

func TestApp_Audit_NoLockfileOffline(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()

	cfg := config(domain.CheckIntegrity)
	cfg.Network.Offline = true
	h.loader.EXPECT().Load(root).Return(cfg, nil)
	h.workspace.EXPECT().Locate(root).Return(nil)
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{}, nil)
	h.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "network access is disabled")
	})

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Lockfiles)
	assert.False(t, rep.Failed())
}

func TestApp_Audit_Recursive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()
	web := filepath.Join(root, "packages", "web")
	lf := domain.Lockfile{Path: filepath.Join(web, "yarn.lock"), Format: domain.FormatYarn}

	h.workspace.EXPECT().Projects(root).Return([]string{root, web})
	h.loader.EXPECT().Load(root).Return(config(domain.CheckFlavor), nil)
	h.loader.EXPECT().Load(web).Return(config(domain.CheckFlavor), nil)

	h.workspace.EXPECT().Locate(root).Return(nil)
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{}, nil)
	h.workspace.EXPECT().Locate(web).Return([]domain.Lockfile{lf})
	h.workspace.EXPECT().ReadManifest(web).Return(&domain.ProjectManifest{}, nil)
	h.workspace.EXPECT().ReadLockfile(lf).Return([]byte("# yarn lockfile v1\n"), nil)

	// The root has no lockfile; virtual resolution is attempted and yields nothing.
	h.builder.EXPECT().Build(gomock.Any(), root, gomock.Any()).Return(nil, errors.New("no package.json"))
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{Recursive: true})
	require.NoError(t, err)

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, domain.CheckFlavor, rep.Findings[0].Check)
	assert.Equal(t, "packages/web/yarn.lock", rep.Findings[0].File)
}

func TestApp_Audit_ConfigError(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	root := t.TempDir()
	h.loader.EXPECT().Load(root).Return(nil, domain.ErrUnknownCheck)

	_, err := h.app.Audit(context.Background(), root, app.AuditOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCheck)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Audit_Progress(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.app.WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	root := t.TempDir()
	lf := domain.Lockfile{Path: filepath.Join(root, "package-lock.json"), Format: domain.FormatNpmLock}

	h.loader.EXPECT().Load(root).Return(config(domain.CheckIntegrity), nil)
	h.workspace.EXPECT().Locate(root).Return([]domain.Lockfile{lf})
	h.workspace.EXPECT().ReadManifest(root).Return(&domain.ProjectManifest{}, nil)
	h.workspace.EXPECT().ReadLockfile(lf).Return(npmLockfile(sri(artifactB)), nil)
	h.artifacts.EXPECT().Fetch(gomock.Any(), tarballA).Return(artifactA, nil)
	h.artifacts.EXPECT().Fetch(gomock.Any(), tarballB).Return(artifactB, nil)

	rep, err := h.app.Audit(context.Background(), root, app.AuditOptions{Progress: true})
	require.NoError(t, err)
	assert.False(t, rep.Failed())
	assert.Equal(t, 2, rep.Summary().Verified)
}

func TestApp_Entries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	path := filepath.Join("proj", "package-lock.json")
	lf := domain.Lockfile{Path: path, Format: domain.FormatNpmLock}

	h.workspace.EXPECT().ReadLockfile(lf).Return(npmLockfile(sri(artifactB)), nil)
	h.workspace.EXPECT().ReadManifest("proj").Return(&domain.ProjectManifest{
		Dependencies: map[string]string{"b": "^2.0.0"},
	}, nil)

	entries, err := h.app.Entries(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.False(t, entries[0].IsDirect)
	assert.True(t, entries[1].IsDirect)
}

func TestApp_Entries_UnknownFormat(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.app.Entries(context.Background(), "Cargo.lock")
	require.ErrorContains(t, err, domain.ErrUnknownFormat.Error())
}

func TestApp_Registries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	got := h.app.Registries([]string{
		"https://registry.npmjs.org/",
		"https://npm.pkg.github.com/acme/@acme/tool/-/tool-1.0.0.tgz",
		"git+ssh://git@github.com/a/b.git",
	})

	require.Len(t, got, 3)
	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), got[0].Canonical)
	assert.True(t, got[0].Valid)
	assert.Equal(t, domain.RegistryURL("https://npm.pkg.github.com/acme"), got[1].Canonical)
	assert.False(t, got[2].Valid)
}
