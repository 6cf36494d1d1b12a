// Package app implements the application layer for lockguard.
package app

import (
	"cmp"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.trai.ch/lockguard/internal/adapters/telemetry/progrock"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/lockguard/internal/engine/integrity"
	"go.trai.ch/lockguard/internal/engine/lockfile"
	"go.trai.ch/lockguard/internal/engine/policy"
	"go.trai.ch/lockguard/internal/engine/virtual"
	"go.trai.ch/lockguard/internal/tui"
	"go.trai.ch/lockguard/internal/ui/report"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App runs audits over project directories.
type App struct {
	configLoader ports.ConfigLoader
	workspace    ports.Workspace
	suite        *lockfile.Suite
	resolver     *virtual.Resolver
	manifests    ports.ManifestFetcher
	artifacts    ports.ArtifactFetcher
	caches       ports.CacheOpener
	telemetry    ports.Telemetry
	logger       ports.Logger

	teaOptions  []tea.ProgramOption
	progressOut io.Writer
	now         func() time.Time
	newRunID    func() string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	workspace ports.Workspace,
	suite *lockfile.Suite,
	resolver *virtual.Resolver,
	manifests ports.ManifestFetcher,
	artifacts ports.ArtifactFetcher,
	caches ports.CacheOpener,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		workspace:    workspace,
		suite:        suite,
		resolver:     resolver,
		manifests:    manifests,
		artifacts:    artifacts,
		caches:       caches,
		telemetry:    telemetry,
		logger:       log,
		progressOut:  os.Stderr,
		now:          time.Now,
		newRunID:     uuid.NewString,
	}
}

// WithTeaOptions adds bubbletea program options to the progress view.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// AuditOptions override the loaded configuration for one run.
type AuditOptions struct {
	Checks      []domain.CheckName
	Algorithms  []domain.Algorithm
	NoCache     bool
	NoNetwork   bool
	Concurrency int
	// Recursive audits every directory below the root that holds a package.json.
	Recursive bool
	// Progress shows live verification progress on stderr.
	Progress bool
}

func (o AuditOptions) apply(cfg *domain.Config) {
	if len(o.Checks) > 0 {
		cfg.Checks = o.Checks
	}
	if len(o.Algorithms) > 0 {
		cfg.Integrity.Algorithms = o.Algorithms
	}
	if o.NoCache {
		cfg.Cache.Disabled = true
	}
	if o.NoNetwork {
		cfg.Network.Offline = true
	}
	if o.Concurrency > 0 {
		cfg.Integrity.Concurrency = o.Concurrency
	}
}

// Audit runs every enabled check over the lockfiles in dir, or over the
// resolved dependency graph when dir has no lockfile. Failing findings are
// part of the report; the error is reserved for runs that could not complete.
func (a *App) Audit(ctx context.Context, dir string, opts AuditOptions) (*domain.Report, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "dir", dir)
	}

	projects := []string{root}
	if opts.Recursive {
		projects = a.workspace.Projects(root)
	}

	configs := make([]*domain.Config, len(projects))
	for i, project := range projects {
		cfg, err := a.configLoader.Load(project)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		opts.apply(cfg)
		configs[i] = cfg
	}

	rep := domain.NewReport(a.newRunID(), root, a.now())

	g, gctx := errgroup.WithContext(ctx)
	tel, stop := a.startProgress(gctx, g, opts.Progress)

	g.Go(func() error {
		defer stop()
		for i, project := range projects {
			a.auditProject(gctx, tel, configs[i], root, project, rep)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "progress view failed")
	}

	rep.FinishedAt = a.now()
	return rep, nil
}

// startProgress returns the telemetry for this run and a stop function that
// ends the recording. With progress enabled the tape drives the progress view.
func (a *App) startProgress(ctx context.Context, g *errgroup.Group, enabled bool) (ports.Telemetry, func()) {
	if !enabled {
		return a.telemetry, func() {}
	}

	stream := progrock.NewStream()
	recorder := progrock.NewRecorder(stream)

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(a.progressOut),
		tea.WithInput(nil),
	}, a.teaOptions...)
	program := tea.NewProgram(tui.NewModel(stream), opts...)

	g.Go(func() error {
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return recorder, func() { _ = recorder.Close() }
}

func (a *App) auditProject(
	ctx context.Context,
	tel ports.Telemetry,
	cfg *domain.Config,
	root, dir string,
	rep *domain.Report,
) {
	display := func(name string) string { return displayName(root, dir, name) }

	lockfiles := a.workspace.Locate(dir)
	if cfg.Enabled(domain.CheckFlavor) {
		rep.Add(relocate(policy.Flavor(cfg.Flavor, lockfiles), display)...)
	}

	manifest, err := a.workspace.ReadManifest(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn(err.Error())
	}

	verifier := a.newVerifier(cfg, tel)

	if len(lockfiles) == 0 {
		a.auditVirtual(ctx, cfg, verifier, display(policy.VirtualFile), dir, rep)
		return
	}

	for _, lf := range lockfiles {
		a.auditLockfile(ctx, cfg, verifier, display(lf.Name()), lf, manifest, rep)
	}
}

func (a *App) auditLockfile(
	ctx context.Context,
	cfg *domain.Config,
	verifier ports.IntegrityVerifier,
	file string,
	lf domain.Lockfile,
	manifest *domain.ProjectManifest,
	rep *domain.Report,
) {
	lfr := domain.LockfileReport{File: file, Format: string(lf.Format.Manager())}

	content, err := a.workspace.ReadLockfile(lf)
	if err != nil {
		rep.Add(parseFinding(file, err))
		rep.Lockfiles = append(rep.Lockfiles, lfr)
		return
	}

	entries, err := a.suite.Parse(ctx, lf.Format, content,
		lockfile.WithDirectDependencies(manifest.DirectNames()),
		lockfile.WithFileName(lf.Name()),
	)
	if err != nil {
		rep.Add(parseFinding(file, err))
		rep.Lockfiles = append(rep.Lockfiles, lfr)
		return
	}

	version, versionErr := a.suite.DetectVersion(ctx, lf.Format, content)
	lfr.Version = version
	lfr.Entries = len(entries)

	in := policy.Input{
		File:       file,
		Format:     lf.Format,
		Entries:    entries,
		Version:    version,
		VersionErr: versionErr,
	}
	lfr.Outcomes = a.runChecks(ctx, cfg, verifier, in, rep)
	rep.Lockfiles = append(rep.Lockfiles, lfr)
}

func (a *App) auditVirtual(
	ctx context.Context,
	cfg *domain.Config,
	verifier ports.IntegrityVerifier,
	file, dir string,
	rep *domain.Report,
) {
	if !cfg.Virtual.Enabled {
		a.logger.Warn("no lockfile found in " + dir)
		return
	}
	if cfg.Network.Offline {
		a.logger.Warn("no lockfile found in " + dir + " and network access is disabled, nothing to audit")
		return
	}

	entries := a.resolver.WithRegistry(cfg.Network.Registry).Entries(ctx, dir)
	in := policy.Input{File: file, Entries: entries, Virtual: true}
	lfr := domain.LockfileReport{File: file, Virtual: true, Entries: len(entries)}
	lfr.Outcomes = a.runChecks(ctx, cfg, verifier, in, rep)
	rep.Lockfiles = append(rep.Lockfiles, lfr)
}

// runChecks runs the per-lockfile checks in their fixed order and returns the
// integrity outcomes, if that check ran.
func (a *App) runChecks(
	ctx context.Context,
	cfg *domain.Config,
	verifier ports.IntegrityVerifier,
	in policy.Input,
	rep *domain.Report,
) []domain.VerificationOutcome {
	var outcomes []domain.VerificationOutcome

	for _, check := range domain.AllChecks() {
		if !cfg.Enabled(check) {
			continue
		}
		switch check {
		case domain.CheckFlavor:
		case domain.CheckVersion:
			rep.Add(policy.Version(cfg.Versions, in)...)
		case domain.CheckRegistry:
			rep.Add(policy.Registry(cfg.Registries, in)...)
		case domain.CheckSpecifiers:
			rep.Add(policy.Specifiers(cfg.Specifiers, in)...)
		case domain.CheckIntegrity:
			target := in
			if !in.Virtual && cfg.Integrity.DeriveMissingResolved && policy.NeedsDerivedResolved(in.Format, in.Version) {
				target.Entries = policy.DeriveResolved(in.Entries, defaultRegistry(cfg))
			}
			var findings []domain.Finding
			outcomes, findings = policy.Integrity(ctx, verifier, cfg.Integrity.Algorithms, target)
			rep.Add(findings...)
		case domain.CheckBinaries:
			if lookup, ok := a.manifestLookup(cfg, check); ok {
				rep.Add(policy.Binaries(ctx, lookup, in)...)
			}
		case domain.CheckShrinkwrap:
			if lookup, ok := a.manifestLookup(cfg, check); ok {
				rep.Add(policy.Shrinkwrap(ctx, lookup, cfg.Shrinkwrap.Ignore, in)...)
			}
		case domain.CheckParse:
		}
	}
	return outcomes
}

func (a *App) manifestLookup(cfg *domain.Config, check domain.CheckName) (policy.ManifestLookup, bool) {
	if cfg.Network.Offline {
		a.logger.Warn("skipping " + string(check) + " check: network access is disabled")
		return policy.ManifestLookup{}, false
	}
	return policy.ManifestLookup{
		Fetcher:     a.manifests,
		Registry:    cfg.Network.Registry,
		Concurrency: cfg.Integrity.Concurrency,
		Logger:      a.logger,
	}, true
}

// newVerifier builds a verifier for one project. Offline runs get no fetcher,
// so only cached artifacts verify.
func (a *App) newVerifier(cfg *domain.Config, tel ports.Telemetry) *integrity.Verifier {
	var fetcher ports.ArtifactFetcher
	if !cfg.Network.Offline {
		fetcher = a.artifacts
	}
	return integrity.NewVerifier(a.caches.Open(cfg.Cache), fetcher, a.logger, tel, integrity.Options{
		Concurrency: cfg.Integrity.Concurrency,
		Mirrors:     cfg.Registries.Mirrors,
		Timeout:     cfg.Network.Timeout,
	})
}

// Entries parses one lockfile into its canonical entry list. Direct
// dependencies are read from the package.json next to it, when present.
func (a *App) Entries(ctx context.Context, path string) ([]domain.LockEntry, error) {
	format := domain.DetectFormat(filepath.Base(path))
	if format == domain.FormatUnknown {
		return nil, zerr.With(domain.ErrUnknownFormat, "file", path)
	}

	lf := domain.Lockfile{Path: path, Format: format}
	content, err := a.workspace.ReadLockfile(lf)
	if err != nil {
		return nil, err
	}

	manifest, err := a.workspace.ReadManifest(filepath.Dir(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn(err.Error())
	}

	return a.suite.Parse(ctx, format, content,
		lockfile.WithDirectDependencies(manifest.DirectNames()),
		lockfile.WithFileName(lf.Name()),
	)
}

// Registries canonicalizes registry and tarball URLs.
func (a *App) Registries(inputs []string) []report.Registry {
	out := make([]report.Registry, len(inputs))
	for i, input := range inputs {
		out[i] = report.Registry{Input: input}
		if !domain.IsHTTPURL(input) {
			continue
		}
		registry, ok := domain.NormalizeRegistry(input), true
		if strings.Contains(input, "/-/") {
			registry, ok = domain.ExtractRegistry(input)
		}
		out[i].Canonical = registry
		out[i].Valid = ok
	}
	return out
}

func defaultRegistry(cfg *domain.Config) domain.RegistryURL {
	return cmp.Or(cfg.Registries.Default, cfg.Network.Registry)
}

func parseFinding(file string, err error) domain.Finding {
	return domain.Finding{
		Check:    domain.CheckParse,
		Severity: domain.SeverityError,
		File:     file,
		Message:  err.Error(),
	}
}

// relocate rewrites finding files through display.
func relocate(findings []domain.Finding, display func(string) string) []domain.Finding {
	for i := range findings {
		if findings[i].File != "" {
			findings[i].File = display(findings[i].File)
		}
	}
	return findings
}

// displayName returns name as seen from root, with forward slashes.
func displayName(root, dir, name string) string {
	rel, err := filepath.Rel(root, filepath.Join(dir, name))
	if err != nil {
		return name
	}
	return filepath.ToSlash(rel)
}
