// Package integrity verifies lock entries against the artifacts they pin.
package integrity

import (
	"context"
	"crypto/subtle"
	"runtime"
	"slices"
	"time"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.IntegrityVerifier = (*Verifier)(nil)

const reasonNoIntegrity = "integrity hash is also missing"

// Options tunes a Verifier.
type Options struct {
	// Concurrency bounds VerifyAll. Zero means runtime.NumCPU()*4.
	Concurrency int
	// Mirrors maps additional mirror hosts to their canonical hosts.
	Mirrors map[string]string
	// Timeout bounds each network fetch. Zero means no limit.
	Timeout time.Duration
}

// Verifier runs the per-entry verification state machine.
type Verifier struct {
	cache     ports.ArtifactCache
	fetcher   ports.ArtifactFetcher
	logger    ports.Logger
	telemetry ports.Telemetry
	opts      Options
}

// NewVerifier creates a Verifier. A nil fetcher disables downloads, so only
// cached artifacts can be verified. A nil telemetry records nothing.
func NewVerifier(
	cache ports.ArtifactCache,
	fetcher ports.ArtifactFetcher,
	logger ports.Logger,
	telemetry ports.Telemetry,
	opts Options,
) *Verifier {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU() * 4
	}
	return &Verifier{
		cache:     cache,
		fetcher:   fetcher,
		logger:    logger,
		telemetry: telemetry,
		opts:      opts,
	}
}

// Verify returns the verdict for one entry. An empty allowed list permits every
// supported algorithm.
func (v *Verifier) Verify(
	ctx context.Context,
	entry domain.LockEntry,
	allowed []domain.Algorithm,
) domain.VerificationOutcome {
	out := domain.VerificationOutcome{Entry: entry, Expected: entry.Integrity}

	if !entry.HasResolved() {
		out.Kind = domain.OutcomeMissingResolved
		if !entry.HasIntegrity() {
			out.Reason = reasonNoIntegrity
		}
		return out
	}
	if !entry.IsRemote() {
		out.Kind = domain.OutcomeSkipped
		return out
	}
	if !entry.HasIntegrity() {
		out.Kind = domain.OutcomeMissingIntegrity
		return out
	}

	expected, ok := domain.ParseIntegrity(entry.Integrity)
	if !ok {
		out.Kind = domain.OutcomeInvalidFormat
		return out
	}
	out.Algorithm = expected.Algorithm

	if len(allowed) == 0 {
		allowed = domain.DefaultAlgorithms()
	}
	if !slices.Contains(allowed, expected.Algorithm) {
		out.Kind = domain.OutcomeDisallowedAlgorithm
		out.Allowed = allowed
		return out
	}

	ctx, vertex := v.record(ctx, entry.ID())

	data, source, err := v.fetch(ctx, entry.Resolved)
	if err != nil {
		out.Kind = domain.OutcomeFetchFailed
		out.Reason = err.Error()
		vertex.Complete(zerr.With(domain.ErrVerificationFailed, "reason", out.Reason))
		return out
	}
	out.Source = source
	if source != domain.SourceNetwork {
		vertex.Cached()
	}

	actual := domain.ComputeIntegrity(expected.Algorithm, data)
	out.Actual = actual.String()

	if !digestsEqual(expected, actual) {
		out.Kind = domain.OutcomeMismatch
		vertex.Complete(zerr.With(zerr.With(domain.ErrVerificationFailed,
			"expected", out.Expected), "actual", out.Actual))
		return out
	}

	out.Kind = domain.OutcomeVerified
	vertex.Complete(nil)
	return out
}

// VerifyAll verifies every entry with bounded concurrency. Results keep the
// input order and a failing entry never cancels its siblings.
func (v *Verifier) VerifyAll(
	ctx context.Context,
	entries []domain.LockEntry,
	allowed []domain.Algorithm,
) []domain.VerificationOutcome {
	results := make([]domain.VerificationOutcome, len(entries))

	var g errgroup.Group
	g.SetLimit(v.opts.Concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			results[i] = v.Verify(ctx, entry, allowed)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// fetch reads the artifact from the cache, then from the cache under the
// canonical host of a known mirror, then from the network with write-through.
func (v *Verifier) fetch(ctx context.Context, url string) ([]byte, domain.ArtifactSource, error) {
	if data, err := v.cache.Get(ctx, url); err == nil {
		return data, domain.SourceCache, nil
	}

	if canonical, ok := domain.CanonicalMirrorURL(url, v.opts.Mirrors); ok {
		if data, err := v.cache.Get(ctx, canonical); err == nil {
			return data, domain.SourceMirrorCache, nil
		}
	}

	if v.fetcher == nil {
		return nil, domain.SourceNone, zerr.With(domain.ErrNetworkDisabled, "url", url)
	}

	fetchCtx := ctx
	if v.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, v.opts.Timeout)
		defer cancel()
	}

	data, err := v.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		return nil, domain.SourceNone, err
	}

	if err := v.cache.Put(ctx, url, data); err != nil {
		v.logger.Warn("could not cache " + url + ": " + err.Error())
	}

	return data, domain.SourceNetwork, nil
}

func (v *Verifier) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	if v.telemetry == nil {
		return ctx, noopVertex{}
	}
	ctx, vertex := v.telemetry.Record(ctx, name)
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// digestsEqual compares raw digests in constant time. Digests that do not
// decode fall back to comparing the rendered strings.
func digestsEqual(expected, actual domain.Integrity) bool {
	want, err := expected.Sum()
	if err != nil {
		return subtle.ConstantTimeCompare([]byte(expected.String()), []byte(actual.String())) == 1
	}
	got, err := actual.Sum()
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}
