package integrity_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports/mocks"
	"go.trai.ch/lockguard/internal/engine/integrity"
	"go.trai.ch/lockguard/internal/engine/lockfile"
	"go.uber.org/mock/gomock"
)

const (
	npmURL  = "https://registry.npmjs.org/x/-/x-1.0.0.tgz"
	yarnURL = "https://registry.yarnpkg.com/x/-/x-1.0.0.tgz"
)

var artifact = []byte("x-1.0.0 tarball")

func sha512Of(data []byte) string {
	return domain.ComputeIntegrity(domain.AlgorithmSHA512, data).String()
}

func entry(resolved, integrity string) domain.LockEntry {
	return domain.LockEntry{Name: "x", Version: "1.0.0", Resolved: resolved, Integrity: integrity, Line: 3}
}

func TestVerify_StateMachine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   domain.LockEntry
		allowed []domain.Algorithm
		want    domain.OutcomeKind
		reason  string
	}{
		{
			name:   "missing resolved and integrity",
			entry:  entry("", ""),
			want:   domain.OutcomeMissingResolved,
			reason: "integrity hash is also missing",
		},
		{
			name:  "missing resolved only",
			entry: entry("", sha512Of(artifact)),
			want:  domain.OutcomeMissingResolved,
		},
		{
			name:  "non-registry specifier",
			entry: entry("git+ssh://git@github.com/a/b.git#deadbeef", ""),
			want:  domain.OutcomeSkipped,
		},
		{
			name:  "file specifier",
			entry: entry("file:../local", sha512Of(artifact)),
			want:  domain.OutcomeSkipped,
		},
		{
			name:  "missing integrity",
			entry: entry(npmURL, ""),
			want:  domain.OutcomeMissingIntegrity,
		},
		{
			name:  "unknown algorithm",
			entry: entry(npmURL, "md5-AAAA"),
			want:  domain.OutcomeInvalidFormat,
		},
		{
			name:  "not base64",
			entry: entry(npmURL, "sha512-not valid!"),
			want:  domain.OutcomeInvalidFormat,
		},
		{
			name:    "disallowed algorithm",
			entry:   entry(npmURL, domain.ComputeIntegrity(domain.AlgorithmSHA1, artifact).String()),
			allowed: []domain.Algorithm{domain.AlgorithmSHA512},
			want:    domain.OutcomeDisallowedAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			// No cache or network access is expected before the fetch step.
			v := integrity.NewVerifier(
				mocks.NewMockArtifactCache(ctrl),
				mocks.NewMockArtifactFetcher(ctrl),
				mocks.NewMockLogger(ctrl),
				nil,
				integrity.Options{},
			)

			got := v.Verify(context.Background(), tt.entry, tt.allowed)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.entry, got.Entry)
		})
	}
}

func TestVerify_DisallowedReportsAlgorithms(t *testing.T) {
	t.Parallel()

	v := integrity.NewVerifier(nil, nil, nil, nil, integrity.Options{})
	allowed := []domain.Algorithm{domain.AlgorithmSHA384, domain.AlgorithmSHA512}

	got := v.Verify(context.Background(),
		entry(npmURL, domain.ComputeIntegrity(domain.AlgorithmSHA256, artifact).String()), allowed)

	assert.Equal(t, domain.OutcomeDisallowedAlgorithm, got.Kind)
	assert.Equal(t, domain.AlgorithmSHA256, got.Algorithm)
	assert.Equal(t, allowed, got.Allowed)
}

func TestVerify_ScenarioMissingIntegrity(t *testing.T) {
	t.Parallel()

	content := `{"lockfileVersion":3,"packages":{"":{},` +
		`"node_modules/x":{"version":"1.0.0","resolved":"https://registry.npmjs.org/x/-/x-1.0.0.tgz"}}}`
	entries, err := lockfile.Parse(domain.FormatNpmLock, []byte(content))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v := integrity.NewVerifier(nil, nil, nil, nil, integrity.Options{})
	got := v.Verify(context.Background(), entries[0], nil)

	assert.Equal(t, domain.OutcomeMissingIntegrity, got.Kind)
	assert.Equal(t, "x", got.Entry.Name)
	assert.Equal(t, npmURL, got.Entry.Resolved)
}

func TestVerify_CacheHit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), npmURL).Return(artifact, nil)

	v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
	assert.Equal(t, domain.SourceCache, got.Source)
	assert.Equal(t, sha512Of(artifact), got.Actual)
}

func TestVerify_UsesEntryAlgorithm(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), npmURL).Return(artifact, nil)

	sha1 := domain.ComputeIntegrity(domain.AlgorithmSHA1, artifact).String()
	v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(npmURL, sha1), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
	assert.Equal(t, domain.AlgorithmSHA1, got.Algorithm)
	assert.Equal(t, sha1, got.Actual)
}

func TestVerify_MirrorFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), yarnURL).Return(nil, domain.ErrCacheMiss),
		cache.EXPECT().Get(gomock.Any(), npmURL).Return(artifact, nil),
	)

	v := integrity.NewVerifier(cache, mocks.NewMockArtifactFetcher(ctrl), mocks.NewMockLogger(ctrl), nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(yarnURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
	assert.Equal(t, domain.SourceMirrorCache, got.Source)
}

func TestVerify_ConfiguredMirror(t *testing.T) {
	t.Parallel()

	const mirrorURL = "https://npm.mirror.example/x/-/x-1.0.0.tgz"

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), mirrorURL).Return(nil, domain.ErrCacheMiss)
	cache.EXPECT().Get(gomock.Any(), npmURL).Return(artifact, nil)

	v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), nil, integrity.Options{
		Mirrors: map[string]string{"npm.mirror.example": "registry.npmjs.org"},
	})
	got := v.Verify(context.Background(), entry(mirrorURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
}

func TestVerify_NetworkWriteThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	fetcher := mocks.NewMockArtifactFetcher(ctrl)

	cache.EXPECT().Get(gomock.Any(), npmURL).Return(nil, domain.ErrCacheMiss)
	fetcher.EXPECT().Fetch(gomock.Any(), npmURL).Return(artifact, nil)
	cache.EXPECT().Put(gomock.Any(), npmURL, artifact).Return(nil)

	v := integrity.NewVerifier(cache, fetcher, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
	assert.Equal(t, domain.SourceNetwork, got.Source)
}

func TestVerify_CacheWriteFailureIsWarning(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	fetcher := mocks.NewMockArtifactFetcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	cache.EXPECT().Get(gomock.Any(), npmURL).Return(nil, domain.ErrCacheMiss)
	fetcher.EXPECT().Fetch(gomock.Any(), npmURL).Return(artifact, nil)
	cache.EXPECT().Put(gomock.Any(), npmURL, artifact).Return(domain.ErrCacheWriteFailed)
	logger.EXPECT().Warn(gomock.Any())

	v := integrity.NewVerifier(cache, fetcher, logger, nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeVerified, got.Kind)
}

func TestVerify_FetchFailures(t *testing.T) {
	t.Parallel()

	t.Run("network disabled", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), npmURL).Return(nil, domain.ErrCacheMiss)

		v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
		got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

		assert.Equal(t, domain.OutcomeFetchFailed, got.Kind)
		assert.Contains(t, got.Reason, domain.ErrNetworkDisabled.Error())
	})

	t.Run("download error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		fetcher := mocks.NewMockArtifactFetcher(ctrl)
		cache.EXPECT().Get(gomock.Any(), npmURL).Return(nil, domain.ErrCacheMiss)
		fetcher.EXPECT().Fetch(gomock.Any(), npmURL).Return(nil, errors.New("connection reset"))

		v := integrity.NewVerifier(cache, fetcher, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
		got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

		assert.Equal(t, domain.OutcomeFetchFailed, got.Kind)
		assert.Equal(t, "connection reset", got.Reason)
	})
}

func TestVerify_FetchTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		fetcher := mocks.NewMockArtifactFetcher(ctrl)
		cache.EXPECT().Get(gomock.Any(), npmURL).Return(nil, domain.ErrCacheMiss)
		fetcher.EXPECT().Fetch(gomock.Any(), npmURL).DoAndReturn(
			func(ctx context.Context, _ string) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		v := integrity.NewVerifier(cache, fetcher, mocks.NewMockLogger(ctrl), nil, integrity.Options{
			Timeout: 5 * time.Second,
		})
		got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

		assert.Equal(t, domain.OutcomeFetchFailed, got.Kind)
		assert.Equal(t, context.DeadlineExceeded.Error(), got.Reason)
	})
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockArtifactCache(ctrl)
	tampered := []byte("tampered tarball")
	cache.EXPECT().Get(gomock.Any(), npmURL).Return(tampered, nil)

	v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), nil, integrity.Options{})
	got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)

	assert.Equal(t, domain.OutcomeMismatch, got.Kind)
	assert.Equal(t, sha512Of(artifact), got.Expected)
	assert.Equal(t, sha512Of(tampered), got.Actual)
}

func TestVerify_Telemetry(t *testing.T) {
	t.Parallel()

	t.Run("cache hit", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		tel := mocks.NewMockTelemetry(ctrl)
		vertex := mocks.NewMockVertex(ctrl)

		tel.EXPECT().Record(gomock.Any(), "x@1.0.0").Return(context.Background(), vertex)
		cache.EXPECT().Get(gomock.Any(), npmURL).Return(artifact, nil)
		vertex.EXPECT().Cached()
		vertex.EXPECT().Complete(nil)

		v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), tel, integrity.Options{})
		got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)
		assert.Equal(t, domain.OutcomeVerified, got.Kind)
	})

	t.Run("mismatch fails the vertex", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		tel := mocks.NewMockTelemetry(ctrl)
		vertex := mocks.NewMockVertex(ctrl)

		tel.EXPECT().Record(gomock.Any(), "x@1.0.0").Return(context.Background(), vertex)
		cache.EXPECT().Get(gomock.Any(), npmURL).Return([]byte("other"), nil)
		vertex.EXPECT().Cached()
		vertex.EXPECT().Complete(gomock.Any()).Do(func(err error) {
			assert.ErrorContains(t, err, domain.ErrVerificationFailed.Error())
		})

		v := integrity.NewVerifier(cache, nil, mocks.NewMockLogger(ctrl), tel, integrity.Options{})
		got := v.Verify(context.Background(), entry(npmURL, sha512Of(artifact)), nil)
		assert.Equal(t, domain.OutcomeMismatch, got.Kind)
	})
}

func TestVerifyAll_OrderAndDeterminism(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		const n = 40

		ctrl := gomock.NewController(t)
		cache := mocks.NewMockArtifactCache(ctrl)
		fetcher := mocks.NewMockArtifactFetcher(ctrl)

		entries := make([]domain.LockEntry, n)
		bodies := make(map[string][]byte, n)
		delays := make(map[string]time.Duration, n)
		for i := range entries {
			url := fmt.Sprintf("https://registry.npmjs.org/p%d/-/p%d-1.0.0.tgz", i, i)
			body := fmt.Appendf(nil, "body-%d", i)
			bodies[url] = body
			delays[url] = time.Duration(n-i) * time.Millisecond
			declared := sha512Of(body)
			if i%3 == 0 {
				declared = sha512Of([]byte("wrong"))
			}
			entries[i] = domain.LockEntry{
				Name: fmt.Sprintf("p%d", i), Version: "1.0.0", Resolved: url, Integrity: declared, Line: i + 1,
			}
		}

		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCacheMiss).AnyTimes()
		cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		var inFlight, peak atomic.Int32
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, url string) ([]byte, error) {
				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				// Later entries finish first.
				time.Sleep(delays[url])
				inFlight.Add(-1)
				if url == entries[7].Resolved {
					return nil, errors.New("boom")
				}
				return bodies[url], nil
			}).AnyTimes()

		v := integrity.NewVerifier(cache, fetcher, mocks.NewMockLogger(ctrl), nil, integrity.Options{Concurrency: 4})

		first := v.VerifyAll(context.Background(), entries, nil)
		second := v.VerifyAll(context.Background(), entries, nil)

		require.Len(t, first, n)
		assert.Equal(t, first, second)
		assert.LessOrEqual(t, peak.Load(), int32(4))

		for i, got := range first {
			assert.Equal(t, entries[i], got.Entry)
			switch {
			case i == 7:
				assert.Equal(t, domain.OutcomeFetchFailed, got.Kind)
			case i%3 == 0:
				assert.Equal(t, domain.OutcomeMismatch, got.Kind)
			default:
				assert.Equal(t, domain.OutcomeVerified, got.Kind)
			}
		}
	})
}

func TestVerifyAll_Empty(t *testing.T) {
	t.Parallel()

	v := integrity.NewVerifier(nil, nil, nil, nil, integrity.Options{})
	assert.Empty(t, v.VerifyAll(context.Background(), nil, nil))
}
