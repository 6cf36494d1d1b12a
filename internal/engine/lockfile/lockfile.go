// Package lockfile turns the on-disk lockfile formats into canonical entry lists.
package lockfile

import (
	"cmp"
	"context"
	"slices"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures a parse.
type Option func(*options)

type options struct {
	fileName string
	direct   map[string]struct{}
}

// WithDirectDependencies marks entries whose name is in names as direct,
// in addition to what the document itself records.
func WithDirectDependencies(names map[string]struct{}) Option {
	return func(o *options) {
		o.direct = names
	}
}

// WithFileName overrides the file name used in malformed-lockfile errors.
func WithFileName(name string) Option {
	return func(o *options) {
		o.fileName = name
	}
}

// Parse converts the content of a text lockfile into entries in document order.
// A document that cannot be read as its format's structure yields a *domain.MalformedLockfileError.
func Parse(format domain.Format, content []byte, opts ...Option) ([]domain.LockEntry, error) {
	o := options{fileName: format.FileName()}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		drafts []domain.EntryDraft
		err    error
	)
	switch format {
	case domain.FormatNpmLock, domain.FormatNpmShrinkwrap:
		drafts, err = parseNpm(content)
	case domain.FormatYarn:
		drafts = parseYarn(content)
	case domain.FormatPnpm:
		drafts, err = parsePnpm(content)
	case domain.FormatBun:
		drafts, err = parseBun(content)
	case domain.FormatVlt:
		drafts, err = parseVlt(content)
	case domain.FormatBunBinary:
		return nil, zerr.With(domain.ErrLockbDecoderUnavailable, "file", o.fileName)
	case domain.FormatUnknown:
		fallthrough
	default:
		return nil, zerr.With(domain.ErrUnknownFormat, "file", o.fileName)
	}
	if err != nil {
		return nil, domain.NewMalformedLockfileError(o.fileName, err)
	}
	return materialize(drafts, o.direct), nil
}

func materialize(drafts []domain.EntryDraft, direct map[string]struct{}) []domain.LockEntry {
	slices.SortStableFunc(drafts, func(a, b domain.EntryDraft) int {
		return cmp.Compare(a.Line, b.Line)
	})
	entries := make([]domain.LockEntry, 0, len(drafts))
	for _, d := range drafts {
		e, ok := d.Materialize()
		if !ok {
			continue
		}
		if _, isDirect := direct[e.Name]; isDirect {
			e.IsDirect = true
		}
		entries = append(entries, e)
	}
	return entries
}

// Suite parses every format, including bun's binary lockfile.
type Suite struct {
	decoder ports.LockbDecoder
}

// NewSuite creates a Suite that decodes bun.lockb with decoder.
func NewSuite(decoder ports.LockbDecoder) *Suite {
	return &Suite{decoder: decoder}
}

// Parse dispatches to ParseBinary for bun.lockb and to Parse otherwise.
func (s *Suite) Parse(ctx context.Context, format domain.Format, content []byte, opts ...Option) ([]domain.LockEntry, error) {
	if format == domain.FormatBunBinary {
		return s.ParseBinary(ctx, content, opts...)
	}
	return Parse(format, content, opts...)
}

// ParseBinary decodes a bun.lockb into yarn-equivalent text and parses that.
// Empty decoder output yields an empty list. A decoder failure yields an empty
// list together with the error so callers can report it without failing.
func (s *Suite) ParseBinary(ctx context.Context, content []byte, opts ...Option) ([]domain.LockEntry, error) {
	text, err := s.decode(ctx, content)
	if err != nil {
		return []domain.LockEntry{}, err
	}
	if text == "" {
		return []domain.LockEntry{}, nil
	}
	opts = append([]Option{WithFileName(domain.FormatBunBinary.FileName())}, opts...)
	return Parse(domain.FormatYarn, []byte(text), opts...)
}

// DetectVersion reads the lockfile format version, decoding bun.lockb first.
func (s *Suite) DetectVersion(ctx context.Context, format domain.Format, content []byte) (string, error) {
	if format != domain.FormatBunBinary {
		return DetectVersion(format, content)
	}
	text, err := s.decode(ctx, content)
	if err != nil {
		return "", err
	}
	return detectLockbVersion(text), nil
}

func (s *Suite) decode(ctx context.Context, content []byte) (string, error) {
	if s.decoder == nil {
		return "", domain.ErrLockbDecoderUnavailable
	}
	return s.decoder.Decode(ctx, content)
}
