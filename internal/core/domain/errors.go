package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedLockfile is the message carried by every MalformedLockfileError.
	ErrMalformedLockfile = zerr.New("lockfile is malformed")

	// ErrUnknownFormat is returned when a file name is not a recognized lockfile.
	ErrUnknownFormat = zerr.New("unknown lockfile format")

	// ErrLockbDecoderUnavailable is returned when bun.lockb content cannot be decoded on this machine.
	ErrLockbDecoderUnavailable = zerr.New("bun.lockb decoder unavailable")

	// ErrLockbDecodeFailed is returned when the bun.lockb decoder fails.
	ErrLockbDecodeFailed = zerr.New("failed to decode bun.lockb")

	// ErrLockfileReadFailed is returned when a lockfile exists but cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrManifestReadFailed is returned when package.json cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read package.json")

	// ErrManifestParseFailed is returned when package.json is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse package.json")

	// ErrCacheMiss is returned when an artifact is not present in the cache.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCacheReadFailed is returned when a cached artifact cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cached artifact")

	// ErrCacheWriteFailed is returned when an artifact cannot be written to the cache.
	ErrCacheWriteFailed = zerr.New("failed to write artifact to cache")

	// ErrNetworkDisabled is returned when an artifact is not cached and downloads are disabled.
	ErrNetworkDisabled = zerr.New("artifact is not cached and network access is disabled")

	// ErrVerificationFailed marks a telemetry vertex whose entry failed verification.
	ErrVerificationFailed = zerr.New("integrity verification failed")

	// ErrNotFound is returned when a registry or artifact host answers 404.
	ErrNotFound = zerr.New("not found")

	// ErrNetwork is returned for transport failures and unexpected HTTP statuses.
	ErrNetwork = zerr.New("network error")

	// ErrNoVersionSatisfies is returned when no published version matches a range.
	ErrNoVersionSatisfies = zerr.New("no version satisfies range")

	// ErrMissingNode is returned when an edge references a node that is not in the graph.
	ErrMissingNode = zerr.New("missing graph node")

	// ErrGraphTooLarge is returned when dependency resolution exceeds the node limit.
	ErrGraphTooLarge = zerr.New("dependency graph exceeds node limit")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidAlgorithm is returned when a configured integrity algorithm is unsupported.
	ErrInvalidAlgorithm = zerr.New("unsupported integrity algorithm, expected one of sha1, sha256, sha384, sha512")

	// ErrInvalidRegistryURL is returned when a configured registry is not an http(s) URL.
	ErrInvalidRegistryURL = zerr.New("registry must be an http or https URL")

	// ErrMultipleDefaultRegistries is returned when more than one registry is marked as the default.
	ErrMultipleDefaultRegistries = zerr.New("only one registry can have value `true`")

	// ErrUnknownPackageManager is returned when a configured package manager is not recognized.
	ErrUnknownPackageManager = zerr.New("unknown package manager")

	// ErrInvalidLockfileVersion is returned when a configured lockfile version is not valid for its manager.
	ErrInvalidLockfileVersion = zerr.New("invalid lockfile version")

	// ErrNoLockfilesAllowed is returned when the flavor configuration allows nothing.
	ErrNoLockfilesAllowed = zerr.New("no lockfiles are configured as allowed")

	// ErrInvalidIgnoreSpec is returned when a shrinkwrap ignore entry is not a registry package spec.
	ErrInvalidIgnoreSpec = zerr.New("must be a package name with an optional semver range")

	// ErrUnknownCheck is returned when an unknown check name is requested.
	ErrUnknownCheck = zerr.New("unknown check")

	// ErrAuditFailed is returned when an audit produced failing findings.
	ErrAuditFailed = zerr.New("audit failed")
)

// MalformedLockfileError reports a lockfile that cannot be parsed as its expected shape.
type MalformedLockfileError struct {
	FileName string
	Cause    error
}

// NewMalformedLockfileError wraps cause for the given lockfile name.
func NewMalformedLockfileError(fileName string, cause error) *MalformedLockfileError {
	return &MalformedLockfileError{FileName: fileName, Cause: cause}
}

// Error implements error.
func (e *MalformedLockfileError) Error() string {
	msg := "lockfile `" + e.FileName + "` is malformed"
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error.
func (e *MalformedLockfileError) Unwrap() error {
	return e.Cause
}

// Is matches ErrMalformedLockfile so callers can test the kind without a type assertion.
func (e *MalformedLockfileError) Is(target error) bool {
	return target == ErrMalformedLockfile
}
