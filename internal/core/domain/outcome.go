package domain

// OutcomeKind is the terminal state of verifying one entry.
type OutcomeKind int

const (
	// OutcomeSkipped means the entry points at a non-registry specifier and cannot be verified.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeMissingResolved means the entry has no artifact location.
	OutcomeMissingResolved
	// OutcomeMissingIntegrity means the entry has no integrity hash.
	OutcomeMissingIntegrity
	// OutcomeInvalidFormat means the integrity string is not algorithm-base64digest.
	OutcomeInvalidFormat
	// OutcomeDisallowedAlgorithm means the integrity algorithm is not allowed.
	OutcomeDisallowedAlgorithm
	// OutcomeFetchFailed means the artifact could not be read from cache or network.
	OutcomeFetchFailed
	// OutcomeMismatch means the artifact digest differs from the declared integrity.
	OutcomeMismatch
	// OutcomeVerified means the artifact digest matches.
	OutcomeVerified
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeSkipped:             "skipped",
	OutcomeMissingResolved:     "missing-resolved",
	OutcomeMissingIntegrity:    "missing-integrity",
	OutcomeInvalidFormat:       "invalid-format",
	OutcomeDisallowedAlgorithm: "disallowed-algorithm",
	OutcomeFetchFailed:         "fetch-failed",
	OutcomeMismatch:            "mismatch",
	OutcomeVerified:            "verified",
}

// String returns the kebab-case name of the kind.
func (k OutcomeKind) String() string {
	if s, ok := outcomeNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsFailure reports whether the kind should fail an audit.
func (k OutcomeKind) IsFailure() bool {
	switch k {
	case OutcomeSkipped, OutcomeVerified:
		return false
	case OutcomeMissingResolved, OutcomeMissingIntegrity, OutcomeInvalidFormat,
		OutcomeDisallowedAlgorithm, OutcomeFetchFailed, OutcomeMismatch:
		return true
	}
	return true
}

// ArtifactSource records where verified bytes came from.
type ArtifactSource string

const (
	// SourceNone is used when no artifact was read.
	SourceNone ArtifactSource = ""
	// SourceCache is a hit in the local artifact cache.
	SourceCache ArtifactSource = "cache"
	// SourceMirrorCache is a cache hit after rewriting a mirror host to its canonical host.
	SourceMirrorCache ArtifactSource = "mirror-cache"
	// SourceNetwork is a download.
	SourceNetwork ArtifactSource = "network"
)

// VerificationOutcome is the verdict for one entry.
type VerificationOutcome struct {
	Kind  OutcomeKind `json:"kind"`
	Entry LockEntry   `json:"entry"`

	// Expected and Actual are the declared and recomputed integrity strings.
	Expected string `json:"expected,omitzero"`
	Actual   string `json:"actual,omitzero"`

	// Algorithm is the algorithm named by the entry's integrity.
	Algorithm Algorithm   `json:"algorithm,omitzero"`
	Allowed   []Algorithm `json:"allowed,omitzero"`

	// Reason explains FetchFailed, MissingResolved and Skipped outcomes.
	Reason string         `json:"reason,omitzero"`
	Source ArtifactSource `json:"source,omitzero"`
}
