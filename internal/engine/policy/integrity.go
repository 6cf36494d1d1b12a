package policy

import (
	"context"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
)

// Integrity verifies every entry and turns failing outcomes into findings.
// Outcomes are returned in entry order. Entries of a lockfile whose format
// version records no integrity hashes are skipped instead of verified.
func Integrity(
	ctx context.Context,
	verifier ports.IntegrityVerifier,
	allowed []domain.Algorithm,
	in Input,
) ([]domain.VerificationOutcome, []domain.Finding) {
	var outcomes []domain.VerificationOutcome
	if in.Virtual || in.Format.CapabilitiesAt(in.Version).Integrity {
		outcomes = verifier.VerifyAll(ctx, in.Entries, allowed)
	} else {
		outcomes = verifyRecorded(ctx, verifier, allowed, in.Entries)
	}

	var findings []domain.Finding
	for _, o := range outcomes {
		if f, ok := domain.FindingFromOutcome(in.File, o); ok {
			findings = append(findings, f)
		}
	}
	return outcomes, findings
}

// verifyRecorded verifies the entries that carry an integrity hash anyway and
// marks the rest as skipped.
func verifyRecorded(
	ctx context.Context,
	verifier ports.IntegrityVerifier,
	allowed []domain.Algorithm,
	entries []domain.LockEntry,
) []domain.VerificationOutcome {
	outcomes := make([]domain.VerificationOutcome, len(entries))
	var (
		recorded []domain.LockEntry
		at       []int
	)
	for i, e := range entries {
		if e.HasIntegrity() {
			recorded = append(recorded, e)
			at = append(at, i)
			continue
		}
		outcomes[i] = domain.VerificationOutcome{
			Kind:   domain.OutcomeSkipped,
			Entry:  e,
			Reason: reasonNotRecorded,
		}
	}
	if len(recorded) > 0 {
		for j, o := range verifier.VerifyAll(ctx, recorded, allowed) {
			outcomes[at[j]] = o
		}
	}
	return outcomes
}

const reasonNotRecorded = "lockfile format does not record integrity"

// NeedsDerivedResolved reports whether a lockfile omits resolved URLs for
// packages on the default registry.
func NeedsDerivedResolved(format domain.Format, version string) bool {
	return !format.CapabilitiesAt(version).Resolved
}

// DeriveResolved returns a copy of entries where every entry without a resolved
// URL points at its conventional tarball on registry. Entries with an unknown
// version are left untouched.
func DeriveResolved(entries []domain.LockEntry, registry domain.RegistryURL) []domain.LockEntry {
	out := make([]domain.LockEntry, len(entries))
	for i, e := range entries {
		if !e.HasResolved() && e.Version != domain.UnknownVersion {
			e.Resolved = domain.DefaultTarballURL(registry, e.Name, e.Version)
		}
		out[i] = e
	}
	return out
}
