package ports

import (
	"context"

	"go.trai.ch/lockguard/internal/core/domain"
)

// IntegrityVerifier checks lock entries against their artifacts.
//
//go:generate mockgen -destination=mocks/verifier_mock.go -package=mocks -source=verifier.go
type IntegrityVerifier interface {
	// Verify runs the verification state machine for one entry.
	Verify(ctx context.Context, entry domain.LockEntry, allowed []domain.Algorithm) domain.VerificationOutcome

	// VerifyAll verifies every entry and returns outcomes in input order.
	VerifyAll(ctx context.Context, entries []domain.LockEntry, allowed []domain.Algorithm) []domain.VerificationOutcome
}
