package domain

import "fmt"

// Severity grades a finding.
type Severity string

const (
	// SeverityError fails the audit.
	SeverityError Severity = "error"
	// SeverityWarning is reported but does not fail the audit.
	SeverityWarning Severity = "warning"
)

// Finding is one policy violation reported by a check.
type Finding struct {
	Check    CheckName `json:"check"`
	Severity Severity  `json:"severity"`
	File     string    `json:"file,omitzero"`
	Line     int       `json:"line,omitzero"`
	Package  string    `json:"package,omitzero"`
	Message  string    `json:"message"`
}

// Location renders "file:line", "file" or "" depending on what is known.
func (f Finding) Location() string {
	switch {
	case f.File == "":
		return ""
	case f.Line > 0:
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	default:
		return f.File
	}
}

// FindingFromOutcome converts a failed verification into an integrity finding.
// It returns false for outcomes that are not failures.
func FindingFromOutcome(file string, o VerificationOutcome) (Finding, bool) {
	if !o.Kind.IsFailure() {
		return Finding{}, false
	}
	f := Finding{
		Check:    CheckIntegrity,
		Severity: SeverityError,
		File:     file,
		Line:     o.Entry.Line,
		Package:  o.Entry.ID(),
	}
	switch o.Kind {
	case OutcomeMissingResolved:
		f.Message = "missing resolved URL"
		if o.Reason != "" {
			f.Message += " (" + o.Reason + ")"
		}
	case OutcomeMissingIntegrity:
		f.Message = "missing integrity hash"
	case OutcomeInvalidFormat:
		f.Message = fmt.Sprintf("invalid integrity format %q", o.Expected)
	case OutcomeDisallowedAlgorithm:
		f.Message = fmt.Sprintf("integrity algorithm %q is not allowed, expected one of %v", o.Algorithm, o.Allowed)
	case OutcomeFetchFailed:
		f.Message = "failed to fetch artifact: " + o.Reason
	case OutcomeMismatch:
		f.Message = fmt.Sprintf("integrity mismatch: expected %s, got %s", o.Expected, o.Actual)
	case OutcomeSkipped, OutcomeVerified:
	}
	return f, true
}
