package domain

import "time"

// LockfileReport is the audit result for one lockfile, or for the virtual inventory.
type LockfileReport struct {
	File     string                `json:"file"`
	Format   string                `json:"format"`
	Version  string                `json:"version,omitzero"`
	Virtual  bool                  `json:"virtual,omitzero"`
	Entries  int                   `json:"entries"`
	Outcomes []VerificationOutcome `json:"outcomes,omitzero"`
}

// Report is the result of one audit run.
type Report struct {
	RunID      string           `json:"runId"`
	Dir        string           `json:"dir"`
	Lockfiles  []LockfileReport `json:"lockfiles"`
	Findings   []Finding        `json:"findings"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
}

// Summary counts a report's results.
type Summary struct {
	Entries  int `json:"entries"`
	Verified int `json:"verified"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// NewReport starts a report for dir.
func NewReport(runID, dir string, now time.Time) *Report {
	return &Report{
		RunID:     runID,
		Dir:       dir,
		Findings:  []Finding{},
		StartedAt: now,
	}
}

// Add appends findings.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Failed reports whether any finding has error severity.
func (r *Report) Failed() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Summary aggregates counts over all lockfiles and findings.
func (r *Report) Summary() Summary {
	var s Summary
	for _, lf := range r.Lockfiles {
		s.Entries += lf.Entries
		for _, o := range lf.Outcomes {
			switch o.Kind {
			case OutcomeVerified:
				s.Verified++
			case OutcomeSkipped:
				s.Skipped++
			default:
			}
		}
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			s.Errors++
		} else {
			s.Warnings++
		}
	}
	return s
}
