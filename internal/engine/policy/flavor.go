package policy

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

// Flavor reports lockfiles whose format is not allowed. allowed maps a package
// manager to the lockfile formats it may leave in the project.
func Flavor(allowed map[domain.PackageManager][]domain.Format, present []domain.Lockfile) []domain.Finding {
	permitted := allowedFormats(allowed)
	if len(permitted) == 0 {
		return []domain.Finding{{
			Check:    domain.CheckFlavor,
			Severity: domain.SeverityError,
			Message:  domain.ErrNoLockfilesAllowed.Error(),
		}}
	}

	names := make([]string, len(permitted))
	for i, f := range permitted {
		names[i] = f.FileName()
	}

	var findings []domain.Finding
	for _, lf := range present {
		if slices.Contains(permitted, lf.Format) {
			continue
		}
		findings = append(findings, domain.Finding{
			Check:    domain.CheckFlavor,
			Severity: domain.SeverityError,
			File:     lf.Name(),
			Message:  fmt.Sprintf("lockfile is not allowed, allowed lockfiles: %s", strings.Join(names, ", ")),
		})
	}
	return findings
}

// allowedFormats flattens the configuration in detection order.
func allowedFormats(allowed map[domain.PackageManager][]domain.Format) []domain.Format {
	var out []domain.Format
	for _, f := range domain.AllFormats() {
		if slices.Contains(allowed[f.Manager()], f) {
			out = append(out, f)
		}
	}
	return out
}
