// Package policy implements the audit checks that run over parsed lockfiles.
//
// Every check is a function of its configuration and an Input. Checks that need
// registry metadata take the fetching port explicitly.
package policy

import (
	"go.trai.ch/lockguard/internal/core/domain"
)

// VirtualFile is the file name reported for entries resolved from package.json.
const VirtualFile = "virtual"

// Input is one audited lockfile, or the virtual inventory of a project.
type Input struct {
	File    string
	Format  domain.Format
	Entries []domain.LockEntry

	// Version is the detected format version; VersionErr is set when detection failed.
	Version    string
	VersionErr error

	Virtual bool
}

func finding(check domain.CheckName, sev domain.Severity, in Input, line int, pkg, msg string) domain.Finding {
	return domain.Finding{
		Check:    check,
		Severity: sev,
		File:     in.File,
		Line:     line,
		Package:  pkg,
		Message:  msg,
	}
}
