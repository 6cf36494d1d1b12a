package policy

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

// Version compares the detected format version against the versions expected
// for the lockfile's package manager. Managers without an expectation pass.
func Version(expected map[domain.PackageManager][]string, in Input) []domain.Finding {
	if in.Virtual {
		return nil
	}

	want, ok := expected[in.Format.Manager()]
	if !ok || len(want) == 0 {
		return nil
	}

	switch {
	case in.VersionErr != nil:
		return []domain.Finding{finding(domain.CheckVersion, domain.SeverityError, in, 0, "",
			"cannot determine lockfile version: "+in.VersionErr.Error())}
	case in.Version == "":
		return []domain.Finding{finding(domain.CheckVersion, domain.SeverityWarning, in, 0, "",
			"lockfile has no version")}
	case !slices.Contains(want, in.Version):
		return []domain.Finding{finding(domain.CheckVersion, domain.SeverityError, in, 0, "",
			fmt.Sprintf("lockfile has version %s but expected %s", in.Version, strings.Join(want, " or ")))}
	}
	return nil
}
