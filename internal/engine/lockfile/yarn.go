package lockfile

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

// yarnField matches "  version "1.0.0"" (classic) and "  version: 1.0.0" (berry).
// Only the first indent level holds package fields; deeper lines list dependencies.
var yarnField = regexp.MustCompile(`^  (version|resolved|integrity|resolution):?\s+"?([^"\n]+)"?`)

const yarnMetadata = "__metadata"

type yarnStanza struct {
	header string
	line   int
	fields map[string]string
}

// parseYarn is a single forward pass over stanzas. It never fails: lines it
// does not understand are ignored.
func parseYarn(content []byte) []domain.EntryDraft {
	var (
		drafts  []domain.EntryDraft
		current *yarnStanza
	)
	flush := func() {
		if current == nil {
			return
		}
		if d, ok := current.draft(); ok {
			drafts = append(drafts, d)
		}
		current = nil
	}

	scanner := newLineScanner(content)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if isYarnHeader(line) {
			flush()
			current = &yarnStanza{header: line, line: lineNo, fields: make(map[string]string)}
			continue
		}
		if current == nil {
			continue
		}
		if m := yarnField.FindStringSubmatch(line); m != nil {
			if _, seen := current.fields[m[1]]; !seen {
				current.fields[m[1]] = strings.TrimSpace(m[2])
			}
		}
	}
	flush()
	return drafts
}

func isYarnHeader(line string) bool {
	if line == "" || line[0] == '#' || line[0] == ' ' || line[0] == '\t' {
		return false
	}
	return strings.Contains(line, ":")
}

func (s *yarnStanza) draft() (domain.EntryDraft, bool) {
	header := strings.TrimSuffix(strings.TrimSpace(s.header), ":")
	first, _, _ := strings.Cut(header, ",")
	spec := strings.Trim(strings.TrimSpace(first), `"`)
	if spec == yarnMetadata {
		return domain.EntryDraft{}, false
	}
	if strings.Contains(s.fields["resolution"], "@workspace:") {
		return domain.EntryDraft{}, false
	}

	name, _ := cutSpecifier(spec)
	return domain.EntryDraft{
		Name:      name,
		Version:   domain.Some(s.fields["version"]),
		Resolved:  domain.Some(s.fields["resolved"]),
		Integrity: domain.Some(s.fields["integrity"]),
		Line:      s.line,
	}, true
}

// maxLineLen bounds a single lockfile line.
const maxLineLen = 10 << 20

func newLineScanner(content []byte) *bufio.Scanner {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineLen)
	return scanner
}
