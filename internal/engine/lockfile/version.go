package lockfile

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

const (
	yarnV1Header = "# yarn lockfile v1"
	yarnBerryKey = "__metadata:"
)

var pnpmVersionLine = regexp.MustCompile(`(?m)^lockfileVersion:\s*['"]?([^'":\n]+)['"]?`)

// DetectVersion reads the format version recorded in a text lockfile.
// It returns "" when the document records none. JSON documents that do not
// parse yield a *domain.MalformedLockfileError.
func DetectVersion(format domain.Format, content []byte) (string, error) {
	switch format {
	case domain.FormatNpmLock, domain.FormatNpmShrinkwrap:
		return jsonVersion(format, content, "")
	case domain.FormatBun:
		return jsonVersion(format, stripTrailingCommas(content), "0")
	case domain.FormatVlt:
		return jsonVersion(format, content, "0")
	case domain.FormatYarn:
		return yarnVersion(content), nil
	case domain.FormatPnpm:
		if m := pnpmVersionLine.FindSubmatch(content); m != nil {
			return strings.TrimSpace(string(m[1])), nil
		}
		return "", nil
	case domain.FormatBunBinary:
		return "", domain.ErrLockbDecoderUnavailable
	case domain.FormatUnknown:
		fallthrough
	default:
		return "", domain.ErrUnknownFormat
	}
}

// jsonVersion reads lockfileVersion. Missing, zero and non-numeric values
// all map to fallback.
func jsonVersion(format domain.Format, content []byte, fallback string) (string, error) {
	doc, err := decodeObject(content)
	if err != nil {
		return "", domain.NewMalformedLockfileError(format.FileName(), err)
	}
	n, ok := doc["lockfileVersion"].(json.Number)
	if !ok || n.String() == "0" {
		return fallback, nil
	}
	return n.String(), nil
}

func yarnVersion(content []byte) string {
	scanner := newLineScanner(content)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.Contains(line, yarnV1Header):
			return "1"
		case line == yarnBerryKey:
			return "2"
		}
	}
	return ""
}

// detectLockbVersion reports version 0 for decoded bun.lockb text that
// carries the yarn v1 header.
func detectLockbVersion(text string) string {
	if strings.Contains(text, yarnV1Header) {
		return "0"
	}
	return ""
}
