package lockfile

import (
	"encoding/json"

	"go.trai.ch/lockguard/internal/core/domain"
)

const bunRecordLen = 4

// parseBun reads bun.lock. Each package is a tuple
// [nameAtVersion, registryURL, meta, integrity]; shorter records and
// non-array values are skipped.
func parseBun(content []byte) ([]domain.EntryDraft, error) {
	content = stripTrailingCommas(content)
	doc, err := decodeObject(content)
	if err != nil {
		return nil, err
	}
	lines, err := keyLines(content)
	if err != nil {
		return nil, err
	}

	root := object(object(doc["workspaces"])[""])
	direct := keysOf(root["dependencies"], root["devDependencies"], root["optionalDependencies"], root["peerDependencies"])

	packages := object(doc["packages"])
	drafts := make([]domain.EntryDraft, 0, len(packages))
	for key, raw := range packages {
		record, ok := raw.([]any)
		if !ok || len(record) < bunRecordLen {
			continue
		}
		nameAtVersion, _ := record[0].(string)
		name, version, found := splitNameVersion(nameAtVersion)
		if !found {
			version = bunVersionField(record[1])
		}
		var resolved *string
		if s, _ := record[1].(string); domain.IsHTTPURL(s) {
			resolved = &s
		}
		_, isDirect := direct[name]
		drafts = append(drafts, domain.EntryDraft{
			Name:      name,
			Version:   domain.Some(version),
			Resolved:  resolved,
			Integrity: optString(record[3]),
			Line:      lines[keyPath("packages", key)],
			IsDirect:  isDirect,
		})
	}
	return drafts, nil
}

func bunVersionField(v any) string {
	switch s := v.(type) {
	case string:
		if domain.IsHTTPURL(s) {
			return ""
		}
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// stripTrailingCommas removes commas that directly precede a closing
// bracket, ignoring string contents. bun.lock allows them; encoding/json does not.
// Newlines are preserved so line numbers stay valid.
func stripTrailingCommas(content []byte) []byte {
	out := make([]byte, 0, len(content))
	inString, escaped := false, false
	pendingComma := -1
	for _, b := range content {
		if inString {
			out = append(out, b)
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
			pendingComma = -1
		case ',':
			pendingComma = len(out)
		case '}', ']':
			if pendingComma >= 0 {
				out = append(out[:pendingComma], out[pendingComma+1:]...)
			}
			pendingComma = -1
		case ' ', '\t', '\r', '\n':
		default:
			pendingComma = -1
		}
		out = append(out, b)
	}
	return out
}
