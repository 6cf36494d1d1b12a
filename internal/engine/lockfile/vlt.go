package lockfile

import (
	"strings"

	"go.trai.ch/lockguard/internal/core/domain"
)

const (
	vltRecordLen = 3
	// vltRootEdge prefixes edges that leave the project root.
	vltRootEdge = "file·. "
)

// parseVlt reads vlt-lock.json. Nodes are keyed "··name@version" and hold
// [versionIndex, name, integrity]; shorter records are skipped.
func parseVlt(content []byte) ([]domain.EntryDraft, error) {
	doc, err := decodeObject(content)
	if err != nil {
		return nil, err
	}
	lines, err := keyLines(content)
	if err != nil {
		return nil, err
	}

	direct := make(map[string]struct{})
	for edge := range object(doc["edges"]) {
		if name, ok := strings.CutPrefix(edge, vltRootEdge); ok {
			direct[name] = struct{}{}
		}
	}

	nodes := object(doc["nodes"])
	drafts := make([]domain.EntryDraft, 0, len(nodes))
	for key, raw := range nodes {
		record, ok := raw.([]any)
		if !ok || len(record) < vltRecordLen {
			continue
		}
		name, _ := record[1].(string)
		var version *string
		if i := strings.LastIndexByte(key, '@'); i > 0 {
			version = domain.Some(key[i+1:])
			if name == "" {
				name = strings.TrimLeft(key[:i], "·")
			}
		}
		_, isDirect := direct[name]
		drafts = append(drafts, domain.EntryDraft{
			Name:      name,
			Version:   version,
			Integrity: optString(record[2]),
			Line:      lines[keyPath("nodes", key)],
			IsDirect:  isDirect,
		})
	}
	return drafts, nil
}
