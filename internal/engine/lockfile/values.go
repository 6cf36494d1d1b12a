package lockfile

import (
	"bytes"
	"encoding/json"
	"strings"
)

// decodeObject decodes a JSON document whose top level must be an object.
func decodeObject(content []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// optString returns nil unless v is a non-empty string.
func optString(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// keysOf collects the keys of every object in maps.
func keysOf(maps ...any) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range maps {
		for k := range object(m) {
			out[k] = struct{}{}
		}
	}
	return out
}

// splitNameVersion cuts "name@version" at the last "@" that is not the first character.
// ok is false when there is no such "@".
func splitNameVersion(s string) (name, version string, ok bool) {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '@' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// cutSpecifier cuts "name@range" at the first "@" past the leading character,
// so "@scope/pkg@npm:other@^1" keeps "@scope/pkg" as the name.
func cutSpecifier(s string) (name, rest string) {
	if len(s) < 2 {
		return s, ""
	}
	if i := strings.IndexByte(s[1:], '@'); i >= 0 {
		return s[:i+1], s[i+2:]
	}
	return s, ""
}
