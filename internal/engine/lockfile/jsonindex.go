package lockfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
)

// keySep joins object keys into a path. Lockfile keys never contain it.
const keySep = "\x00"

func keyPath(keys ...string) string {
	return strings.Join(keys, keySep)
}

// keyLines maps the path of every object key in a JSON document to the
// 1-indexed line the key appears on. Array elements contribute "[]" to paths.
func keyLines(content []byte) (map[string]int, error) {
	type frame struct {
		object  bool
		wantKey bool
		prefix  string
		key     string
	}

	newlines := newlineOffsets(content)
	lineAt := func(offset int64) int {
		return sort.Search(len(newlines), func(i int) bool { return newlines[i] >= offset }) + 1
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	lines := make(map[string]int)
	var stack []frame
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].wantKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var top *frame
		if n := len(stack); n > 0 {
			top = &stack[n-1]
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				prefix := ""
				if top != nil {
					child := "[]"
					if top.object {
						child = top.key
					}
					prefix = top.prefix + keySep + child
				}
				stack = append(stack, frame{object: v == '{', wantKey: v == '{', prefix: prefix})
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
		default:
			if top != nil && top.object && top.wantKey {
				key, _ := v.(string)
				top.key = key
				top.wantKey = false
				lines[strings.TrimPrefix(top.prefix+keySep+key, keySep)] = lineAt(dec.InputOffset())
				continue
			}
			valueDone()
		}
	}
	if len(stack) != 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return lines, nil
}

func newlineOffsets(content []byte) []int64 {
	var out []int64
	for i, b := range content {
		if b == '\n' {
			out = append(out, int64(i))
		}
	}
	return out
}
