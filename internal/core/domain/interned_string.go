package domain

import "unique"

// InternedString is a package name stored once per process. Names repeat
// across every node and edge of a resolved graph, so graphs compare and hash
// handles instead of strings.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// IsZero reports whether the name was never set.
func (is InternedString) IsZero() bool {
	return is == InternedString{}
}

func (is InternedString) String() string {
	if is.IsZero() {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}
