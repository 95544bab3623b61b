package domain

import "fmt"

// Kind identifies which wizard flavor a draft or session belongs to.
// The set is closed: dispatch over kinds happens through explicit lookup
// tables, never duck typing.
type Kind string

const (
	KindProperty Kind = "property"
	KindLand     Kind = "land"
	KindBlog     Kind = "blog"
)

// Kinds returns all known wizard kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindProperty, KindLand, KindBlog}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProperty, KindLand, KindBlog:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// ParseKind converts a raw string into a Kind.
// Unknown values return ErrUnknownDraftKind so callers fail loudly
// instead of silently storing under a bogus namespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDraftKind, s)
	}
	return k, nil
}
