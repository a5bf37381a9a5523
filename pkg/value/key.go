package value

import "strconv"

// KeyKind identifies how a mapping key was written in the source document.
type KeyKind int

const (
	// KeyString is a plain string key.
	KeyString KeyKind = iota
	// KeyInt is an integer key; it takes part in paths in decimal form.
	KeyInt
	// KeyUnsupported is any other scalar (bool, float, null) or a composite
	// key. It is carried so the flattener can report it.
	KeyUnsupported
)

// Key is a mapping key. Keys are comparable and can be used as map keys.
type Key struct {
	kind KeyKind
	s    string
	i    int64
}

// StringKey returns a string key.
func StringKey(s string) Key { return Key{kind: KeyString, s: s} }

// IntKey returns an integer key.
func IntKey(i int64) Key { return Key{kind: KeyInt, i: i} }

// UnsupportedKey returns a key of a type that cannot take part in a path.
// raw is the source text, kept for diagnostics.
func UnsupportedKey(raw string) Key { return Key{kind: KeyUnsupported, s: raw} }

// Kind returns the key type.
func (k Key) Kind() KeyKind { return k.kind }

// Supported reports whether the key can be used as a path segment.
func (k Key) Supported() bool { return k.kind != KeyUnsupported }

// String returns the normalized text of the key: the string itself, the
// decimal form of an integer, or the raw text of an unsupported key.
func (k Key) String() string {
	if k.kind == KeyInt {
		return strconv.FormatInt(k.i, 10)
	}
	return k.s
}
