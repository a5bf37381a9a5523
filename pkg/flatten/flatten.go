package flatten

import (
	"fmt"
	"strings"

	"github.com/flatconf/flatconf/pkg/value"
)

// Separator joins path segments. Keys containing it are rejected.
const Separator = "."

// Reason classifies why a mapping entry was dropped.
type Reason string

const (
	// ReasonSeparator means the key contains Separator.
	ReasonSeparator Reason = "separator"
	// ReasonEmpty means the key is the empty string.
	ReasonEmpty Reason = "empty"
	// ReasonUnsupportedKey means the key is neither a string nor an integer.
	ReasonUnsupportedKey Reason = "unsupported-key"
)

// Diagnostic describes a mapping entry that was left out of the result.
// Dropping an entry drops its whole subtree.
type Diagnostic struct {
	// Path is the path of the mapping holding the entry; empty at the root.
	Path string
	// Key is the normalized key text.
	Key string
	// Reason tells why the entry was dropped.
	Reason Reason
}

// Error renders the diagnostic as a message.
func (d Diagnostic) Error() string {
	where := "at document root"
	if d.Path != "" {
		where = fmt.Sprintf("under %q", d.Path)
	}

	switch d.Reason {
	case ReasonSeparator:
		return fmt.Sprintf("key %q %s contains %q, which is not allowed in key names", d.Key, where, Separator)
	case ReasonEmpty:
		return fmt.Sprintf("empty key %s is not allowed", where)
	case ReasonUnsupportedKey:
		return fmt.Sprintf("key %q %s is neither a string nor an integer", d.Key, where)
	default:
		return fmt.Sprintf("key %q %s was skipped: %s", d.Key, where, d.Reason)
	}
}

// Result holds the flat entries of a document and the entries that were
// dropped on the way.
type Result struct {
	Entries     map[string]value.Value
	Diagnostics []Diagnostic
}

// Flatten converts a document into a mapping from dotted paths to leaf
// values. Only mappings are descended into: sequences and scalars are leaves,
// stored as clones. A document whose root is not a mapping yields nothing.
//
// Entries are processed in document order, so when two entries produce the
// same path (integer key 1 and string key "1" in one mapping) the later wins.
func Flatten(tree value.Value) Result {
	if !tree.IsMapping() {
		return Result{Entries: make(map[string]value.Value)}
	}
	return walk(tree, "")
}

// walk flattens the mapping found at prefix. Every call owns its prefix and
// its result; the caller merges child results into its own.
func walk(mapping value.Value, prefix string) Result {
	res := Result{Entries: make(map[string]value.Value, mapping.Len())}

	for _, e := range mapping.Entries() {
		key := e.Key.String()
		if reason, ok := checkKey(e.Key); !ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Path: prefix, Key: key, Reason: reason})
			continue
		}

		path := Join(prefix, key)
		if e.Value.IsMapping() {
			res.merge(walk(e.Value, path))
			continue
		}
		res.Entries[path] = e.Value.Clone()
	}

	return res
}

func (r *Result) merge(child Result) {
	for path, v := range child.Entries {
		r.Entries[path] = v
	}
	r.Diagnostics = append(r.Diagnostics, child.Diagnostics...)
}

func checkKey(k value.Key) (Reason, bool) {
	switch {
	case !k.Supported():
		return ReasonUnsupportedKey, false
	case k.String() == "":
		return ReasonEmpty, false
	case strings.Contains(k.String(), Separator):
		return ReasonSeparator, false
	default:
		return "", true
	}
}

// Join appends key to prefix with Separator. An empty prefix yields key.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Separator + key
}

// Split returns the segments of path. The empty path has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}
