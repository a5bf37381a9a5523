package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/flatconf/flatconf/pkg/value"
)

// YAMLDecoder decodes a single YAML document. JSON input is accepted as well,
// being a subset of YAML.
//
// The document is decoded into a yaml.Node tree rather than Go maps so that
// mapping order and the integer-ness of keys survive.
type YAMLDecoder struct{}

// Decode implements Decoder. Empty input decodes to Null. A stream with more
// than one document is rejected with ErrMultipleDocuments.
func (YAMLDecoder) Decode(data []byte) (value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Null(), nil
		}
		return value.Value{}, fmt.Errorf("decoding yaml: %w", err)
	}

	var next yaml.Node
	switch err := dec.Decode(&next); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return value.Value{}, fmt.Errorf("decoding yaml: %w", err)
	default:
		return value.Value{}, ErrMultipleDocuments
	}

	c := &nodeConverter{active: make(map[*yaml.Node]bool)}
	return c.convert(&doc)
}

// nodeConverter tracks the alias targets currently being expanded so that a
// self-referencing anchor fails instead of recursing forever.
type nodeConverter struct {
	active map[*yaml.Node]bool
}

func (c *nodeConverter) convert(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case 0:
		return value.Null(), nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return c.convert(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil {
			return value.Value{}, fmt.Errorf("line %d: alias %q has no anchor", n.Line, n.Value)
		}
		if c.active[n.Alias] {
			return value.Value{}, fmt.Errorf("%w: line %d: alias %q", ErrRecursiveAlias, n.Line, n.Value)
		}
		c.active[n.Alias] = true
		defer delete(c.active, n.Alias)
		return c.convert(n.Alias)

	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.Sequence(items...), nil

	case yaml.MappingNode:
		if len(n.Content)%2 != 0 {
			return value.Value{}, fmt.Errorf("line %d: mapping has an odd number of nodes", n.Line)
		}
		entries := make([]value.Entry, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			key := c.key(n.Content[i])
			v, err := c.convert(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			entries = append(entries, value.Entry{Key: key, Value: v})
		}
		return value.Mapping(entries...), nil

	case yaml.ScalarNode:
		return scalar(n)

	default:
		return value.Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// key turns a mapping key node into a value.Key. String, text-like and
// integer keys are supported; everything else is kept for the flattener to
// reject.
func (c *nodeConverter) key(n *yaml.Node) value.Key {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return value.UnsupportedKey(fmt.Sprintf("<%s at line %d>", kindName(n.Kind), n.Line))
	}

	switch n.ShortTag() {
	case "!!str", "!!merge", "!!timestamp", "!!binary":
		// Timestamps and binaries keep their source text, as their values do.
		return value.StringKey(n.Value)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.IntKey(i)
		}
	}
	return value.UnsupportedKey(n.Value)
}

func scalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.Bool(b), nil

	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		// Unsigned values above the int64 range.
		var u uint64
		if err := n.Decode(&u); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.Float(float64(u)), nil

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.Float(f), nil

	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text.
		return value.String(n.Value), nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.DocumentNode:
		return "document"
	default:
		return "node"
	}
}
