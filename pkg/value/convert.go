package value

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// FromAny converts plain Go values, as produced by map-based decoders, into a
// Value. Map keys are sorted because Go maps carry no document order.
func FromAny(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x.Clone(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return String(x.Format(time.RFC3339Nano)), nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, seq: items}, nil
	case []map[string]any:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, seq: items}, nil
	case map[string]any:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)

		entries := make([]Entry, 0, len(names))
		for _, name := range names {
			v, err := FromAny(x[name])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", name, err)
			}
			entries = append(entries, Entry{Key: StringKey(name), Value: v})
		}
		return Value{kind: KindMapping, entries: entries}, nil
	case fmt.Stringer:
		// Local date/time types of TOML decoders end up here.
		return String(x.String()), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", in)
	}
}

// fromUint keeps values above math.MaxInt64 as floats rather than wrapping.
func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}
