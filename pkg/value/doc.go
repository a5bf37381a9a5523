// Package value defines the generic document tree produced by decoders.
//
// A Value is one of Null, Bool, Int, Float, String, Sequence or Mapping.
// Mappings keep their entries in document order and their keys are either
// strings or integers; keys of any other type are kept as unsupported keys so
// that consumers can report them instead of guessing a representation.
//
// Values are immutable once built. Accessors that return composite contents
// (AsSequence, Entries) hand out copies, and Clone produces a deep copy.
//
// Numeric access follows one rule: an integer can be read as a float
// (widening), a float is never read as an integer.
//
//	v := value.Mapping(
//	    value.Entry{Key: value.StringKey("age"), Value: value.Int(39)},
//	)
//	for _, e := range v.Entries() {
//	    f, _ := e.Value.AsFloat() // 39.0
//	}
package value
