package document

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/flatconf/flatconf/pkg/value"
)

// TOMLDecoder decodes a TOML document. TOML tables come back as Go maps, so
// sibling keys end up in sorted order rather than file order.
type TOMLDecoder struct{}

// Decode implements Decoder.
func (TOMLDecoder) Decode(data []byte) (value.Value, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return value.Value{}, fmt.Errorf("decoding toml: %w", err)
	}

	v, err := value.FromAny(doc)
	if err != nil {
		return value.Value{}, fmt.Errorf("converting toml: %w", err)
	}
	return v, nil
}
