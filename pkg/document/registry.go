package document

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flatconf/flatconf/pkg/value"
)

var (
	// ErrMultipleDocuments is returned when a YAML stream holds more than one
	// document. Only single-document files are supported.
	ErrMultipleDocuments = errors.New("multiple documents in one file are not supported")

	// ErrRecursiveAlias is returned when a YAML alias refers to one of its own
	// ancestors.
	ErrRecursiveAlias = errors.New("recursive alias")
)

// Decoder turns raw file contents into a value tree.
type Decoder interface {
	Decode(data []byte) (value.Value, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (value.Value, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte) (value.Value, error) {
	return f(data)
}

// Registry selects a Decoder by file extension.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
	fallback Decoder
}

// NewRegistry returns a registry with the built-in decoders: YAML for .yaml,
// .yml and .json, TOML for .toml. Any other extension falls back to YAML.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[string]Decoder),
		fallback: YAMLDecoder{},
	}
	r.Register(".yaml", YAMLDecoder{})
	r.Register(".yml", YAMLDecoder{})
	r.Register(".json", YAMLDecoder{})
	r.Register(".toml", TOMLDecoder{})
	return r
}

// Register associates ext (with or without the leading dot, case
// insensitive) with d, replacing any previous decoder.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[normalizeExt(ext)] = d
}

// SetFallback sets the decoder used for unregistered extensions.
func (r *Registry) SetFallback(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = d
}

// For returns the decoder for path.
func (r *Registry) For(path string) Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.decoders[normalizeExt(filepath.Ext(path))]; ok {
		return d
	}
	return r.fallback
}

// Decode decodes data with the decoder registered for path.
func (r *Registry) Decode(path string, data []byte) (value.Value, error) {
	return r.For(path).Decode(data)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
