// Package document decodes configuration files into value trees.
//
// Decoders are picked by file extension through a Registry:
//
//	.yaml .yml .json  YAMLDecoder (gopkg.in/yaml.v3)
//	.toml             TOMLDecoder (github.com/pelletier/go-toml/v2)
//	anything else     YAMLDecoder
//
// The YAML decoder works on the yaml.Node tree so that mapping entries keep
// their order and integer keys stay integers. Aliases are expanded; an alias
// that points at one of its own ancestors is an error. Keys that are neither
// strings nor integers are kept as value.UnsupportedKey so that the caller can
// report them.
//
// Custom formats can be plugged in with Register:
//
//	reg := document.NewRegistry()
//	reg.Register(".conf", document.DecoderFunc(parseConf))
package document
