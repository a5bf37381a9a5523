// Package config exposes a flattened configuration through typed getters.
//
//	cfg := config.New("/etc/myapp")
//	port, err := cfg.GetInt("server.port")
//	if errors.Is(err, config.ErrKeyNotFound) {
//	    port = 8080
//	}
//
// Getters never convert between unrelated kinds. The only coercion is integer
// to float in GetFloat.
package config
