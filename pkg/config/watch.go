package config

import (
	"context"

	"github.com/flatconf/flatconf/pkg/loader"
)

// Watch calls fn with a freshly loaded Config every time source changes.
// It blocks until ctx is cancelled; see loader.Loader.Watch.
func Watch(ctx context.Context, l *loader.Loader, source string, fn func(*Config)) error {
	return l.Watch(ctx, source, func(res loader.Result) {
		fn(fromResult(res))
	})
}
