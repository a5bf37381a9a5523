package loader

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
)

// DefaultWatchDebounce is how long Watch waits after the last filesystem
// event before reloading.
const DefaultWatchDebounce = 500 * time.Millisecond

// Settings tunes a Loader. Zero fields take their default.
type Settings struct {
	// WatchDebounce delays reloads in Watch until events settle.
	WatchDebounce time.Duration `validate:"gte=0"`

	// IgnoreHidden skips files and directories whose name starts with a dot
	// while walking a directory source. The source itself is never skipped.
	IgnoreHidden bool
}

// DefaultSettings returns the settings a Loader uses when none are given.
func DefaultSettings() Settings {
	return Settings{
		WatchDebounce: DefaultWatchDebounce,
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid loader settings: %w", err)
	}
	return nil
}

// resolve validates s and fills its zero fields from DefaultSettings.
func (s Settings) resolve() (Settings, error) {
	if err := s.Validate(); err != nil {
		return DefaultSettings(), err
	}
	if err := mergo.Merge(&s, DefaultSettings()); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to apply default loader settings: %w", err)
	}
	return s, nil
}
