package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads source whenever something under it changes and passes each
// new Result to fn. Bursts of events are collapsed into one reload after
// Settings.WatchDebounce. Watch blocks until ctx is cancelled and only
// returns an error when the watcher cannot be started. fn is never called
// after Watch has returned.
//
// Watch does not perform an initial load.
func (l *Loader) Watch(ctx context.Context, source string, fn func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to stat watch source %s: %w", source, err)
	}

	// A single file is watched through its directory so that editors which
	// replace the file on save keep triggering events.
	match := func(string) bool { return true }
	if info.IsDir() {
		if err := l.watchDirectory(watcher, source); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", source, err)
		}
	} else {
		file := filepath.Clean(source)
		if err := watcher.Add(filepath.Dir(file)); err != nil {
			return fmt.Errorf("failed to watch file %s: %w", source, err)
		}
		match = func(name string) bool { return filepath.Clean(name) == file }
	}

	l.logger.Info().
		Str("source", source).
		Dur("debounce", l.settings.WatchDebounce).
		Msg("Started watching configuration source")

	var (
		reloadMu    sync.Mutex
		reloadTimer *time.Timer
		stopped     bool
	)
	// Wait for a reload that is already running, and keep timers that have
	// fired but not yet taken the lock from calling fn.
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
		reloadMu.Lock()
		stopped = true
		reloadMu.Unlock()
	}()

	reload := func() {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		l.logger.Info().Str("source", source).Msg("Reloading configuration")
		fn(l.Load(ctx, source))
	}

	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Str("source", source).Msg("Stopped watching configuration source")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !match(event.Name) {
				continue
			}

			l.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Configuration changed")

			if info.IsDir() && event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := l.watchDirectory(watcher, event.Name); err != nil {
						l.logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
					}
				}
			}

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(l.settings.WatchDebounce, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// watchDirectory adds dir and every directory below it to the watcher.
func (l *Loader) watchDirectory(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && l.settings.IgnoreHidden && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
