package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"ourtime/internal/logging"
)

// Watch observes the config directory and invokes onChange with a freshly
// loaded configuration whenever config.yaml or config.local.yaml changes.
// Reload failures keep the previous configuration and are logged, not
// fatal. The returned stop function releases the watcher.
func Watch(dir string, onChange func(*Config)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		// Editors fire several events per save; coalesce bursts.
		var pending <-chan time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isConfigFile(ev.Name) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(200 * time.Millisecond)
			case <-pending:
				pending = nil
				cfg, err := LoadFrom(dir)
				if err != nil {
					logging.UI("config reload failed, keeping previous: %v", err)
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.UI("config watcher error: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(base, "config.yaml") || strings.EqualFold(base, "config.local.yaml")
}
