package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrRequiresRestart is returned by TryReload when the changed configuration
// cannot be applied to a running process.
var ErrRequiresRestart = errors.New("configuration change requires restart")

// ReloadCallback is invoked with the new configuration after a successful
// reload.
type ReloadCallback func(cfg *Config)

// Manager watches a configuration file and applies hot-reloadable changes.
// Only the logging section can change at runtime; everything else (gateway
// token, storage backend, server port, correlation capacity) is wired into
// live components at startup and requires a restart.
type Manager struct {
	path string

	mu        sync.RWMutex
	current   *Config
	callbacks []ReloadCallback

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewManager creates a configuration manager for the given file path with the
// already-loaded configuration as its baseline.
func NewManager(path string, current *Config) *Manager {
	return &Manager{
		path:    path,
		current: current,
		done:    make(chan struct{}),
	}
}

// Current returns the most recently applied configuration.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// OnReload registers a callback invoked after every successful reload.
func (m *Manager) OnReload(cb ReloadCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// TryReload re-reads the configuration file and applies it. Changes to
// non-reloadable sections are rejected with ErrRequiresRestart and the
// running configuration stays untouched.
func (m *Manager) TryReload() error {
	next, err := Load(m.path)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}

	m.mu.Lock()
	if reason := staticDiff(m.current, next); reason != "" {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", reason, ErrRequiresRestart)
	}
	m.current = next
	callbacks := make([]ReloadCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(next)
	}
	return nil
}

// Watch starts watching the configuration file for changes until stop is
// closed via Close. Reload failures are reported through onError; the running
// configuration is never replaced by a broken file.
func (m *Manager) Watch(onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	m.watcher = watcher

	// Watch the directory rather than the file itself so atomic
	// rename-into-place updates (editors, configmap mounts) are seen.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching config directory: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := m.TryReload(); err != nil && onError != nil {
					onError(err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			case <-m.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the file watcher.
func (m *Manager) Close() error {
	close(m.done)
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// staticDiff reports the first non-reloadable difference between the running
// and the candidate configuration, or "" when only reloadable sections differ.
func staticDiff(current, next *Config) string {
	if current.Discord != next.Discord {
		return "discord settings changed"
	}
	if current.Server != next.Server {
		return "server settings changed"
	}
	if current.Storage != next.Storage {
		return "storage settings changed"
	}
	if current.Mirror != next.Mirror {
		return "mirror settings changed"
	}
	return ""
}
