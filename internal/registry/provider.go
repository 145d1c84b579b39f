package registry

import (
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/config"
)

// Provider hands out the current registry snapshot. The snapshot itself
// is immutable; reloads build a fresh one and swap the pointer, so
// readers never need a lock.
type Provider struct {
	current atomic.Pointer[Snapshot]
	logger  *zap.Logger
}

// NewProvider wraps an initial snapshot.
func NewProvider(snap *Snapshot, logger *zap.Logger) *Provider {
	p := &Provider{logger: logger}
	p.current.Store(snap)
	return p
}

// Current returns the snapshot in effect for this request.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// Reload rebuilds the registry from the config document and swaps it in.
// On failure the previous snapshot stays in effect.
func (p *Provider) Reload(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	snap, err := Build(cfg, p.logger)
	if err != nil {
		return err
	}
	p.current.Store(snap)
	return nil
}

// Watch reloads the registry whenever the config document changes. It
// watches the containing directory because editors typically replace the
// file by rename. The watcher stops when stop is closed.
func (p *Provider) Watch(path string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := p.Reload(path); err != nil {
					p.logger.Error("registry reload failed, keeping previous registry",
						zap.String("config", path), zap.Error(err))
					continue
				}
				p.logger.Info("registry reloaded",
					zap.String("config", path), zap.Int("entries", p.Current().Len()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Warn("config watcher error", zap.Error(err))
			case <-stop:
				return
			}
		}
	}()

	return nil
}
