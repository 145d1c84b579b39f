package files

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/core/domain"
	"github.com/ozgur/shipmate/internal/registry"
)

// Service implements ports.ConfigService over the registry. Every read
// and write goes through registry validation first; the disk is never
// touched for a name the registry does not know.
type Service struct {
	provider *registry.Provider
	logger   *zap.Logger
}

// NewService creates a config file service.
func NewService(provider *registry.Provider, logger *zap.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// ListFiles returns every registry entry, sorted by logical name.
func (s *Service) ListFiles(_ context.Context) []domain.Entry {
	return s.provider.Current().Entries()
}

// ReadFile returns the full content of a managed file.
func (s *Service) ReadFile(_ context.Context, name string) (string, error) {
	entry, err := s.provider.Current().Validate(name, registry.OpRead)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		s.logger.Error("read failed",
			zap.String("name", name), zap.String("path", entry.Path), zap.Error(err))
		return "", &domain.IOError{Op: "read", Name: name, Err: err}
	}

	s.logger.Debug("read file",
		zap.String("name", name), zap.Int("bytes", len(data)))
	return string(data), nil
}

// WriteFile replaces the full content of a managed file. The new content
// is written to a temp file in the target's directory and renamed over
// it, so a crash mid-write leaves the old content intact. The previous
// content is copied to <path>.backup first, best effort.
func (s *Service) WriteFile(_ context.Context, name, content string) error {
	entry, err := s.provider.Current().Validate(name, registry.OpWrite)
	if err != nil {
		return err
	}

	s.backup(entry.Path)

	if err := atomicWrite(entry.Path, []byte(content)); err != nil {
		s.logger.Error("write failed",
			zap.String("name", name), zap.String("path", entry.Path), zap.Error(err))
		return &domain.IOError{Op: "write", Name: name, Err: err}
	}

	s.logger.Info("wrote file",
		zap.String("name", name), zap.Int("bytes", len(content)))
	return nil
}

// backup copies the current content aside before an overwrite. A failure
// here never blocks the write; a file being written for the first time
// simply has nothing to back up.
func (s *Service) backup(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := os.WriteFile(path+".backup", data, 0o600); err != nil {
		s.logger.Warn("backup failed", zap.String("path", path), zap.Error(err))
	}
}

func atomicWrite(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
