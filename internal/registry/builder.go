package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/config"
	"github.com/ozgur/shipmate/internal/core/domain"
)

// Build assembles the registry from the config document: explicitly
// declared files first, then every scan rule in declaration order.
//
// Failures in the explicit declarations are fatal so a misconfigured
// process never comes up: duplicate logical names and extensions outside
// the whitelist both return an error. Scanned entries are softer — a
// collision with an explicit entry keeps the explicit one, a collision
// between two scanned entries keeps the first discovered, and an
// extension outside the whitelist drops the entry; all three are logged.
func Build(cfg *config.Config, logger *zap.Logger) (*Snapshot, error) {
	allowed := make(map[string]struct{}, len(cfg.Settings.AllowedExtensions))
	for _, ext := range cfg.Settings.AllowedExtensions {
		allowed[ext] = struct{}{}
	}

	entries := make([]domain.Entry, 0, len(cfg.Files))
	seen := make(map[string]bool, len(cfg.Files))
	explicit := make(map[string]bool, len(cfg.Files))

	for _, f := range cfg.Files {
		e, err := entryFromFile(f)
		if err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate file declaration %q", e.Name)
		}
		if _, ok := allowed[e.Extension]; !ok {
			return nil, fmt.Errorf("file %q: extension %q not in allowed_extensions", e.Name, e.Extension)
		}
		seen[e.Name] = true
		explicit[e.Name] = true
		entries = append(entries, e)
	}

	for _, dir := range cfg.Directories {
		rule := domain.ScanRule{
			Name:        dir.Name,
			Path:        dir.Path,
			MaxDepth:    dir.Depth,
			Extensions:  dir.Types,
			Description: dir.Description,
			Readonly:    dir.Readonly,
			Category:    dir.Category,
		}

		scanned, err := Scan(rule, logger)
		if err != nil {
			logger.Warn("directory scan failed",
				zap.String("directory", dir.Name), zap.Error(err))
			continue
		}

		for _, e := range scanned {
			if _, ok := allowed[e.Extension]; !ok {
				logger.Warn("discarding scanned file outside extension whitelist",
					zap.String("name", e.Name), zap.String("extension", e.Extension))
				continue
			}
			if explicit[e.Name] {
				logger.Warn("scanned file shadowed by explicit declaration",
					zap.String("name", e.Name), zap.String("path", e.Path))
				continue
			}
			if seen[e.Name] {
				logger.Warn("discarding scanned file with duplicate name",
					zap.String("name", e.Name), zap.String("path", e.Path))
				continue
			}
			seen[e.Name] = true
			entries = append(entries, e)
		}
	}

	logger.Info("registry built", zap.Int("entries", len(entries)))

	return &Snapshot{
		registry: domain.NewRegistry(entries),
		allowed:  allowed,
	}, nil
}

func entryFromFile(f config.File) (domain.Entry, error) {
	if f.Name == "" {
		return domain.Entry{}, fmt.Errorf("file declaration with empty name (path %q)", f.Path)
	}

	path, err := expandHome(f.Path)
	if err != nil {
		return domain.Entry{}, err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("file %q: %w", f.Name, err)
	}

	return domain.Entry{
		Name:        f.Name,
		Path:        path,
		DisplayName: filepath.Base(path),
		Description: f.Description,
		Readonly:    f.Readonly,
		Extension:   strings.TrimPrefix(filepath.Ext(path), "."),
		Category:    f.Category,
	}, nil
}
