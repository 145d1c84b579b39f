package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// Scan walks the rule's root directory and returns an entry for every
// matching file. Depth 0 is the root itself, so a file directly under the
// root sits at depth 1 and a file exactly at MaxDepth is still included.
// Per-file problems are logged and skipped; only a missing or unreadable
// root fails the scan.
func Scan(rule domain.ScanRule, logger *zap.Logger) ([]domain.Entry, error) {
	root, err := expandHome(rule.Path)
	if err != nil {
		return nil, err
	}

	// Resolve the root itself so symlink targets can be compared against
	// the real tree.
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}

	prefix := strings.TrimPrefix(rule.Name, "/")

	var found []domain.Entry
	err = filepath.WalkDir(realRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("skipping unreadable path",
				zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(realRoot, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == realRoot {
				return nil
			}
			// A directory at MaxDepth can only contain files beyond the
			// bound, so there is no point descending into it.
			if dirDepth(rel) >= int(rule.MaxDepth) {
				return fs.SkipDir
			}
			return nil
		}

		if dirDepth(rel) > int(rule.MaxDepth) {
			return nil
		}

		realPath := path
		if d.Type()&fs.ModeSymlink != 0 {
			target, linkErr := filepath.EvalSymlinks(path)
			if linkErr != nil {
				logger.Warn("skipping broken symlink",
					zap.String("path", path), zap.Error(linkErr))
				return nil
			}
			if !withinRoot(realRoot, target) {
				logger.Warn("skipping symlink outside scan root",
					zap.String("path", path), zap.String("target", target))
				return nil
			}
			realPath = target
		}

		// Extension comes from the resolved target, not the link name, so
		// a link cannot smuggle an arbitrary file past the filter.
		ext := strings.TrimPrefix(filepath.Ext(realPath), ".")
		if len(rule.Extensions) > 0 && !contains(rule.Extensions, ext) {
			return nil
		}

		found = append(found, domain.Entry{
			Name:        prefix + "/" + filepath.ToSlash(rel),
			Path:        realPath,
			DisplayName: filepath.Base(path),
			Description: ruleDescription(rule),
			Readonly:    rule.Readonly,
			Extension:   ext,
			Category:    rule.Category,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	// Lexical path order keeps collision resolution reproducible.
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func dirDepth(rel string) int {
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func ruleDescription(rule domain.ScanRule) string {
	if rule.Description == "" {
		return fmt.Sprintf("From directory: %s", rule.Name)
	}
	return fmt.Sprintf("From directory: %s", rule.Description)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}
