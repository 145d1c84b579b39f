package registry

import (
	"fmt"
	"path/filepath"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// Operation is the kind of access being validated.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

// Snapshot is one immutable build of the registry together with the
// extension whitelist it was built against. Handlers only ever see a
// Snapshot; a reload produces a new one and swaps the pointer.
type Snapshot struct {
	registry *domain.Registry
	allowed  map[string]struct{}
}

// Entries returns all entries sorted by logical name.
func (s *Snapshot) Entries() []domain.Entry {
	return s.registry.Entries()
}

// Len returns the number of registry entries.
func (s *Snapshot) Len() int {
	return s.registry.Len()
}

// Validate resolves a logical name and checks that the requested
// operation is permitted. The checks run in a fixed order and
// short-circuit; no disk access happens here. The API only ever accepts
// logical names, so the returned path is the registry's own absolute
// path and cannot have been influenced by the client.
func (s *Snapshot) Validate(name string, op Operation) (domain.Entry, error) {
	entry, ok := s.registry.Lookup(name)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%q: %w", name, domain.ErrNotFound)
	}

	// The builder already enforced the whitelist, so this only fires if
	// the registry was assembled outside Build.
	if _, ok := s.allowed[entry.Extension]; !ok {
		return domain.Entry{}, fmt.Errorf("%q (.%s): %w", name, entry.Extension, domain.ErrInvalidExtension)
	}

	if op == OpWrite && entry.Readonly {
		return domain.Entry{}, fmt.Errorf("%q: %w", name, domain.ErrReadonly)
	}

	if !filepath.IsAbs(entry.Path) {
		return domain.Entry{}, fmt.Errorf("%q: non-absolute path %q: %w", name, entry.Path, domain.ErrNotFound)
	}

	return entry, nil
}
