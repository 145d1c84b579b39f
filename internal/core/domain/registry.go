package domain

import "sort"

// Entry is one file the service is willing to expose. The logical name is
// the only identifier clients ever see; the filesystem path never leaves
// the process.
type Entry struct {
	Name        string // unique logical name, e.g. "nginx.conf" or "dotfiles/fish/config.fish"
	Path        string // absolute filesystem path
	DisplayName string
	Description string
	Readonly    bool
	Extension   string // no leading dot, case-sensitive
	Category    string // optional grouping label for clients
}

// ScanRule declares a directory whose matching files become registry
// entries at build time.
type ScanRule struct {
	Name        string // logical-name prefix for discovered files
	Path        string // root directory, "~/" expanded at scan time
	MaxDepth    uint   // 0 = the root itself; files exactly at MaxDepth are included
	Extensions  []string
	Description string
	Readonly    bool
	Category    string
}

// Registry is the immutable, name-keyed set of exposed files. It is built
// once and shared read-only across requests; a reload produces a new
// Registry, never mutates an existing one.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry from already-validated entries. Callers
// are expected to have resolved name collisions; a duplicate here keeps
// the first occurrence.
func NewRegistry(entries []Entry) *Registry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, ok := m[e.Name]; ok {
			continue
		}
		m[e.Name] = e
	}
	return &Registry{entries: m}
}

// Lookup returns the entry for a logical name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns all entries sorted by logical name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
