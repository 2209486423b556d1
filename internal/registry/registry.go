// Package registry provides the append-only, deduplicating multimap that
// stores declared compatibility flag names per content digest.
//
// A Registry maps each digest to an ordered list of flag names. Insertion
// order is preserved and names under the same digest never repeat
// (case-insensitively). There is no removal operation: registries are
// filled during configuration load and read afterwards.
//
// Registries are not safe for concurrent use. Loading and reading are
// separate phases and the caller enforces the boundary.
package registry

import (
	"iter"

	"github.com/roach88/wadcompat/internal/ir"
)

// Registry is an ordered multimap from digest to flag names.
type Registry struct {
	entries map[ir.Digest][]ir.FlagName
	order   []ir.Digest // digests in first-insertion order
	total   int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[ir.Digest][]ir.FlagName)}
}

// AddIfAbsent appends name under digest unless an entry comparing equal
// case-insensitively is already present. Returns true if name was added.
//
// Duplicates are expected input (a digest may be listed by several
// sections) and are dropped without error.
func (r *Registry) AddIfAbsent(digest ir.Digest, name ir.FlagName) bool {
	for c := (Cursor{}); ; {
		existing, next, ok := r.Next(digest, c)
		if !ok {
			break
		}
		if ir.EqualNames(existing, name) {
			return false
		}
		c = next
	}

	if _, seen := r.entries[digest]; !seen {
		r.order = append(r.order, digest)
	}
	r.entries[digest] = append(r.entries[digest], name)
	r.total++
	return true
}

// Cursor marks a position in the sequence of entries under one digest.
// The zero Cursor starts from the first entry.
type Cursor struct {
	pos int
}

// Next returns the entry after c under digest and the cursor to pass on
// the following call. ok is false once the entries are exhausted.
//
// Iteration is lazy and restartable: passing the zero Cursor always starts
// over from the first entry.
func (r *Registry) Next(digest ir.Digest, c Cursor) (name ir.FlagName, next Cursor, ok bool) {
	list := r.entries[digest]
	if c.pos < 0 || c.pos >= len(list) {
		return "", c, false
	}
	return list[c.pos], Cursor{pos: c.pos + 1}, true
}

// All returns an iterator over the entries under digest in insertion order.
func (r *Registry) All(digest ir.Digest) iter.Seq[ir.FlagName] {
	return func(yield func(ir.FlagName) bool) {
		for c := (Cursor{}); ; {
			name, next, ok := r.Next(digest, c)
			if !ok || !yield(name) {
				return
			}
			c = next
		}
	}
}

// Entries returns a copy of the entries under digest.
func (r *Registry) Entries(digest ir.Digest) []ir.FlagName {
	list := r.entries[digest]
	if len(list) == 0 {
		return nil
	}
	out := make([]ir.FlagName, len(list))
	copy(out, list)
	return out
}

// Digests returns every digest with at least one entry, in the order the
// digests were first added.
func (r *Registry) Digests() []ir.Digest {
	out := make([]ir.Digest, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the total number of entries across all digests.
func (r *Registry) Len() int {
	return r.total
}
