// Package derive implements the pull-based recomputation graph shared by the
// commerce engines. Each source store carries a version counter bumped on
// mutation; a derived cell recomputes lazily on the first read after any of its
// sources moved and caches the result until the next bump. There is a single
// logical writer, so no locking is involved.
package derive

// Source is the version counter attached to a mutable store.
type Source struct {
	version uint64
}

// NewSource returns a source at version 1 so cells always compute on first read.
func NewSource() *Source {
	return &Source{version: 1}
}

// Bump marks the source dirty for every dependent cell.
func (s *Source) Bump() {
	s.version++
}

// Version exposes the current counter, mainly for tests.
func (s *Source) Version() uint64 {
	return s.version
}

// Cell memoizes a derived value over one or more sources.
type Cell[T any] struct {
	sources []*Source
	seen    []uint64
	compute func() T
	value   T
	primed  bool
}

// NewCell wires a computation to the sources it reads from.
func NewCell[T any](compute func() T, sources ...*Source) *Cell[T] {
	return &Cell[T]{
		sources: sources,
		seen:    make([]uint64, len(sources)),
		compute: compute,
	}
}

// Get returns the cached value, recomputing only when a source has moved since
// the last read. Repeated reads between mutations return the identical value.
func (c *Cell[T]) Get() T {
	if !c.primed || c.stale() {
		c.value = c.compute()
		for i, src := range c.sources {
			c.seen[i] = src.version
		}
		c.primed = true
	}
	return c.value
}

func (c *Cell[T]) stale() bool {
	for i, src := range c.sources {
		if c.seen[i] != src.version {
			return true
		}
	}
	return false
}
