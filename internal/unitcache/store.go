package unitcache

import "sync"

type positionKey[O comparable] struct {
	owner O
	index int
}

type elementKey[O, E comparable] struct {
	owner   O
	element E
}

type elementEntry[E comparable] struct {
	element E
	uses    uint32
}

type indexEntry struct {
	index int
	uses  uint32
}

// Store is the cache of one compound-unit kind. O is the owner key (which
// must identify the calendar as well as the owning unit) and E the element
// key.
type Store[O, E comparable] struct {
	reg *Registry
	t   Tag

	mu       sync.Mutex
	elements map[positionKey[O]]*elementEntry[E]
	indexes  map[elementKey[O, E]]*indexEntry
}

func newStore[O, E comparable](r *Registry, t Tag) *Store[O, E] {
	return &Store[O, E]{
		reg:      r,
		t:        t,
		elements: make(map[positionKey[O]]*elementEntry[E]),
		indexes:  make(map[elementKey[O, E]]*indexEntry),
	}
}

// Element returns the element cached at index of owner.
func (s *Store[O, E]) Element(owner O, index int) (E, bool) {
	s.mu.Lock()
	e, ok := s.elements[positionKey[O]{owner, index}]
	var out E
	if ok {
		e.uses++
		out = e.element
	}
	s.mu.Unlock()
	s.count(ok)
	return out, ok
}

// PutElement caches element at index of owner. Existing entries keep their
// usage count.
func (s *Store[O, E]) PutElement(owner O, index int, element E) {
	k := positionKey[O]{owner, index}
	s.mu.Lock()
	if _, ok := s.elements[k]; ok {
		s.mu.Unlock()
		return
	}
	s.elements[k] = &elementEntry[E]{element: element}
	s.mu.Unlock()
	s.reg.added(1)
}

// Index returns the cached index of element within owner.
func (s *Store[O, E]) Index(owner O, element E) (int, bool) {
	s.mu.Lock()
	e, ok := s.indexes[elementKey[O, E]{owner, element}]
	idx := 0
	if ok {
		e.uses++
		idx = e.index
	}
	s.mu.Unlock()
	s.count(ok)
	return idx, ok
}

// PutIndex caches the index of element within owner.
func (s *Store[O, E]) PutIndex(owner O, element E, index int) {
	k := elementKey[O, E]{owner, element}
	s.mu.Lock()
	if _, ok := s.indexes[k]; ok {
		s.mu.Unlock()
		return
	}
	s.indexes[k] = &indexEntry{index: index}
	s.mu.Unlock()
	s.reg.added(1)
}

// Len returns the number of entries in both maps.
func (s *Store[O, E]) Len() int { return s.size() }

func (s *Store[O, E]) count(hit bool) {
	if hit {
		s.reg.hits.Add(1)
	} else {
		s.reg.misses.Add(1)
	}
}

func (s *Store[O, E]) tag() Tag { return s.t }

func (s *Store[O, E]) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements) + len(s.indexes)
}

// purge drops entries used less than floor(maxUses * factor) times. It
// returns the number removed and that floor; a zero floor means no entry in
// the store has been reused.
func (s *Store[O, E]) purge(factor float64) (int, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxUses uint32
	for _, e := range s.elements {
		maxUses = max(maxUses, e.uses)
	}
	for _, e := range s.indexes {
		maxUses = max(maxUses, e.uses)
	}
	keep := retention(maxUses, factor)

	removed := 0
	for k, e := range s.elements {
		if e.uses < keep {
			delete(s.elements, k)
			removed++
		}
	}
	for k, e := range s.indexes {
		if e.uses < keep {
			delete(s.indexes, k)
			removed++
		}
	}
	return removed, keep
}

func (s *Store[O, E]) clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.elements) + len(s.indexes)
	s.elements = make(map[positionKey[O]]*elementEntry[E])
	s.indexes = make(map[elementKey[O, E]]*indexEntry)
	return n
}
