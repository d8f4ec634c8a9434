package loaded

import "slices"

// MapEntry is one slot of a batch query: a request for the first loaded
// object matching one of several candidate names. Write is called at most
// once per batch; a written entry is never revisited.
type MapEntry interface {
	// Names returns the candidate names in priority order. On platforms
	// with direct named lookup each candidate is queried individually, so
	// entries should list concrete loader-resolvable names.
	Names() []string
	IsWritten() bool
	Write(Object)
}

// NameMatcher is implemented by entries that want a looser comparison than
// exact candidate equality when the platform enumerates instead of looking
// up by name.
type NameMatcher interface {
	MatchObjectName(name string) bool
}

// ObjectMap is a collection of entries to be filled by Objects.FillMap.
// Entries visits every entry until yield returns false.
type ObjectMap interface {
	Entries(yield func(MapEntry) bool)
}

func mapIsFull(m ObjectMap) bool {
	full := true
	m.Entries(func(e MapEntry) bool {
		full = e.IsWritten()
		return full
	})
	return full
}

// entryMatches applies the entry's own matching when it has one, and exact
// candidate equality against the raw object name otherwise.
func entryMatches(e MapEntry, name string) bool {
	if nm, ok := e.(NameMatcher); ok {
		return nm.MatchObjectName(name)
	}
	return slices.Contains(e.Names(), name)
}

// Slot is a single batch-query entry producing a value of type V. The
// conversion runs inside the visit, so it may read the Object freely but
// must not retain it.
type Slot[V any] struct {
	candidates []string
	convert    func(Object) V
	value      V
	written    bool
}

// NewSlot returns a slot wanting the first loaded object whose raw name
// equals one of the candidates.
func NewSlot[V any](convert func(Object) V, candidates ...string) *Slot[V] {
	return &Slot[V]{candidates: candidates, convert: convert}
}

func (s *Slot[V]) Names() []string { return s.candidates }

func (s *Slot[V]) IsWritten() bool { return s.written }

func (s *Slot[V]) Write(o Object) {
	if s.convert != nil {
		s.value = s.convert(o)
	}
	s.written = true
}

func (s *Slot[V]) Get() (V, bool) { return s.value, s.written }

// Entries makes a lone slot usable as a single-entry ObjectMap.
func (s *Slot[V]) Entries(yield func(MapEntry) bool) { yield(s) }

// Slots is a homogeneous ObjectMap over a slice of slots.
type Slots[V any] []*Slot[V]

func (s Slots[V]) Entries(yield func(MapEntry) bool) {
	for _, slot := range s {
		if !yield(slot) {
			return
		}
	}
}
