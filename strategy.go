package loaded

// traverseFunc is the push-style platform primitive: it visits every loaded
// object until the callback returns false. The Object argument is only
// valid for the duration of the callback.
type traverseFunc func(f func(name string, obj Object) bool) error

// lookupFunc is the pull-style platform primitive: direct named lookup,
// applying f to the object when it is loaded.
type lookupFunc func(name string, f func(Object)) (bool, error)

// mapByTraversal realizes single-name lookup on platforms that can only
// enumerate. The traversal stops at the first match.
func mapByTraversal(traverse traverseFunc, name string, f func(Object)) (bool, error) {
	found := false
	err := traverse(func(objName string, obj Object) bool {
		if !MatchName(objName, name) {
			return true
		}
		f(obj)
		found = true
		return false
	})
	return found, err
}

// fillByTraversal is the push batch strategy: one traversal, testing every
// unwritten entry against every visited object, aborting the instant the
// map is full.
func fillByTraversal(traverse traverseFunc, m ObjectMap) error {
	if mapIsFull(m) {
		return nil
	}
	return traverse(func(name string, obj Object) bool {
		wrote := false
		m.Entries(func(e MapEntry) bool {
			if !e.IsWritten() && entryMatches(e, name) {
				e.Write(obj)
				wrote = true
			}
			return true
		})
		return !(wrote && mapIsFull(m))
	})
}

// fillByLookup is the pull batch strategy: for each unwritten entry, try
// each candidate name by direct lookup until one resolves. An entry with no
// resolvable candidate is left unwritten; a platform failure aborts the
// whole batch.
func fillByLookup(lookup lookupFunc, m ObjectMap) error {
	var err error
	m.Entries(func(e MapEntry) bool {
		if e.IsWritten() {
			return true
		}
		for _, name := range e.Names() {
			var found bool
			found, err = lookup(name, e.Write)
			if err != nil {
				return false
			}
			if found {
				break
			}
		}
		return true
	})
	return err
}

func findByAddr(traverse traverseFunc, addr uintptr, f func(Object)) (bool, error) {
	found := false
	err := traverse(func(_ string, obj Object) bool {
		contains := false
		obj.Segments(func(seg Segment) bool {
			contains = seg.Contains(addr)
			return !contains
		})
		if !contains {
			return true
		}
		f(obj)
		found = true
		return false
	})
	return found, err
}
