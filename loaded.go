// Package loaded enumerates the code objects (the executable and the shared
// libraries) mapped into the current process, inspects their segments and
// resolves exported symbols by name, behind one API on platforms whose
// loaders expose this through very different primitives.
//
// On Linux enumeration walks /proc/self/maps and symbol resolution goes
// through dlopen/dlsym; there is no direct named lookup, so name queries
// scan the traversal and stop early. On Windows named lookup is direct
// (GetModuleHandle) and enumeration reads a Toolhelp32 module snapshot.
// Either way a traversal observes a point-in-time snapshot of the loader
// state; objects loaded or unloaded concurrently may be missed.
package loaded

// Objects queries the loaded objects of the current process. The zero value
// is ready to use.
type Objects struct{}

func New() *Objects { return &Objects{} }

// MapByName finds the first loaded object matching name and applies f to
// it. It reports whether an object was found; absence is not an error.
func (o *Objects) MapByName(name string, f func(Object)) (bool, error) {
	return o.mapByName(name, f)
}

// ForEach visits every loaded object until f returns false. The Object
// passed to f is only valid for the duration of the call.
func (o *Objects) ForEach(f func(name string, obj Object) bool) error {
	return o.traverse(f)
}

// FillMap fills the entries of m with the loaded objects they request,
// using the fewest platform operations the platform allows. Entries no
// loaded object matches are left unwritten.
func (o *Objects) FillMap(m ObjectMap) error {
	return o.fillMap(m)
}

// FindByAddr finds the loaded object whose segments contain addr and
// applies f to it.
func (o *Objects) FindByAddr(addr uintptr, f func(Object)) (bool, error) {
	return findByAddr(o.traverse, addr, f)
}

// Names returns the raw names of all loaded objects, in platform
// enumeration order. The main program contributes an empty name.
func (o *Objects) Names() ([]string, error) {
	var names []string
	err := o.traverse(func(name string, _ Object) bool {
		names = append(names, name)
		return true
	})
	return names, err
}

// MapByName applies f to the first loaded object matching name and returns
// its result. Methods cannot be generic, hence the package-level form.
func MapByName[R any](o *Objects, name string, f func(Object) R) (R, bool, error) {
	var result R
	found, err := o.MapByName(name, func(obj Object) {
		result = f(obj)
	})
	return result, found, err
}

// FindMap visits every loaded object until f accepts one, returning the
// mapped value f produced for it.
func FindMap[R any](o *Objects, f func(name string, obj Object) (R, bool)) (R, bool, error) {
	var result R
	found := false
	err := o.traverse(func(name string, obj Object) bool {
		if r, ok := f(name, obj); ok {
			result = r
			found = true
			return false
		}
		return true
	})
	return result, found, err
}
