package loaded

import "io"

// Object is a view of one loaded code object. It is only valid inside the
// enumeration callback that produced it; code that needs the object past
// the callback must promote it through Symbols into a Library.
type Object interface {
	// Name returns the raw object name. It is empty for the main program.
	Name() string
	IsMainProgram() bool
	BaseAddr() uintptr
	// Segments visits the object's mapped segments until yield returns false.
	Segments(yield func(Segment) bool)
	// Symbols re-opens the object for symbol resolution. It fails when the
	// loader can no longer resolve the object's own recorded name.
	Symbols() (Symbols, error)
}

// Symbols resolves symbol names within one object. The handle is scoped to
// the call that created it and must be closed unless promoted.
type Symbols interface {
	io.Closer
	// Symbol returns the address of the named symbol, or 0 if the object
	// does not export it. An absent symbol is not an error.
	Symbol(name string) uintptr
	// Library promotes the handle into an independently owned Library,
	// transferring ownership of the underlying loader reference. After a
	// successful promotion the Symbols handle is released and Close is a
	// no-op.
	Library() (Library, error)
}

// Library is an owned, refcounted hold on a loaded object that outlives the
// enumeration pass. Close releases the loader reference exactly once.
type Library interface {
	io.Closer
	BaseAddr() uintptr
	Symbol(name string) uintptr
}
