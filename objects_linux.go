//go:build linux

package loaded

import (
	"fmt"
	"os"

	"github.com/wnxd/loaded/internal/dl"
	"github.com/wnxd/loaded/internal/procmaps"
)

// seam for tests
var readlink = os.Readlink

// traverse walks /proc/self/maps, grouping file-backed mappings by path
// into objects. The maps file is read once per traversal, so a pass
// observes a point-in-time snapshot of the loader state.
func (o *Objects) traverse(f func(string, Object) bool) error {
	mappings, err := procmaps.Self()
	if err != nil {
		return err
	}
	exe, err := readlink("/proc/self/exe")
	if err != nil {
		return fmt.Errorf("read /proc/self/exe: %w", err)
	}
	visited := make(map[string]bool)
	for i := 0; i < len(mappings); {
		path := mappings[i].Path
		if path == "" || path[0] != '/' || visited[path] {
			i++
			continue
		}
		visited[path] = true
		obj := linuxObject{path: path, base: mappings[i].Start}
		for ; i < len(mappings) && mappings[i].Path == path; i++ {
			m := mappings[i]
			obj.segs = append(obj.segs, Segment{
				Addr:  m.Start,
				Size:  m.End - m.Start,
				Flags: mappingFlags(m),
			})
		}
		if path != exe {
			obj.name = path
		}
		if !f(obj.name, &obj) {
			return nil
		}
	}
	return nil
}

// There is no direct named lookup in the loader, so name queries scan the
// traversal and stop at the first match.
func (o *Objects) mapByName(name string, f func(Object)) (bool, error) {
	return mapByTraversal(o.traverse, name, f)
}

func (o *Objects) fillMap(m ObjectMap) error {
	return fillByTraversal(o.traverse, m)
}

func mappingFlags(m procmaps.Mapping) SegmentFlags {
	var flags SegmentFlags
	if m.Read {
		flags |= FlagRead
	}
	if m.Write {
		flags |= FlagWrite
	}
	if m.Exec {
		flags |= FlagExec
	}
	return flags
}

type linuxObject struct {
	name string // raw name; empty for the main program
	path string // filesystem path the loader knows the object by
	base uintptr
	segs []Segment
}

func (obj *linuxObject) Name() string { return obj.name }

func (obj *linuxObject) IsMainProgram() bool { return obj.name == "" }

func (obj *linuxObject) BaseAddr() uintptr { return obj.base }

func (obj *linuxObject) Segments(yield func(Segment) bool) {
	for _, seg := range obj.segs {
		if !yield(seg) {
			return
		}
	}
}

func (obj *linuxObject) Symbols() (Symbols, error) {
	if obj.name == "" {
		// The executable cannot be re-opened by path; resolve through the
		// global scope instead.
		return &mainSymbols{base: obj.base}, nil
	}
	lib, err := dl.OpenLoaded(obj.path)
	if err != nil {
		return nil, fmt.Errorf("reopen loaded object: %w", err)
	}
	return &dlSymbols{base: obj.base, lib: lib}, nil
}

type dlSymbols struct {
	base uintptr
	lib  *dl.Library
}

func (s *dlSymbols) Symbol(name string) uintptr { return s.lib.Sym(name) }

func (s *dlSymbols) Library() (Library, error) {
	if s.lib == nil {
		return nil, ErrSymbolsReleased
	}
	lib := &dlLibrary{base: s.base, lib: s.lib}
	s.lib = nil
	return lib, nil
}

func (s *dlSymbols) Close() error {
	lib := s.lib
	s.lib = nil
	return lib.Close()
}

type dlLibrary struct {
	base uintptr
	lib  *dl.Library
}

func (l *dlLibrary) BaseAddr() uintptr { return l.base }

func (l *dlLibrary) Symbol(name string) uintptr { return l.lib.Sym(name) }

func (l *dlLibrary) Close() error { return l.lib.Close() }

// mainSymbols resolves against the global scope on behalf of the main
// program. It holds no loader reference, so Close and promotion are free.
type mainSymbols struct {
	base uintptr
}

func (s *mainSymbols) Symbol(name string) uintptr { return dl.Default(name) }

func (s *mainSymbols) Library() (Library, error) { return &mainLibrary{base: s.base}, nil }

func (s *mainSymbols) Close() error { return nil }

type mainLibrary struct {
	base uintptr
}

func (l *mainLibrary) BaseAddr() uintptr { return l.base }

func (l *mainLibrary) Symbol(name string) uintptr { return dl.Default(name) }

func (l *mainLibrary) Close() error { return nil }
