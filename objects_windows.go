//go:build windows

package loaded

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wnxd/loaded/internal/pe"
)

// traverse enumerates the modules of a Toolhelp32 snapshot. The snapshot is
// taken at call start and released on every exit path.
func (o *Objects) traverse(f func(string, Object) bool) error {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("module snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	exe, err := mainModule()
	if err != nil {
		return fmt.Errorf("module snapshot: %w", err)
	}
	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Module32First(snapshot, &entry); err == nil; err = windows.Module32Next(snapshot, &entry) {
		obj := windowsObject{
			handle: windows.Handle(entry.ModBaseAddr),
			size:   entry.ModBaseSize,
		}
		if obj.handle != exe {
			obj.name = windows.UTF16ToString(entry.ExePath[:])
		}
		if !f(obj.name, &obj) {
			return nil
		}
	}
	if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return nil
	}
	return fmt.Errorf("module snapshot: %w", err)
}

// mapByName uses the loader's own named lookup instead of a snapshot.
func (o *Objects) mapByName(name string, f func(Object)) (bool, error) {
	return o.lookup(name, f)
}

func (o *Objects) fillMap(m ObjectMap) error {
	return fillByLookup(o.lookup, m)
}

func (o *Objects) lookup(name string, f func(Object)) (bool, error) {
	var modname *uint16
	if name != "" {
		var err error
		modname, err = windows.UTF16PtrFromString(name)
		if err != nil {
			return false, nil
		}
	}
	var handle windows.Handle
	err := windows.GetModuleHandleEx(windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT, modname, &handle)
	if err != nil {
		if errors.Is(err, windows.ERROR_MOD_NOT_FOUND) {
			return false, nil
		}
		return false, fmt.Errorf("module lookup %s: %w", name, err)
	}
	var info windows.ModuleInfo
	err = windows.GetModuleInformation(windows.CurrentProcess(), handle, &info, uint32(unsafe.Sizeof(info)))
	if err != nil {
		return false, fmt.Errorf("module information %s: %w", name, err)
	}
	exe, err := mainModule()
	if err != nil {
		return false, fmt.Errorf("module lookup %s: %w", name, err)
	}
	obj := windowsObject{handle: handle, size: info.SizeOfImage}
	if handle != exe {
		obj.name = name
	}
	f(&obj)
	return true, nil
}

// mainModule returns the handle of the executable's own module without
// taking a loader reference.
func mainModule() (windows.Handle, error) {
	var handle windows.Handle
	err := windows.GetModuleHandleEx(windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT, nil, &handle)
	return handle, err
}

type windowsObject struct {
	name   string // raw name; empty for the main program
	handle windows.Handle
	size   uint32
}

func (obj *windowsObject) Name() string { return obj.name }

func (obj *windowsObject) IsMainProgram() bool { return obj.name == "" }

func (obj *windowsObject) BaseAddr() uintptr { return uintptr(obj.handle) }

// Segments walks the in-memory section table. When the image headers do not
// parse it degrades to a single read+execute segment spanning the image.
func (obj *windowsObject) Segments(yield func(Segment) bool) {
	base := uintptr(obj.handle)
	sections := pe.Sections(base)
	if len(sections) == 0 {
		yield(Segment{Addr: base, Size: uintptr(obj.size), Flags: FlagRead | FlagExec})
		return
	}
	for _, s := range sections {
		var flags SegmentFlags
		if s.Read {
			flags |= FlagRead
		}
		if s.Write {
			flags |= FlagWrite
		}
		if s.Exec {
			flags |= FlagExec
		}
		seg := Segment{Addr: base + uintptr(s.VirtualAddress), Size: s.Size, Flags: flags}
		if !yield(seg) {
			return
		}
	}
}

func (obj *windowsObject) Symbols() (Symbols, error) {
	return &moduleSymbols{handle: obj.handle}, nil
}

// moduleSymbols resolves through GetProcAddress on the module handle. The
// scoped handle holds no loader reference; only promotion takes one.
type moduleSymbols struct {
	handle windows.Handle
}

func (s *moduleSymbols) Symbol(name string) uintptr {
	addr, err := windows.GetProcAddress(s.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (s *moduleSymbols) Library() (Library, error) {
	var handle windows.Handle
	err := windows.GetModuleHandleEx(
		windows.GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS,
		(*uint16)(unsafe.Pointer(uintptr(s.handle))),
		&handle,
	)
	if err != nil {
		return nil, fmt.Errorf("module reference: %w", err)
	}
	return &ownedModule{handle: handle}, nil
}

func (s *moduleSymbols) Close() error { return nil }

type ownedModule struct {
	handle windows.Handle
}

func (l *ownedModule) BaseAddr() uintptr { return uintptr(l.handle) }

func (l *ownedModule) Symbol(name string) uintptr {
	addr, err := windows.GetProcAddress(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (l *ownedModule) Close() error {
	if l.handle == 0 {
		return nil
	}
	handle := l.handle
	l.handle = 0
	return windows.FreeLibrary(handle)
}
