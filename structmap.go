package loaded

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/modern-go/reflect2"
)

// Ref records where a requested object was found.
type Ref struct {
	Name string
	Base uintptr
}

var (
	uintptrType = reflect.TypeOf(uintptr(0))
	refType     = reflect.TypeOf(Ref{})
)

// StructMap adapts a pointer to a struct into an ObjectMap. Each field
// tagged `loaded:"name1,name2"` becomes one entry whose candidate names are
// the tag's comma-separated list. Fields of type uintptr receive the base
// address of the matched object; fields of type Ref receive its name and
// base address. Fields without the tag, or tagged "-", are ignored.
func StructMap(target any) (ObjectMap, error) {
	ptrType, ok := reflect2.TypeOf(target).(*reflect2.UnsafePtrType)
	if !ok {
		return nil, ErrMapTarget
	}
	structType, ok := ptrType.Elem().(*reflect2.UnsafeStructType)
	if !ok {
		return nil, ErrMapTarget
	}
	ptr := reflect2.PtrOf(target)
	if ptr == nil {
		return nil, ErrMapTarget
	}
	t := structType.Type1()
	var entries []*structEntry
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("loaded")
		if !ok || tag == "-" {
			continue
		}
		field := structType.Field(i)
		var write func(Object)
		switch field.Type().Type1() {
		case uintptrType:
			write = func(obj Object) {
				base := obj.BaseAddr()
				field.UnsafeSet(ptr, unsafe.Pointer(&base))
			}
		case refType:
			write = func(obj Object) {
				ref := Ref{Name: obj.Name(), Base: obj.BaseAddr()}
				field.UnsafeSet(ptr, unsafe.Pointer(&ref))
			}
		default:
			return nil, fmt.Errorf("%w: field %s", ErrMapFieldType, t.Field(i).Name)
		}
		entries = append(entries, &structEntry{
			names: strings.Split(tag, ","),
			write: write,
		})
	}
	return structMap(entries), nil
}

type structEntry struct {
	names   []string
	write   func(Object)
	written bool
}

func (e *structEntry) Names() []string { return e.names }

func (e *structEntry) IsWritten() bool { return e.written }

func (e *structEntry) Write(obj Object) {
	e.write(obj)
	e.written = true
}

type structMap []*structEntry

func (m structMap) Entries(yield func(MapEntry) bool) {
	for _, e := range m {
		if !yield(e) {
			return
		}
	}
}
