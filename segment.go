package loaded

// Segment is one mapped region of a loaded object. It is a plain value and
// stays meaningful after the enumeration that produced it ends, though the
// memory it describes may not.
type Segment struct {
	Addr  uintptr
	Size  uintptr
	Flags SegmentFlags
}

func (s Segment) End() uintptr { return s.Addr + s.Size }

func (s Segment) Contains(addr uintptr) bool { return addr >= s.Addr && addr < s.End() }
