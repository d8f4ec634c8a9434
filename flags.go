package loaded

type SegmentFlags int

const (
	FlagNone SegmentFlags = 0
	FlagRead SegmentFlags = 1 << (iota - 1)
	FlagWrite
	FlagExec

	FlagAll = FlagRead | FlagWrite | FlagExec
)

func (f SegmentFlags) HasR() bool { return f&FlagRead != 0 }

func (f SegmentFlags) HasW() bool { return f&FlagWrite != 0 }

func (f SegmentFlags) HasX() bool { return f&FlagExec != 0 }

// IsRX reports whether the flags are exactly read+execute. A writable
// segment is never RX, even if it is also readable and executable.
func (f SegmentFlags) IsRX() bool { return f == FlagRead|FlagExec }

func (f SegmentFlags) Union(other SegmentFlags) SegmentFlags { return f | other }

func (f SegmentFlags) Intersect(other SegmentFlags) SegmentFlags { return f & other }

func (f SegmentFlags) Contains(other SegmentFlags) bool { return f&other == other }

func (f SegmentFlags) String() string {
	buf := [3]byte{'-', '-', '-'}
	if f.HasR() {
		buf[0] = 'r'
	}
	if f.HasW() {
		buf[1] = 'w'
	}
	if f.HasX() {
		buf[2] = 'x'
	}
	return string(buf[:])
}
