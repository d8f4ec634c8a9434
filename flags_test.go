package loaded

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentFlagsIsRX(t *testing.T) {
	assert.True(t, (FlagRead | FlagExec).IsRX())
	assert.False(t, FlagAll.IsRX(), "a writable segment is never RX")
	assert.False(t, FlagRead.IsRX())
	assert.False(t, FlagExec.IsRX())
	assert.False(t, FlagNone.IsRX())
}

func TestSegmentFlagsSetAlgebra(t *testing.T) {
	assert.Equal(t, FlagAll, FlagRead.Union(FlagWrite).Union(FlagExec))
	assert.Equal(t, FlagRead.Union(FlagWrite.Union(FlagExec)), FlagRead.Union(FlagWrite).Union(FlagExec))
	assert.Equal(t, FlagRead, FlagAll.Intersect(FlagRead))
	assert.Equal(t, FlagNone, FlagRead.Intersect(FlagExec))
	assert.True(t, FlagAll.Contains(FlagRead|FlagExec))
	assert.False(t, FlagRead.Contains(FlagRead|FlagExec))
}

func TestSegmentFlagsBits(t *testing.T) {
	f := FlagRead | FlagExec
	assert.True(t, f.HasR())
	assert.False(t, f.HasW())
	assert.True(t, f.HasX())
	assert.Equal(t, "r-x", f.String())
	assert.Equal(t, "---", FlagNone.String())
	assert.Equal(t, "rwx", FlagAll.String())
}

func TestSegmentBounds(t *testing.T) {
	seg := Segment{Addr: 0x1000, Size: 0x2000, Flags: FlagRead}
	assert.Equal(t, uintptr(0x3000), seg.End())
	assert.True(t, seg.Contains(0x1000))
	assert.True(t, seg.Contains(0x2fff))
	assert.False(t, seg.Contains(0x3000))
	assert.False(t, seg.Contains(0xfff))
}
