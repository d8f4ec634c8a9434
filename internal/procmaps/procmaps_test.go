package procmaps

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	mappings, err := Parse(`55d0e3350000-55d0e3352000 r--p 00000000 103:02 131213                    /usr/bin/cat
55d0e3352000-55d0e3357000 r-xp 00002000 103:02 131213                    /usr/bin/cat
55d0e4f66000-55d0e4f87000 rw-p 00000000 00:00 0                          [heap]
7f2f8a800000-7f2f8a801000 rw-s 00000000 103:02 1553                      /tmp/with space.so
7ffdc6b48000-7ffdc6b4a000 r-xp 00000000 00:00 0
`)
	require.NoError(t, err)
	require.Len(t, mappings, 5)

	m := mappings[0]
	assert.Equal(t, uintptr(0x55d0e3350000), m.Start)
	assert.Equal(t, uintptr(0x55d0e3352000), m.End)
	assert.True(t, m.Read)
	assert.False(t, m.Write)
	assert.False(t, m.Exec)
	assert.False(t, m.Shared)
	assert.Equal(t, uintptr(0), m.Offset)
	assert.Equal(t, "103:02", m.Dev)
	assert.Equal(t, uint64(131213), m.Inode)
	assert.Equal(t, "/usr/bin/cat", m.Path)

	assert.True(t, mappings[1].Exec)
	assert.Equal(t, uintptr(0x2000), mappings[1].Offset)
	assert.Equal(t, "[heap]", mappings[2].Path)
	assert.Equal(t, "/tmp/with space.so", mappings[3].Path, "paths keep their spaces")
	assert.True(t, mappings[3].Shared)
	assert.Empty(t, mappings[4].Path)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("55d0-55d1 r--p\n")
	assert.Error(t, err)
	_, err = Parse("xyz r--p 00000000 103:02 12\n")
	assert.Error(t, err)
	_, err = Parse("1000-2000 r--q 00000000 103:02 12\n")
	assert.Error(t, err)
	_, err = Parse("1000-2000 r--p 00000000 103:02 nope\n")
	assert.Error(t, err)
}

func TestSelf(t *testing.T) {
	mappings, err := Self()
	if errors.Is(err, fs.ErrNotExist) {
		t.Skip("/proc is not available")
	}
	require.NoError(t, err)
	assert.NotEmpty(t, mappings)
	for i := 1; i < len(mappings); i++ {
		assert.LessOrEqual(t, mappings[i-1].End, mappings[i].Start, "mappings are in address order")
	}
}
