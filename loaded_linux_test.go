//go:build linux

package loaded

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/loaded/internal/dl"
)

func TestForEachMainProgram(t *testing.T) {
	objects := New()
	mains := 0
	err := objects.ForEach(func(name string, obj Object) bool {
		if obj.IsMainProgram() {
			assert.Empty(t, name)
			mains++
		}
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mains, "exactly one main program")
}

func TestMapByNameAbsent(t *testing.T) {
	objects := New()
	found, err := objects.MapByName("\x00-cannot-exist", func(Object) {
		t.Fatal("callback invoked for an absent name")
	})
	require.NoError(t, err, "not-found is not an error")
	assert.False(t, found)
}

func TestMainProgramHasRXSegment(t *testing.T) {
	objects := New()
	rx := false
	err := objects.ForEach(func(_ string, obj Object) bool {
		if !obj.IsMainProgram() {
			return true
		}
		obj.Segments(func(seg Segment) bool {
			rx = seg.Flags.IsRX()
			return !rx
		})
		return false
	})
	require.NoError(t, err)
	assert.True(t, rx, "the main program maps at least one r-x segment")
}

func TestFindByAddrSelf(t *testing.T) {
	objects := New()
	pc := reflect.ValueOf(TestFindByAddrSelf).Pointer()
	var main bool
	found, err := objects.FindByAddr(pc, func(obj Object) {
		main = obj.IsMainProgram()
	})
	require.NoError(t, err)
	require.True(t, found, "own code address belongs to a loaded object")
	assert.True(t, main)
}

func TestNamesIncludesMainProgram(t *testing.T) {
	objects := New()
	names, err := objects.Names()
	require.NoError(t, err)
	assert.Contains(t, names, "")
}

func TestFillMapMainProgram(t *testing.T) {
	objects := New()
	main := NewSlot(Object.BaseAddr, "")
	missing := NewSlot(Object.BaseAddr, "\x00-cannot-exist")
	require.NoError(t, objects.FillMap(Slots[uintptr]{main, missing}))
	_, ok := main.Get()
	assert.True(t, ok)
	_, ok = missing.Get()
	assert.False(t, ok)
}

func TestFindMapGeneric(t *testing.T) {
	objects := New()
	base, found, err := FindMap(objects, func(_ string, obj Object) (uintptr, bool) {
		return obj.BaseAddr(), obj.IsMainProgram()
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotZero(t, base)
}

func TestMainProgramSymbols(t *testing.T) {
	objects := New()
	var syms Symbols
	var symErr error
	found, err := objects.MapByName("", func(obj Object) {
		syms, symErr = obj.Symbols()
	})
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, symErr)
	require.NotNil(t, syms)
	defer syms.Close()

	assert.Zero(t, syms.Symbol("symbol-that-cannot-exist"), "an absent symbol is not an error")

	lib, err := syms.Library()
	require.NoError(t, err)
	assert.NotZero(t, lib.BaseAddr())
	assert.NoError(t, lib.Close())
	assert.NoError(t, syms.Close())
}

func TestTraverseExeLookupFailure(t *testing.T) {
	fail := errors.New("readlink failed")
	restore := readlink
	readlink = func(string) (string, error) { return "", fail }
	defer func() { readlink = restore }()

	err := New().ForEach(func(string, Object) bool { return true })
	assert.ErrorIs(t, err, fail, "an undetectable main program aborts the traversal instead of losing the empty-name convention")
}

func TestSymbolsPromotionTransfersOwnership(t *testing.T) {
	syms := &dlSymbols{base: 1, lib: &dl.Library{}}
	lib, err := syms.Library()
	require.NoError(t, err)

	_, err = syms.Library()
	assert.ErrorIs(t, err, ErrSymbolsReleased, "promotion transfers, it does not duplicate")
	assert.NoError(t, syms.Close())
	assert.NoError(t, lib.Close())
}
