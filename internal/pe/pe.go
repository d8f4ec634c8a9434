//go:build windows

// Package pe walks the headers of a PE image already mapped into the
// process.
package pe

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

const (
	scnMemExecute = 0x20000000
	scnMemRead    = 0x40000000
	scnMemWrite   = 0x80000000
)

type Section struct {
	Name           string
	VirtualAddress uint32
	Size           uintptr
	Read           bool
	Write          bool
	Exec           bool
}

func align[I constraints.Integer](a, b I) I {
	return (a + b - 1) &^ (b - 1)
}

// Sections reads the section table of the image mapped at base. It returns
// nil when the headers do not parse, leaving the caller to fall back to a
// whole-image view. Section sizes are rounded up to the image's section
// alignment, matching how the loader maps them.
func Sections(base uintptr) []Section {
	if base == 0 {
		return nil
	}
	dos := (*[64]byte)(unsafe.Pointer(base))
	if dos[0] != 'M' || dos[1] != 'Z' {
		return nil
	}
	peOff := *(*uint32)(unsafe.Pointer(base + 0x3c))
	nt := base + uintptr(peOff)
	if *(*uint32)(unsafe.Pointer(nt)) != 0x00004550 { // "PE\0\0"
		return nil
	}
	numSections := *(*uint16)(unsafe.Pointer(nt + 6))
	optSize := *(*uint16)(unsafe.Pointer(nt + 20))
	opt := nt + 24
	magic := *(*uint16)(unsafe.Pointer(opt))
	if magic != 0x10b && magic != 0x20b { // PE32, PE32+
		return nil
	}
	sectionAlign := *(*uint32)(unsafe.Pointer(opt + 32))
	if sectionAlign == 0 {
		sectionAlign = 0x1000
	}

	sections := make([]Section, 0, numSections)
	hdr := opt + uintptr(optSize)
	for i := uint16(0); i < numSections; i++ {
		// IMAGE_SECTION_HEADER is 40 bytes
		raw := hdr + uintptr(i)*40
		name := (*[8]byte)(unsafe.Pointer(raw))
		virtualSize := *(*uint32)(unsafe.Pointer(raw + 8))
		virtualAddr := *(*uint32)(unsafe.Pointer(raw + 12))
		characteristics := *(*uint32)(unsafe.Pointer(raw + 36))
		n := 0
		for n < len(name) && name[n] != 0 {
			n++
		}
		sections = append(sections, Section{
			Name:           string(name[:n]),
			VirtualAddress: virtualAddr,
			Size:           uintptr(align(virtualSize, sectionAlign)),
			Read:           characteristics&scnMemRead != 0,
			Write:          characteristics&scnMemWrite != 0,
			Exec:           characteristics&scnMemExecute != 0,
		})
	}
	return sections
}
