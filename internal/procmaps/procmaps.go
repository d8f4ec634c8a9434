// Package procmaps parses the /proc/[pid]/maps format described in
// proc(5).
package procmaps

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Mapping struct {
	Start, End uintptr
	Read       bool
	Write      bool
	Exec       bool
	Shared     bool
	Offset     uintptr
	Dev        string
	Inode      uint64
	Path       string
}

// Self returns the mappings of the current process, in address order.
func Self() ([]Mapping, error) {
	data, err := os.ReadFile("/proc/self/maps")
	if err != nil {
		return nil, fmt.Errorf("read /proc/self/maps: %w", err)
	}
	return Parse(string(data))
}

func Parse(data string) ([]Mapping, error) {
	var mappings []Mapping
	for i, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, fmt.Errorf("maps line %d: got %d fields, want at least 5", i, len(fields))
		}
		var m Mapping
		start, end, ok := strings.Cut(fields[0], "-")
		if !ok {
			return nil, fmt.Errorf("maps line %d: bad address range %q", i, fields[0])
		}
		startAddr, err := strconv.ParseUint(start, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("maps line %d: start address: %w", i, err)
		}
		endAddr, err := strconv.ParseUint(end, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("maps line %d: end address: %w", i, err)
		}
		m.Start = uintptr(startAddr)
		m.End = uintptr(endAddr)
		for _, c := range fields[1] {
			switch c {
			case 'r':
				m.Read = true
			case 'w':
				m.Write = true
			case 'x':
				m.Exec = true
			case 's':
				m.Shared = true
			case 'p', '-':
			default:
				return nil, fmt.Errorf("maps line %d: bad permission %q", i, fields[1])
			}
		}
		offset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("maps line %d: offset: %w", i, err)
		}
		m.Offset = uintptr(offset)
		m.Dev = fields[3]
		m.Inode, err = strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("maps line %d: inode: %w", i, err)
		}
		if len(fields) > 5 {
			m.Path = strings.Join(fields[5:], " ")
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}
