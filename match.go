package loaded

import (
	"os"
	"strings"
)

// NiceName reduces a raw object name to its short form: everything after
// the last path separator and before the first '.'. The transformation is
// purely textual.
func NiceName(name string) string {
	if i := strings.LastIndexByte(name, os.PathSeparator); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

// MatchName reports whether a query name refers to the object with the
// given raw name, comparing against the raw name first and its nice name
// second.
func MatchName(objectName, name string) bool {
	return name == objectName || name == NiceName(objectName)
}
