package core

import (
	"os"
	"strings"
)

// NoFlags is passed to WrapPathError by operations that do not open a file.
const NoFlags = -1

// IsWriteFlag reports whether flag opens a file for writing.
func IsWriteFlag(flag int) bool {
	return flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0
}

// FlagString renders open flags in a short human-readable form, e.g.
// "O_WRONLY|O_CREATE|O_TRUNC".
func FlagString(flag int) string {
	var parts []string
	switch {
	case flag&os.O_RDWR != 0:
		parts = append(parts, "O_RDWR")
	case flag&os.O_WRONLY != 0:
		parts = append(parts, "O_WRONLY")
	default:
		parts = append(parts, "O_RDONLY")
	}

	named := []struct {
		bit  int
		name string
	}{
		{os.O_APPEND, "O_APPEND"},
		{os.O_CREATE, "O_CREATE"},
		{os.O_EXCL, "O_EXCL"},
		{os.O_SYNC, "O_SYNC"},
		{os.O_TRUNC, "O_TRUNC"},
	}
	for _, n := range named {
		if flag&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
