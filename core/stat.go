package core

import (
	"io/fs"
	"time"
)

// Stat is a point-in-time snapshot of a node. It is a value: it does not
// track later changes to the node it was taken from.
type Stat struct {
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// StatFromFileInfo copies the fields of info into a Stat.
func StatFromFileInfo(info fs.FileInfo) Stat {
	return Stat{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}
}

// IsFile reports whether the node is a regular file.
func (s Stat) IsFile() bool { return s.Mode.IsRegular() }

// IsDirectory reports whether the node is a directory.
func (s Stat) IsDirectory() bool { return s.Mode.IsDir() }

// IsSymbolicLink reports whether the node is a symbolic link.
// Only snapshots taken with Lstat can report true.
func (s Stat) IsSymbolicLink() bool { return s.Mode&fs.ModeSymlink != 0 }

// IsBlockDevice reports whether the node is a block device.
func (s Stat) IsBlockDevice() bool {
	return s.Mode&fs.ModeDevice != 0 && s.Mode&fs.ModeCharDevice == 0
}

// IsCharacterDevice reports whether the node is a character device.
func (s Stat) IsCharacterDevice() bool {
	return s.Mode&fs.ModeDevice != 0 && s.Mode&fs.ModeCharDevice != 0
}

// IsFIFO reports whether the node is a named pipe.
func (s Stat) IsFIFO() bool { return s.Mode&fs.ModeNamedPipe != 0 }

// IsSocket reports whether the node is a Unix domain socket.
func (s Stat) IsSocket() bool { return s.Mode&fs.ModeSocket != 0 }

// LastModified returns the modification time captured in the snapshot.
func (s Stat) LastModified() time.Time { return s.ModTime }
