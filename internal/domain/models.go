package domain

import (
	"io/fs"
	"time"
)

// Kind classifies a directory entry
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	KindSpecial
	KindInaccessible
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindSpecial:
		return "special"
	case KindInaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}

// Entry is an immutable snapshot of one directory entry
type Entry struct {
	Path     string
	Name     string
	Kind     Kind
	Target   Kind           // resolved kind for symlinks
	Broken   bool           // symlink whose target does not resolve
	Failure  ProbeErrorKind // recorded error for inaccessible entries
	Size     int64
	HasSize  bool
	Modified time.Time
	Mode     fs.FileMode
	Hidden   bool
}

// IsDir reports whether entering the entry should list a directory
func (e Entry) IsDir() bool {
	if e.Kind == KindSymlink {
		return !e.Broken && e.Target == KindDirectory
	}
	return e.Kind == KindDirectory
}

// IsFile reports whether the entry (or the symlink target) is a regular file
func (e Entry) IsFile() bool {
	if e.Kind == KindSymlink {
		return !e.Broken && e.Target == KindFile
	}
	return e.Kind == KindFile
}

// Listing is the result of probing one directory. Entries is complete unless
// Err is set, in which case it holds whatever could be read.
type Listing struct {
	Path     string
	Entries  []Entry
	LoadedAt time.Time
	Err      *ProbeError
}

// Partial reports whether the listing was cut short by a read error
func (l Listing) Partial() bool {
	return l.Err != nil
}

// Index returns the position of the entry with the given name, or -1
func (l Listing) Index(name string) int {
	for i := range l.Entries {
		if l.Entries[i].Name == name {
			return i
		}
	}
	return -1
}
