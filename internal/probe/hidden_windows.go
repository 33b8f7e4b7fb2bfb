//go:build windows

package probe

import (
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

func isHidden(fi os.FileInfo) bool {
	if attrs, ok := fi.Sys().(*syscall.Win32FileAttributeData); ok {
		return attrs.FileAttributes&windows.FILE_ATTRIBUTE_HIDDEN != 0
	}
	return hiddenName(fi.Name())
}

// hiddenName is the fallback when no attributes are available, such as
// for an entry whose stat failed.
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
