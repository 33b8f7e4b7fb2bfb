//go:build !windows

package probe

import (
	"os"
	"strings"
)

func isHidden(fi os.FileInfo) bool {
	return hiddenName(fi.Name())
}

func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
