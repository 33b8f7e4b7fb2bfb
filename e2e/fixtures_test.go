//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

// CreateWorkspace creates a temporary directory holding files, keyed by
// relative path. Names ending in "/" are created as directories.
func (tf *TUITestFramework) CreateWorkspace(files map[string]int) string {
	tf.t.Helper()
	root := filepath.Join(tf.t.TempDir(), "workspace")
	if err := os.MkdirAll(root, 0o755); err != nil {
		tf.t.Fatalf("create workspace: %v", err)
	}
	for name, size := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				tf.t.Fatalf("create %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tf.t.Fatalf("create %s: %v", name, err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			tf.t.Fatalf("write %s: %v", name, err)
		}
	}
	tf.workspace = root
	return root
}

// homeWorkspace mirrors the classic scenario: a Documents folder and a
// 1 KB report.pdf
func (tf *TUITestFramework) homeWorkspace() string {
	return tf.CreateWorkspace(map[string]int{
		"Documents/":           0,
		"Documents/letter.txt": 12,
		"report.pdf":           1024,
	})
}
