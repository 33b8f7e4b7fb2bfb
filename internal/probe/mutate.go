package probe

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ErrExists is wrapped when a rename would replace another entry
var ErrExists = fs.ErrExist

// Rename moves from to to within one directory. It refuses to replace an
// existing entry.
func (p *FSProbe) Rename(ctx context.Context, from, to string) error {
	_, err := withDeadline(ctx, p.timeout, func() (struct{}, error) {
		if _, err := p.lstat(to); err == nil {
			return struct{}{}, fmt.Errorf("rename %s: %w", filepath.Base(to), ErrExists)
		}
		return struct{}{}, p.fs.Rename(from, to)
	})
	if err != nil {
		return classify(from, err)
	}
	return nil
}

// Remove deletes path, and everything below it for a directory
func (p *FSProbe) Remove(ctx context.Context, path string) error {
	_, err := withDeadline(ctx, p.timeout, func() (struct{}, error) {
		if _, err := p.lstat(path); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, p.fs.RemoveAll(path)
	})
	if err != nil {
		return classify(path, err)
	}
	return nil
}
