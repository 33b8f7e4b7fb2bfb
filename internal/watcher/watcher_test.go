package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(WithDebounce(50 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	return w
}

func TestBurstIsReportedOnce(t *testing.T) {
	dir := t.TempDir()
	w := start(t, dir)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	select {
	case got := <-w.Changes():
		assert.Equal(t, filepath.Clean(dir), got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Fatalf("unexpected second notification for %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSwitchingDirectoryIgnoresOldOne(t *testing.T) {
	old := t.TempDir()
	cur := t.TempDir()
	w := start(t, old)
	require.NoError(t, w.Watch(cur))
	assert.Equal(t, filepath.Clean(cur), w.Dir())

	require.NoError(t, os.WriteFile(filepath.Join(old, "x"), nil, 0o644))
	select {
	case got := <-w.Changes():
		t.Fatalf("change reported for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(cur, "y"), nil, 0o644))
	select {
	case got := <-w.Changes():
		assert.Equal(t, filepath.Clean(cur), got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "gone")))
	assert.Empty(t, w.Dir())
}

func TestRelevant(t *testing.T) {
	w := &Watcher{}
	assert.True(t, w.relevant(fsnotify.Event{Name: "/a/b", Op: fsnotify.Create}, "/a"))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/a", Op: fsnotify.Remove}, "/a"))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/a/b/c", Op: fsnotify.Write}, "/a"))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/a/b", Op: fsnotify.Chmod}, "/a"))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/a/b", Op: fsnotify.Create}, ""))
}
