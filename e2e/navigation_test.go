//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrivalIsAnnounced(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready(), "should announce the start directory")
	assert.True(t, tf.Heard("entering workspace, 2 items. Documents, folder"))
}

func TestMoveToBottom(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyDown)
	require.True(t, tf.HeardLast("report.pdf, file, 1 KB"))

	tf.Press(KeyDown)
	assert.True(t, tf.HeardLast("bottom of list"))

	tf.Press(KeyUp, KeyUp)
	assert.True(t, tf.HeardLast("top of list"))
}

func TestEnterAndGoBack(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyEnter)
	require.True(t, tf.HeardLast("entering Documents, 1 item. letter.txt, file, 12 bytes"))

	tf.Press(KeyBackspace)
	assert.True(t, tf.HeardLast("up to workspace, 2 items. Documents, folder"))

	tf.Press("f")
	assert.True(t, tf.Heard("forward to Documents"))
}

func TestFilterSpeaksSettledText(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyFilter)
	require.True(t, tf.HeardLast("filter mode"))

	// typed faster than the echo window
	require.NoError(t, tf.SendKeys("rep"))
	require.True(t, tf.HeardLast("rep, 1 match"))
	for _, s := range tf.Spoken() {
		assert.NotEqual(t, "r, 1 match", s)
	}

	tf.Press(KeyEsc)
	assert.True(t, tf.Heard("filter off. report.pdf, file, 1 KB"))
}

func TestLayoutSwitch(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyCtrlL)
	require.True(t, tf.HeardLast("layout ru"))

	// о is on the j key
	tf.Press("о")
	assert.True(t, tf.HeardLast("report.pdf, file, 1 KB"))
}
