//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyQuit)
	assert.NoError(t, tf.WaitExit(2*time.Second), "q should exit cleanly")
}

func TestCtrlCExitsFromFilter(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(tf.homeWorkspace()))
	require.True(t, tf.Ready())

	tf.Press(KeyFilter)
	require.True(t, tf.HeardLast("filter mode"))

	// q types into the filter
	tf.Press(KeyQuit)
	require.True(t, tf.Heard("q, no matches"))

	tf.Press(KeyCtrlC)
	assert.NoError(t, tf.WaitExit(2*time.Second))
}
