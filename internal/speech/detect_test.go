package speech

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPathFor(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, i := range installed {
			if i == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		want      string
		wantOK    bool
	}{
		{"none", nil, "", false},
		{"espeak wins", []string{"say", "espeak-ng"}, "espeak-ng", true},
		{"speech dispatcher", []string{"spd-say"}, "spd-say", true},
		{"macos", []string{"say"}, "say", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Detect(lookPathFor(tt.installed...))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, p.Name)
		})
	}

	p, ok := Detect(lookPathFor("spd-say"))
	require.True(t, ok)
	assert.Equal(t, []string{"-w"}, p.Args)
}

func TestNewBackend(t *testing.T) {
	b := NewBackend(BackendOptions{Kind: "log"})
	assert.IsType(t, &LogBackend{}, b)
	require.NoError(t, b.Close())

	b = NewBackend(BackendOptions{Kind: "auto", LookPath: lookPathFor()})
	assert.IsType(t, &LogBackend{}, b)
	require.NoError(t, b.Close())

	b = NewBackend(BackendOptions{Kind: "auto", LookPath: lookPathFor("say")})
	require.IsType(t, &ExecBackend{}, b)
	assert.Equal(t, "say", b.(*ExecBackend).name)
	require.NoError(t, b.Close())

	b = NewBackend(BackendOptions{Kind: "command", Command: "festival", Args: []string{"--tts"}})
	require.IsType(t, &ExecBackend{}, b)
	assert.Equal(t, "festival", b.(*ExecBackend).name)
	require.NoError(t, b.Close())
}
