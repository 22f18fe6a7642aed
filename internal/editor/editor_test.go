package editor

import (
	"bytes"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string, onPath ...string) *Editor {
	return &Editor{
		Getenv: func(k string) string { return vars[k] },
		LookPath: func(name string) (string, error) {
			for _, p := range onPath {
				if p == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", exec.ErrNotFound
		},
	}
}

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fallback differs on windows")
	}

	tests := []struct {
		name   string
		vars   map[string]string
		onPath []string
		want   []string
	}{
		{"editor wins", map[string]string{"EDITOR": "nvim", "VISUAL": "code"}, nil, []string{"nvim"}},
		{"visual when editor empty", map[string]string{"EDITOR": "  ", "VISUAL": "code"}, nil, []string{"code"}},
		{"editor with args", map[string]string{"EDITOR": "code --wait"}, nil, []string{"code", "--wait"}},
		{"nano fallback", nil, []string{"nano"}, []string{"nano"}},
		{"vi fallback", nil, nil, []string{"vi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fakeEnv(tt.vars, tt.onPath...).Command())
		})
	}
}

func TestOpen(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	var out bytes.Buffer
	e := fakeEnv(map[string]string{"EDITOR": "echo opened"})
	e.Stdout = &out

	require.NoError(t, e.Open(t.Context(), "/ws/.wsgen/config.yaml"))
	assert.Equal(t, "opened /ws/.wsgen/config.yaml\n", out.String())
}

func TestOpen_MissingEditor(t *testing.T) {
	e := fakeEnv(map[string]string{"EDITOR": "wsgen-no-such-editor"})

	err := e.Open(t.Context(), "file")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Contains(t, err.Error(), "running editor wsgen-no-such-editor")
}
