package generator

import (
	"bytes"

	"github.com/thoreinstein/wsgen/internal/toolchain"
)

// LaunchScript is a cmd.exe batch file that enters the workspace root,
// exports the toolchain location and opens an interactive shell.
type LaunchScript struct {
	Root     string
	Variable string
	Value    string
}

// NewLaunchScript builds the launch script for root and tc.
func NewLaunchScript(root string, tc toolchain.Spec) *LaunchScript {
	return &LaunchScript{
		Root:     root,
		Variable: tc.Env,
		Value:    tc.Path(root),
	}
}

// Lines returns the script lines without terminators.
func (s *LaunchScript) Lines() []string {
	return []string{
		"@echo off",
		"cd /d " + s.Root,
		"set " + s.Variable + "=" + s.Value,
		"cmd",
	}
}

// Bytes renders the script with CRLF line endings.
func (s *LaunchScript) Bytes() []byte {
	var b bytes.Buffer
	for _, line := range s.Lines() {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.Bytes()
}
