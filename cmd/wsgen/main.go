// Package main is the entry point for the wsgen CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/wsgen/cmd/wsgen/commands"
	"github.com/thoreinstein/wsgen/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(errors.ExitCode(err))
}
