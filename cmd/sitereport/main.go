// Package main is the entry point for the sitereport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mhollis/sitereport/cmd/sitereport/commands"
	"github.com/mhollis/sitereport/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", err)

	code := errors.ExitUser
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
	}
	os.Exit(code)
}
