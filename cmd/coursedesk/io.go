package main

import (
	"os"
	"runtime"

	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/n2code/coursedesk/internal/config"
	"github.com/n2code/coursedesk/internal/opener"
)

// newSystemApp wires the app to the real filesystem and the process' standard streams.
// Escape sequences are only used if the output is a terminal.
func newSystemApp() *app {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	wd, _ := os.Getwd()
	return &app{
		fs:      afero.NewOsFs(),
		env:     config.Environment{Home: home, OS: runtime.GOOS},
		wd:      wd,
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		escapes: term.IsTerminal(int(os.Stdout.Fd())),
		run:     opener.ExecRunner(os.Stdout, os.Stderr),
	}
}
