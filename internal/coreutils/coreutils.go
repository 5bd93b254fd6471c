// Package coreutils holds the small utilities the shell runs in a forked
// child instead of exec'ing a binary. Each one owns the process it runs in.
package coreutils

import (
	"fmt"
	"io"
	"os"
)

// Exited is what a forked utility hands back to its caller. Exit is the only
// way to obtain one and it never returns, so code holding an Exited value is
// unreachable.
type Exited struct {
	_ [0]func()
}

// Exit terminates the process with code.
func Exit(code int) Exited {
	os.Exit(code)
	panic("unreachable")
}

// Main is the body of a utility. It returns the process exit status.
type Main func(argv []string, stdout, stderr io.Writer) int

var utilities = map[string]Main{
	"cat": cat,
	"cp":  cp,
	"ls":  ls,
	"pwd": pwd,
}

// Lookup returns the utility named name, or nil.
func Lookup(name string) Main {
	return utilities[name]
}

// Run executes argv[0] as a utility on the process's own stdio and exits.
func Run(argv []string) Exited {
	fn := Lookup(argv[0])
	if fn == nil {
		fmt.Fprintf(os.Stderr, "%s: not a builtin utility\n", argv[0])
		return Exit(127)
	}
	return Exit(fn(argv, os.Stdout, os.Stderr))
}
