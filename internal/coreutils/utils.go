package coreutils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	exitOK    = 0
	exitError = 1
)

func cat(argv []string, stdout, stderr io.Writer) int {
	if len(argv) != 2 {
		fmt.Fprintln(stderr, "cat: expected a filename")
		return exitError
	}

	f, err := os.Open(argv[1])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv[1], err)
		return exitError
	}
	defer f.Close()

	if _, err := io.Copy(stdout, f); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv[1], err)
		return exitError
	}
	return exitOK
}

func cp(argv []string, _ io.Writer, stderr io.Writer) int {
	if len(argv) != 3 {
		fmt.Fprintln(stderr, "usage: cp filea fileb")
		return exitError
	}

	src, err := os.Open(argv[1])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv[1], err)
		return exitError
	}
	defer src.Close()

	dst, err := os.OpenFile(argv[2], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv[2], err)
		return exitError
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		fmt.Fprintf(stderr, "%s: %v\n", argv[2], err)
		return exitError
	}
	if err := dst.Close(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv[2], err)
		return exitError
	}
	return exitOK
}

func pwd(argv []string, stdout, stderr io.Writer) int {
	if len(argv) != 1 {
		fmt.Fprintln(stderr, "pwd: no arguments expected")
		return exitError
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(stderr, "pwd:", err)
		return exitError
	}
	if _, err := fmt.Fprintln(stdout, dir); err != nil {
		fmt.Fprintln(stderr, "pwd:", err)
		return exitError
	}
	return exitOK
}

// ls lists the current directory, hiding dot files.
func ls(argv []string, stdout, stderr io.Writer) int {
	if len(argv) != 1 {
		fmt.Fprintln(stderr, "ls: no arguments expected")
		return exitError
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		fmt.Fprintln(stderr, "ls (./):", err)
		return exitError
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := fmt.Fprintln(stdout, e.Name()); err != nil {
			fmt.Fprintln(stderr, "ls (stdout):", err)
			return exitError
		}
	}
	return exitOK
}
