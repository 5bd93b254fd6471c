package executor

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"

	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"

	"npsh/internal/coreutils"
	"npsh/internal/jobs"
)

// Names under which the shell binary re-executes itself. childName sets up
// a job before it runs; utilityName runs a forked utility with default
// signal dispositions.
const (
	childName   = "npsh-child"
	utilityName = "npsh-utility"
)

func init() {
	reexec.Register(childName, childMain)
	reexec.Register(utilityName, utilityMain)
}

// childMain runs in the new process, already in its own process group and,
// for foreground jobs, owning the terminal.
//
//	os.Args: npsh-child <mode> <redirect> -- argv...
func childMain() {
	if len(os.Args) < 5 || os.Args[3] != "--" {
		fmt.Fprintln(os.Stderr, "npsh-child: malformed invocation")
		os.Exit(jobs.StatusRedirect)
	}
	mode, redirect, argv := os.Args[1], os.Args[2], os.Args[4:]

	if err := redirectStdout(redirect); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(jobs.StatusRedirect)
	}

	if mode == ModeBuiltin.String() {
		execCommand(reexec.Self(), append([]string{utilityName}, argv...))
		return
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		os.Exit(jobs.StatusNotFound)
	}
	execCommand(path, argv)
}

func utilityMain() {
	coreutils.Run(os.Args[1:])
}

// redirectStdout truncates or creates path and makes it file descriptor 1.
func redirectStdout(path string) error {
	if path == "" {
		return nil
	}
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0o666)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// dup3 clears close-on-exec on the new descriptor
	if err := unix.Dup3(fd, unix.Stdout, 0); err != nil {
		return fmt.Errorf("dup3: %w", err)
	}
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// execCommand replaces the process image. It only returns by exiting.
func execCommand(path string, argv []string) {
	resetSignals()
	err := unix.Exec(path, argv, os.Environ())
	fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
	os.Exit(jobs.StatusNotFound)
}

// resetSignals undoes the shell's dispositions for the next image. The shell
// ignores the terminal stop signals and an ignored signal survives execve; a
// caught one is reset to its default, so catch them all before the exec.
// Forked utilities go through a second exec of the shell binary for the
// same reason.
func resetSignals() {
	signal.Notify(make(chan os.Signal, 1), append([]os.Signal{unix.SIGINT}, terminalStops...)...)
}
