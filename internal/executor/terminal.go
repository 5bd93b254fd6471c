package executor

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal decides which process group owns the controlling terminal. When
// the shell is not attached to a tty every operation is a no-op.
type Terminal struct {
	fd      int
	pgid    int
	state   *term.State
	enabled bool
}

// DetachedTerminal is used when there is no terminal to control, for
// scripts, pipes and tests.
func DetachedTerminal() *Terminal {
	return &Terminal{fd: -1, pgid: unix.Getpgrp()}
}

// OpenTerminal puts the shell in its own process group, takes the terminal on
// f and records its modes. Terminal stop signals must already be ignored.
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DetachedTerminal(), nil
	}

	// A session leader is already a group leader and gets EPERM.
	if err := unix.Setpgid(0, 0); err != nil && !errors.Is(err, unix.EPERM) {
		return nil, fmt.Errorf("create process group: %w", err)
	}

	t := &Terminal{fd: fd, pgid: unix.Getpgrp(), enabled: true}
	if err := t.Claim(); err != nil {
		return nil, err
	}

	state, err := term.GetState(fd)
	if err != nil {
		return nil, fmt.Errorf("read terminal modes: %w", err)
	}
	t.state = state
	return t, nil
}

func (t *Terminal) Enabled() bool {
	return t.enabled
}

func (t *Terminal) Fd() int {
	return t.fd
}

// Pgid is the shell's own process group.
func (t *Terminal) Pgid() int {
	return t.pgid
}

// Give makes pgid the foreground process group of the terminal.
func (t *Terminal) Give(pgid int) error {
	if !t.enabled {
		return nil
	}
	if err := unix.IoctlSetPointerInt(t.fd, unix.TIOCSPGRP, pgid); err != nil {
		return fmt.Errorf("set terminal foreground group %d: %w", pgid, err)
	}
	return nil
}

// Claim returns the terminal to the shell.
func (t *Terminal) Claim() error {
	return t.Give(t.pgid)
}

// Owner returns the terminal's current foreground process group.
func (t *Terminal) Owner() (int, error) {
	if !t.enabled {
		return t.pgid, nil
	}
	return unix.IoctlGetInt(t.fd, unix.TIOCGPGRP)
}

// Restore puts back the modes saved when the terminal was opened, undoing
// anything a job left behind.
func (t *Terminal) Restore() error {
	if !t.enabled || t.state == nil {
		return nil
	}
	return term.Restore(t.fd, t.state)
}
