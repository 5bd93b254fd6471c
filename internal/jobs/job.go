package jobs

import (
	"strings"
	"syscall"
)

// Job is one command line handed to the shell and the runtime state of the
// process group that runs it.
type Job struct {
	ID         int      // slot index in the Table
	Argv       []string // never empty once parsed
	Foreground bool
	Redirect   string // stdout target, empty when not redirected
	Pgid       int    // zero until launched
	StopSignal syscall.Signal
	Line       string // the line as typed, for status messages
}

// UserID is the id shown to the user. fg and bg take this form.
func (j *Job) UserID() int {
	return j.ID + 1
}

// Launched reports whether the job owns a process group.
func (j *Job) Launched() bool {
	return j.Pgid > 0
}

// Stopped reports whether the last known state of the job is suspended.
func (j *Job) Stopped() bool {
	return j.StopSignal != 0
}

// Text returns the source line without its trailing newline.
func (j *Job) Text() string {
	return strings.TrimRight(j.Line, "\r\n")
}
