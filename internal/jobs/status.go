package jobs

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Shell-visible exit statuses. 0-255 come from the process itself, 128+sig
// from a fatal signal, and 200 and above are the shell's own markers.
const (
	StatusSuccess     = 0
	StatusFailure     = 1
	StatusSyntax      = 2
	StatusNotFound    = 127
	StatusSignalBase  = 128
	StatusLost        = 200
	StatusStoppedBase = 200
	StatusRedirect    = 255
)

// State is what a wait on a job's process group reported.
type State int

const (
	Running State = iota
	Exited
	Signaled
	Stopped
	Lost
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Signaled:
		return "signaled"
	case Stopped:
		return "stopped"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is one state change of a job.
type Event struct {
	State  State
	Code   int            // exit code, valid for Exited
	Signal syscall.Signal // valid for Signaled and Stopped
}

// FromWaitStatus classifies a status returned by wait4.
func FromWaitStatus(ws unix.WaitStatus) Event {
	switch {
	case ws.Exited():
		return Event{State: Exited, Code: ws.ExitStatus()}
	case ws.Signaled():
		return Event{State: Signaled, Signal: ws.Signal()}
	case ws.Stopped():
		return Event{State: Stopped, Signal: ws.StopSignal()}
	default:
		return Event{State: Running}
	}
}

// Terminal reports whether the job is finished and its slot must be released.
func (e Event) Terminal() bool {
	return e.State == Exited || e.State == Signaled || e.State == Lost
}

// ShellStatus encodes the event as the shell's last exit status.
func (e Event) ShellStatus() int {
	switch e.State {
	case Exited:
		return e.Code
	case Signaled:
		return StatusSignalBase + int(e.Signal)
	case Stopped:
		return StatusStoppedBase + int(e.Signal)
	case Lost:
		return StatusLost
	default:
		return StatusSuccess
	}
}
