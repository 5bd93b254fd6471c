package executor

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// terminalStops are ignored by the shell so that only its foreground child is
// suspended from the keyboard, and so that it may reclaim the terminal from
// the background without being stopped itself.
var terminalStops = []os.Signal{unix.SIGTSTP, unix.SIGTTOU, unix.SIGTTIN}

// InstallSignals sets the shell's dispositions and returns the channel that
// interrupts are delivered on. Interrupts are consumed by the foreground
// supervisor on the main goroutine; the handler itself only enqueues.
func InstallSignals() (<-chan os.Signal, func()) {
	signal.Ignore(terminalStops...)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT)

	stop := func() {
		signal.Stop(ch)
		signal.Reset(append([]os.Signal{unix.SIGINT}, terminalStops...)...)
	}
	return ch, stop
}

// drainInterrupts discards interrupts that arrived while no job was in the
// foreground, so they are not forwarded to the next one.
func drainInterrupts(ch <-chan os.Signal) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// forward sends an interrupt to the current foreground group. The job is
// looked up again each time since the table may have changed.
func (sh *Shell) forward(sig os.Signal) {
	fg := sh.Jobs.Foreground()
	if fg == nil || !fg.Launched() {
		return
	}
	s, ok := sig.(unix.Signal)
	if !ok {
		return
	}
	sh.log.Debug("forwarding signal", "signal", s.String(), "jid", fg.UserID(), "pgid", fg.Pgid)
	_ = unix.Kill(-fg.Pgid, s)
}
