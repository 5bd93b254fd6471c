package executor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"npsh/internal/jobs"
)

type waitResult struct {
	pid    int
	status unix.WaitStatus
	err    error
}

// waitGroup blocks until a member of the process group changes state. It is
// the only call in the foreground path that blocks the shell.
func waitGroup(pgid int) waitResult {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-pgid, &ws, unix.WUNTRACED, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return waitResult{pid: pid, status: ws, err: err}
	}
}

// Supervise makes j the foreground job and waits for it to exit, die or stop.
// Interrupts received meanwhile are forwarded to its process group. The
// terminal is returned to the shell afterwards and the outcome becomes the
// shell's last status.
func (sh *Shell) Supervise(j *jobs.Job) {
	sh.Jobs.SetForeground(j.ID)
	drainInterrupts(sh.interrupts)

	done := make(chan waitResult, 1)
	go func(pgid int) {
		done <- waitGroup(pgid)
	}(j.Pgid)

	var res waitResult
wait:
	for {
		select {
		case sig := <-sh.interrupts:
			sh.forward(sig)
		case res = <-done:
			break wait
		}
	}

	if err := sh.tty.Claim(); err != nil {
		sh.log.Warn("reclaim terminal", "err", err)
	}

	ev := jobs.Event{State: jobs.Lost}
	if res.err == nil {
		ev = jobs.FromWaitStatus(res.status)
	}
	sh.finishForeground(j, ev, res.err)
}

func (sh *Shell) finishForeground(j *jobs.Job, ev jobs.Event, waitErr error) {
	jid := j.UserID()

	switch ev.State {
	case jobs.Exited, jobs.Signaled:
		sh.Jobs.Release(j.ID)
		sh.Status = ev.ShellStatus()
	case jobs.Stopped:
		j.Foreground = false
		j.StopSignal = ev.Signal
		sh.Jobs.ClearForeground()
		fmt.Fprintf(sh.Out, "[%d] suspended (%d) from foreground\n", jid, int(ev.Signal))
		sh.Status = ev.ShellStatus()
	case jobs.Lost:
		sh.log.Warn("foreground job is no longer a child", "jid", jid, "pgid", j.Pgid, "err", waitErr)
		sh.Jobs.Release(j.ID)
		sh.Status = jobs.StatusLost
	default:
		// WUNTRACED without WCONTINUED never reports anything else
		sh.log.Warn("unexpected wait outcome", "jid", jid, "pgid", j.Pgid)
		sh.Jobs.ClearForeground()
		sh.Status = jobs.StatusLost
	}

	sh.log.Debug("foreground job changed state",
		"jid", jid,
		"state", ev.State.String(),
		"status", sh.Status,
	)
}
