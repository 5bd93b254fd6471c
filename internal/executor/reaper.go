package executor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"npsh/internal/jobs"
)

const pollFlags = unix.WNOHANG | unix.WUNTRACED

// Reap collects every child that changed state since the last call and
// reports the ones that belong to a job. It never blocks. Children that match
// no job are discarded silently.
func (sh *Shell) Reap() {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, pollFlags, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || pid <= 0 {
			return
		}

		j := sh.Jobs.LookupPgid(pid)
		if j == nil {
			sh.log.Debug("reaped child without a job", "pid", pid)
			continue
		}
		sh.report(j, jobs.FromWaitStatus(ws))
	}
}

// Poll checks a single background job without blocking and always prints
// one line for it, unless the job turns out to be detached.
func (sh *Shell) Poll(j *jobs.Job) {
	var ws unix.WaitStatus
	pid, err := unix.Wait4(-j.Pgid, &ws, pollFlags, nil)
	for errors.Is(err, unix.EINTR) {
		pid, err = unix.Wait4(-j.Pgid, &ws, pollFlags, nil)
	}

	switch {
	case err != nil:
		sh.log.Debug("background job detached", "jid", j.UserID(), "pgid", j.Pgid, "err", err)
		sh.Jobs.Release(j.ID)
	case pid == 0:
		sh.report(j, jobs.Event{State: jobs.Running})
	default:
		sh.report(j, jobs.FromWaitStatus(ws))
	}
}

// report prints the state of a background job and releases it once it has
// terminated.
func (sh *Shell) report(j *jobs.Job, ev jobs.Event) {
	jid, line := j.UserID(), j.Text()

	switch ev.State {
	case jobs.Running:
		if j.Stopped() {
			fmt.Fprintf(sh.Out, "[%d] suspended by signal %d\t\t%s\n", jid, int(j.StopSignal), line)
		} else {
			fmt.Fprintf(sh.Out, "[%d] running\t\t\t\t%s\n", jid, line)
		}
		return
	case jobs.Exited:
		fmt.Fprintf(sh.Out, "[%d] exited with status %d\t\t%s\n", jid, ev.Code, line)
	case jobs.Signaled:
		fmt.Fprintf(sh.Out, "[%d] terminated by signal %d\t\t%s\n", jid, int(ev.Signal), line)
	case jobs.Stopped:
		j.StopSignal = ev.Signal
		fmt.Fprintf(sh.Out, "[%d] suspended by signal %d\t\t%s\n", jid, int(ev.Signal), line)
	}

	sh.log.Debug("background job changed state", "jid", jid, "pgid", j.Pgid, "state", ev.State.String())
	if ev.Terminal() {
		sh.Jobs.Release(j.ID)
	}
}
